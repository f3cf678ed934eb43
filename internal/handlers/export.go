package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/auth"
	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/dto"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/service"
)

// ExportHandler handles asynchronous plan exports.
type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Request godoc
// @Summary      Request an export of the event plan
// @Tags         exports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Event ID"
// @Param        body  body      dto.CreateExportRequest  true  "Export format"
// @Success      202   {object}  dto.ExportResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id}/export [post]
func (h *ExportHandler) Request(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := h.svc.Request(c.Request.Context(), auth.UserIDFromContext(c), eventID, req.Format)
	if err != nil {
		if errors.Is(err, service.ErrBadExportFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeExportErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, exportToResponse(job))
}

// Get godoc
// @Summary      Get export job status
// @Tags         exports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Export job ID"
// @Success      200  {object}  dto.ExportResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /exports/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeExportErr(c, err)
		return
	}
	c.JSON(http.StatusOK, exportToResponse(job))
}

// Download godoc
// @Summary      Download a finished export
// @Tags         exports
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id   path  string  true  "Export job ID"
// @Success      200  {file}  file
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /exports/{id}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	jobID := c.Param("id")
	path, err := h.svc.FilePath(c.Request.Context(), auth.UserIDFromContext(c), jobID)
	if err != nil {
		if errors.Is(err, service.ErrExportNotReady) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		writeExportErr(c, err)
		return
	}
	job, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), jobID)
	if err != nil {
		writeExportErr(c, err)
		return
	}
	name := "plan-" + jobID + "." + job.Format
	if job.Format == dom.ExportFormatICS {
		c.Header("Content-Type", "text/calendar")
	} else {
		c.Header("Content-Type", "application/json")
	}
	c.FileAttachment(path, name)
}

func writeExportErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
