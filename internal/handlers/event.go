package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/auth"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/dto"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/service"
)

// EventHandler handles event CRUD and participant management.
type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Create godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateEventRequest  true  "Event body"
// @Success      201   {object}  dto.EventResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startsAt := req.StartsAt.Ptr()
	if startsAt == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starts_at is required"})
		return
	}
	var endsAt *time.Time
	if req.EndsAt != nil {
		endsAt = req.EndsAt.Ptr()
	}
	e, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Title, req.Description, req.Location, *startsAt, endsAt)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimes) || errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, eventToResponse(e))
}

// List godoc
// @Summary      List events the current user participates in
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListEventsResponse
// @Failure      401  {object}  map[string]string
// @Router       /events [get]
func (h *EventHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListEventsResponse{Items: eventsToResponses(list)})
}

// Get godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.EventResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(e))
}

// Update godoc
// @Summary      Update an event (organizer only)
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Event ID"
// @Param        body  body      dto.UpdateEventRequest  true  "Partial update"
// @Success      200   {object}  dto.EventResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id} [patch]
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var startsAt, endsAt *time.Time
	if req.StartsAt != nil {
		startsAt = req.StartsAt.Ptr()
	}
	if req.EndsAt != nil {
		endsAt = req.EndsAt.Ptr()
	}
	e, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, req.Title, req.Description, req.Location, startsAt, endsAt)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimes) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(e))
}

// Delete godoc
// @Summary      Delete an event (organizer only)
// @Tags         events
// @Security     BearerAuth
// @Param        id   path  int  true  "Event ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		h.writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Participants godoc
// @Summary      List event participants
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.ListParticipantsResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/participants [get]
func (h *EventHandler) Participants(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.Participants(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListParticipantsResponse{Items: participantsToResponses(list)})
}

// ChangeRole godoc
// @Summary      Change a participant's role (organizer only)
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int  true  "Event ID"
// @Param        userID  path      int  true  "Target user ID"
// @Param        body    body      dto.ChangeRoleRequest  true  "New role"
// @Success      200     {object}  dto.ParticipantResponse
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /events/{id}/participants/{userID}/role [put]
func (h *EventHandler) ChangeRole(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseID(c, "userID")
	if !ok {
		return
	}
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.ChangeRole(c.Request.Context(), auth.UserIDFromContext(c), eventID, targetID, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrLastOrganizer) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrInvalidRole) || errors.Is(err, service.ErrNotParticipant) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, participantToResponse(p))
}

// RemoveParticipant godoc
// @Summary      Remove a participant (organizer only)
// @Tags         events
// @Security     BearerAuth
// @Param        id      path  int  true  "Event ID"
// @Param        userID  path  int  true  "Target user ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /events/{id}/participants/{userID} [delete]
func (h *EventHandler) RemoveParticipant(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseID(c, "userID")
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), auth.UserIDFromContext(c), eventID, targetID); err != nil {
		if errors.Is(err, service.ErrLastOrganizer) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave godoc
// @Summary      Leave an event
// @Tags         events
// @Security     BearerAuth
// @Param        id   path  int  true  "Event ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /events/{id}/leave [post]
func (h *EventHandler) Leave(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		if errors.Is(err, service.ErrLastOrganizer) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
