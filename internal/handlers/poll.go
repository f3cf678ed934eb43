package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/auth"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/dto"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/service"
)

// PollHandler handles polls and voting.
type PollHandler struct {
	svc *service.PollService
}

func NewPollHandler(svc *service.PollService) *PollHandler {
	return &PollHandler{svc: svc}
}

// Create godoc
// @Summary      Create a poll
// @Tags         polls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Event ID"
// @Param        body  body      dto.CreatePollRequest  true  "Poll body"
// @Success      201   {object}  dto.PollResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id}/polls [post]
func (h *PollHandler) Create(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), eventID, req.Question, req.Multi, req.Options)
	if err != nil {
		writePollErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, pollToResponse(p))
}

// List godoc
// @Summary      List polls of an event with the viewer's votes
// @Tags         polls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.ListPollsResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/polls [get]
func (h *PollHandler) List(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), eventID)
	if err != nil {
		writePollErr(c, err)
		return
	}
	items := make([]dto.PollResponse, 0, len(list))
	for _, p := range list {
		items = append(items, pollToResponse(p))
	}
	c.JSON(http.StatusOK, dto.ListPollsResponse{Items: items})
}

// Get godoc
// @Summary      Get a poll by ID
// @Tags         polls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Poll ID"
// @Success      200  {object}  dto.PollResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /polls/{id} [get]
func (h *PollHandler) Get(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), pollID)
	if err != nil {
		writePollErr(c, err)
		return
	}
	c.JSON(http.StatusOK, pollToResponse(p))
}

// AddOption godoc
// @Summary      Add an option to an open poll (creator or organizer)
// @Tags         polls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Poll ID"
// @Param        body  body      dto.AddPollOptionRequest  true  "Option text"
// @Success      200   {object}  dto.PollResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /polls/{id}/options [post]
func (h *PollHandler) AddOption(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddPollOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.AddOption(c.Request.Context(), auth.UserIDFromContext(c), pollID, req.Text)
	if err != nil {
		writePollErr(c, err)
		return
	}
	c.JSON(http.StatusOK, pollToResponse(p))
}

// Vote godoc
// @Summary      Vote for an option
// @Tags         polls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Poll ID"
// @Param        body  body      dto.VoteRequest  true  "Option"
// @Success      200   {object}  dto.PollResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /polls/{id}/vote [post]
func (h *PollHandler) Vote(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Vote(c.Request.Context(), auth.UserIDFromContext(c), pollID, req.OptionID)
	if err != nil {
		writePollErr(c, err)
		return
	}
	c.JSON(http.StatusOK, pollToResponse(p))
}

// Unvote godoc
// @Summary      Withdraw a vote
// @Tags         polls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Poll ID"
// @Param        body  body      dto.VoteRequest  true  "Option"
// @Success      200   {object}  dto.PollResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /polls/{id}/unvote [post]
func (h *PollHandler) Unvote(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Unvote(c.Request.Context(), auth.UserIDFromContext(c), pollID, req.OptionID)
	if err != nil {
		writePollErr(c, err)
		return
	}
	c.JSON(http.StatusOK, pollToResponse(p))
}

// Close godoc
// @Summary      Close a poll (creator or organizer)
// @Tags         polls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Poll ID"
// @Success      200  {object}  dto.PollResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /polls/{id}/close [post]
func (h *PollHandler) Close(c *gin.Context) {
	h.setClosed(c, true)
}

// Reopen godoc
// @Summary      Reopen a closed poll (creator or organizer)
// @Tags         polls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Poll ID"
// @Success      200  {object}  dto.PollResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /polls/{id}/reopen [post]
func (h *PollHandler) Reopen(c *gin.Context) {
	h.setClosed(c, false)
}

// Delete godoc
// @Summary      Delete a poll (creator or organizer)
// @Tags         polls
// @Security     BearerAuth
// @Param        id   path  int  true  "Poll ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /polls/{id} [delete]
func (h *PollHandler) Delete(c *gin.Context) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), pollID); err != nil {
		writePollErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PollHandler) setClosed(c *gin.Context, closed bool) {
	pollID, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.SetClosed(c.Request.Context(), auth.UserIDFromContext(c), pollID, closed)
	if err != nil {
		writePollErr(c, err)
		return
	}
	c.JSON(http.StatusOK, pollToResponse(p))
}

func writePollErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrPollClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadOptionCount), errors.Is(err, service.ErrOptionNotInPoll),
		errors.Is(err, service.ErrQuestionRequired), errors.Is(err, service.ErrOptionTextRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
