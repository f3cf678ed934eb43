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

// InviteHandler handles invite links for events.
type InviteHandler struct {
	svc *service.InviteService
}

func NewInviteHandler(svc *service.InviteService) *InviteHandler {
	return &InviteHandler{svc: svc}
}

// Create godoc
// @Summary      Create an invite link (organizer only)
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Event ID"
// @Param        body  body      dto.CreateInviteRequest  true  "Invite options"
// @Success      201   {object}  dto.InviteResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id}/invites [post]
func (h *InviteHandler) Create(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), eventID,
		time.Duration(req.ExpiresIn)*time.Second, req.MaxUses)
	if err != nil {
		writeInviteErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, inviteToResponse(inv))
}

// List godoc
// @Summary      List invites of an event (organizer only)
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.ListInvitesResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/invites [get]
func (h *InviteHandler) List(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), eventID)
	if err != nil {
		writeInviteErr(c, err)
		return
	}
	items := make([]dto.InviteResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, inviteToResponse(inv))
	}
	c.JSON(http.StatusOK, dto.ListInvitesResponse{Items: items})
}

// Revoke godoc
// @Summary      Revoke an invite (organizer only)
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true  "Event ID"
// @Param        inviteID  path      int  true  "Invite ID"
// @Success      200       {object}  dto.InviteResponse
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /events/{id}/invites/{inviteID} [delete]
func (h *InviteHandler) Revoke(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	inviteID, ok := parseID(c, "inviteID")
	if !ok {
		return
	}
	inv, err := h.svc.Revoke(c.Request.Context(), auth.UserIDFromContext(c), eventID, inviteID)
	if err != nil {
		writeInviteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inviteToResponse(inv))
}

// Redeem godoc
// @Summary      Join an event via an invite token
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.RedeemInviteRequest  true  "Invite token"
// @Success      200   {object}  dto.ParticipantResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      410   {object}  map[string]string
// @Router       /invites/redeem [post]
func (h *InviteHandler) Redeem(c *gin.Context) {
	var req dto.RedeemInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Redeem(c.Request.Context(), auth.UserIDFromContext(c), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInviteExpired),
			errors.Is(err, service.ErrInviteExhausted),
			errors.Is(err, service.ErrInviteRevoked):
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		default:
			writeInviteErr(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, participantToResponse(p))
}

func writeInviteErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
