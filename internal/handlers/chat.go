package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/auth"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/dto"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/service"
)

// ChatHandler handles the HTTP side of the event chat. Realtime
// delivery happens over the WebSocket hub; these endpoints serve
// history and clients without a socket.
type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Post godoc
// @Summary      Post a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Event ID"
// @Param        body  body      dto.PostMessageRequest  true  "Message body"
// @Success      201   {object}  dto.ChatMessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id}/messages [post]
func (h *ChatHandler) Post(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Post(c.Request.Context(), eventID, auth.UserIDFromContext(c), req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeChatErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, messageToResponse(m))
}

// History godoc
// @Summary      Page chat history backwards from a cursor
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int  true   "Event ID"
// @Param        before  query     int  false  "Return messages with id < before; 0 = newest"
// @Param        limit   query     int  false  "Page size, max 100"
// @Success      200     {object}  dto.ChatHistoryResponse
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /events/{id}/messages [get]
func (h *ChatHandler) History(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	before, _ := strconv.ParseInt(c.DefaultQuery("before", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	list, err := h.svc.History(c.Request.Context(), auth.UserIDFromContext(c), eventID, before, limit)
	if err != nil {
		writeChatErr(c, err)
		return
	}
	items := make([]dto.ChatMessageResponse, 0, len(list))
	for _, m := range list {
		items = append(items, messageToResponse(m))
	}
	var next int64
	if len(list) > 0 {
		// List is newest-first; the oldest id on the page is the cursor.
		next = list[len(list)-1].ID
	}
	c.JSON(http.StatusOK, dto.ChatHistoryResponse{Items: items, NextBefore: next})
}

// Delete godoc
// @Summary      Delete own chat message
// @Tags         chat
// @Security     BearerAuth
// @Param        id   path  int  true  "Message ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [delete]
func (h *ChatHandler) Delete(c *gin.Context) {
	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), messageID); err != nil {
		writeChatErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeChatErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
