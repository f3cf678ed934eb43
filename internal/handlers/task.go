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

// TaskHandler handles the task board: lists, tasks and moves.
type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Board godoc
// @Summary      Get the full task board of an event
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.BoardResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/board [get]
func (h *TaskHandler) Board(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	board, err := h.svc.Board(c.Request.Context(), auth.UserIDFromContext(c), eventID)
	if err != nil {
		writeTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, boardToResponse(board))
}

// CreateList godoc
// @Summary      Create a task list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Event ID"
// @Param        body  body      dto.CreateListRequest  true  "List body"
// @Success      201   {object}  dto.TaskListResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id}/lists [post]
func (h *TaskHandler) CreateList(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.CreateList(c.Request.Context(), auth.UserIDFromContext(c), eventID, req.Title)
	if err != nil {
		writeTaskErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, listToResponse(l))
}

// RenameList godoc
// @Summary      Rename a task list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "List ID"
// @Param        body  body      dto.RenameListRequest  true  "New title"
// @Success      200   {object}  dto.TaskListResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /lists/{id} [patch]
func (h *TaskHandler) RenameList(c *gin.Context) {
	listID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RenameListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.RenameList(c.Request.Context(), auth.UserIDFromContext(c), listID, req.Title)
	if err != nil {
		writeTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, listToResponse(l))
}

// MoveList godoc
// @Summary      Move a task list to a new position
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "List ID"
// @Param        body  body      dto.MoveListRequest  true  "Target position (1-based)"
// @Success      200   {object}  dto.TaskListResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /lists/{id}/move [post]
func (h *TaskHandler) MoveList(c *gin.Context) {
	listID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MoveListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.MoveList(c.Request.Context(), auth.UserIDFromContext(c), listID, req.Position)
	if err != nil {
		writeTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, listToResponse(l))
}

// DeleteList godoc
// @Summary      Delete a task list with its tasks
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "List ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /lists/{id} [delete]
func (h *TaskHandler) DeleteList(c *gin.Context) {
	listID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteList(c.Request.Context(), auth.UserIDFromContext(c), listID); err != nil {
		writeTaskErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateTask godoc
// @Summary      Create a task at the end of a list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "List ID"
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /lists/{id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	listID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var dueAt *time.Time
	if req.DueAt != nil {
		dueAt = req.DueAt.Ptr()
	}
	t, err := h.svc.CreateTask(c.Request.Context(), auth.UserIDFromContext(c), listID, req.Title, req.Notes, req.AssigneeID, dueAt)
	if err != nil {
		writeTaskErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// UpdateTask godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AssigneeID != nil && req.ClearAssignee {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee_id and clear_assignee are mutually exclusive"})
		return
	}
	var dueAt *time.Time
	if req.DueAt != nil {
		dueAt = req.DueAt.Ptr()
	}
	t, err := h.svc.UpdateTask(c.Request.Context(), auth.UserIDFromContext(c), taskID,
		req.Title, req.Notes, req.AssigneeID, req.ClearAssignee, dueAt, req.IsDone)
	if err != nil {
		writeTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// MoveTask godoc
// @Summary      Move a task to a position, possibly in another list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.MoveTaskRequest  true  "Target list and position"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id}/move [post]
func (h *TaskHandler) MoveTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.MoveTask(c.Request.Context(), auth.UserIDFromContext(c), taskID, req.ListID, req.Position)
	if err != nil {
		writeTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), auth.UserIDFromContext(c), taskID); err != nil {
		writeTaskErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeTaskErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrAssigneeNotParticipant):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
