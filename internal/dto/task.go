package dto

import "time"

type CreateListRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

type RenameListRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

type MoveListRequest struct {
	Position int `json:"position" binding:"required,min=1"`
}

type CreateTaskRequest struct {
	Title      string    `json:"title" binding:"required,min=1,max=200"`
	Notes      string    `json:"notes" binding:"max=4000"`
	AssigneeID *int64    `json:"assignee_id"`
	DueAt      *FlexTime `json:"due_at"`
}

type UpdateTaskRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=200"`
	Notes *string `json:"notes" binding:"omitempty,max=4000"`
	// AssigneeID sets the assignee; ClearAssignee removes it. Setting
	// both is a bad request.
	AssigneeID    *int64    `json:"assignee_id"`
	ClearAssignee bool      `json:"clear_assignee"`
	DueAt         *FlexTime `json:"due_at"`
	IsDone        *bool     `json:"is_done"`
}

type MoveTaskRequest struct {
	ListID   int64 `json:"list_id" binding:"required"`
	Position int   `json:"position" binding:"required,min=1"`
}

type TaskListResponse struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TaskResponse struct {
	ID         int64      `json:"id"`
	ListID     int64      `json:"list_id"`
	EventID    int64      `json:"event_id"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	AssigneeID *int64     `json:"assignee_id"`
	DueAt      *time.Time `json:"due_at"`
	IsDone     bool       `json:"is_done"`
	Position   int        `json:"position"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type BoardResponse struct {
	Lists []TaskListResponse `json:"lists"`
	Tasks []TaskResponse     `json:"tasks"`
}
