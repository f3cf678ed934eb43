package domain

import "time"

// TaskList is a column of the event's task board. Position is 1-based
// and contiguous within the event.
type TaskList struct {
	ID       int64
	EventID  int64
	Title    string
	Position int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task belongs to a list. Position is 1-based and contiguous within
// the list. AssigneeID, if set, must be an event participant.
type Task struct {
	ID         int64
	ListID     int64
	EventID    int64
	Title      string
	Notes      string
	AssigneeID *int64
	DueAt      *time.Time
	IsDone     bool
	Position   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Board is the full task board of an event.
type Board struct {
	Lists []TaskList
	Tasks []Task
}
