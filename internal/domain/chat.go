package domain

import "time"

// ChatMessage is a persistent message in an event's chat.
type ChatMessage struct {
	ID       int64
	EventID  int64
	SenderID int64
	Username string
	Body     string

	CreatedAt time.Time
}
