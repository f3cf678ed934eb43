package dto

import "time"

type PostMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=2000"`
}

type ChatMessageResponse struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	SenderID  int64     `json:"sender_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	Items []ChatMessageResponse `json:"items"`
	// NextBefore is the cursor for the next page; 0 when exhausted.
	NextBefore int64 `json:"next_before"`
}
