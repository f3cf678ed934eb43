package dto

import "time"

type CreateExportRequest struct {
	Format string `json:"format" binding:"required,oneof=json ics"`
}

type ExportResponse struct {
	ID         string     `json:"id"`
	EventID    int64      `json:"event_id"`
	Format     string     `json:"format"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at"`
}
