package domain

import "time"

// Export job states.
const (
	ExportPending = "pending"
	ExportRunning = "running"
	ExportDone    = "done"
	ExportFailed  = "failed"
)

// Export formats.
const (
	ExportFormatJSON = "json"
	ExportFormatICS  = "ics"
)

// ExportJob is an asynchronous plan export. ID is a UUID so the job id
// can double as the queue payload and the download handle.
type ExportJob struct {
	ID          string
	EventID     int64
	RequestedBy int64
	Format      string
	Status      string
	FilePath    string
	Error       string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt *time.Time
}
