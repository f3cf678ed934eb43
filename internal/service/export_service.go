package service

import (
	"context"
	"errors"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrBadExportFormat = errors.New("format must be json or ics")
	ErrExportNotReady  = errors.New("export is not finished yet")
)

// ExportQueue enqueues export job ids for the background workers.
type ExportQueue interface {
	Enqueue(ctx context.Context, jobID string) error
}

// ExportService creates export jobs and reports their status. The
// rendering itself happens in the jobs package.
type ExportService struct {
	exports repo.ExportRepo
	events  *EventService
	queue   ExportQueue
}

// NewExportService returns a new ExportService.
func NewExportService(exports repo.ExportRepo, events *EventService, queue ExportQueue) *ExportService {
	return &ExportService{exports: exports, events: events, queue: queue}
}

// Request creates a pending job and pushes it onto the queue.
// Participants only.
func (s *ExportService) Request(ctx context.Context, userID, eventID int64, format string) (dom.ExportJob, error) {
	if format != dom.ExportFormatJSON && format != dom.ExportFormatICS {
		return dom.ExportJob{}, ErrBadExportFormat
	}
	if err := s.events.RequireParticipant(ctx, eventID, userID); err != nil {
		return dom.ExportJob{}, err
	}
	job, err := s.exports.Create(ctx, dom.ExportJob{
		ID:          uuid.NewString(),
		EventID:     eventID,
		RequestedBy: userID,
		Format:      format,
	})
	if err != nil {
		return dom.ExportJob{}, err
	}
	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		// The cleanup job will reap the orphaned row.
		_ = s.exports.MarkFailed(ctx, job.ID, "enqueue failed")
		return dom.ExportJob{}, err
	}
	return job, nil
}

// Get returns the job if the caller participates in its event.
func (s *ExportService) Get(ctx context.Context, userID int64, jobID string) (dom.ExportJob, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return dom.ExportJob{}, ErrNotFound
	}
	job, err := s.exports.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.ExportJob{}, ErrNotFound
		}
		return dom.ExportJob{}, err
	}
	if err := s.events.RequireParticipant(ctx, job.EventID, userID); err != nil {
		return dom.ExportJob{}, err
	}
	return job, nil
}

// FilePath returns the path of a finished export for download.
func (s *ExportService) FilePath(ctx context.Context, userID int64, jobID string) (string, error) {
	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != dom.ExportDone || job.FilePath == "" {
		return "", ErrExportNotReady
	}
	return job.FilePath, nil
}
