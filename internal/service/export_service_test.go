package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExportRepo struct {
	jobs map[string]dom.ExportJob
}

func newFakeExportRepo() *fakeExportRepo {
	return &fakeExportRepo{jobs: map[string]dom.ExportJob{}}
}

func (r *fakeExportRepo) Create(_ context.Context, job dom.ExportJob) (dom.ExportJob, error) {
	job.Status = dom.ExportPending
	job.CreatedAt = time.Now()
	r.jobs[job.ID] = job
	return job, nil
}

func (r *fakeExportRepo) GetByID(_ context.Context, id string) (dom.ExportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return dom.ExportJob{}, pgx.ErrNoRows
	}
	return job, nil
}

func (r *fakeExportRepo) MarkRunning(_ context.Context, id string) error {
	job := r.jobs[id]
	job.Status = dom.ExportRunning
	r.jobs[id] = job
	return nil
}

func (r *fakeExportRepo) MarkDone(_ context.Context, id, filePath string) error {
	job := r.jobs[id]
	job.Status = dom.ExportDone
	job.FilePath = filePath
	now := time.Now()
	job.FinishedAt = &now
	r.jobs[id] = job
	return nil
}

func (r *fakeExportRepo) MarkFailed(_ context.Context, id, errMsg string) error {
	job := r.jobs[id]
	job.Status = dom.ExportFailed
	job.Error = errMsg
	now := time.Now()
	job.FinishedAt = &now
	r.jobs[id] = job
	return nil
}

func (r *fakeExportRepo) DeleteFinishedBefore(_ context.Context, cutoff time.Time) ([]string, error) {
	var paths []string
	for id, job := range r.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			if job.FilePath != "" {
				paths = append(paths, job.FilePath)
			}
			delete(r.jobs, id)
		}
	}
	return paths, nil
}

type fakeQueue struct {
	ids  []string
	fail bool
}

func (q *fakeQueue) Enqueue(_ context.Context, jobID string) error {
	if q.fail {
		return errors.New("redis down")
	}
	q.ids = append(q.ids, jobID)
	return nil
}

func newExportFixture(t *testing.T) (*ExportService, *fakeExportRepo, *fakeQueue, dom.Event) {
	t.Helper()
	events := newFakeEventRepo()
	e := events.seed(organizerID)
	exports := newFakeExportRepo()
	queue := &fakeQueue{}
	eventSvc := NewEventService(events, &capturePub{})
	return NewExportService(exports, eventSvc, queue), exports, queue, e
}

func TestExportRequestEnqueues(t *testing.T) {
	svc, _, queue, e := newExportFixture(t)
	ctx := context.Background()

	job, err := svc.Request(ctx, organizerID, e.ID, dom.ExportFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, dom.ExportPending, job.Status)
	require.NoError(t, uuid.Validate(job.ID))
	assert.Equal(t, []string{job.ID}, queue.ids)
}

func TestExportRequestValidation(t *testing.T) {
	svc, _, _, e := newExportFixture(t)
	ctx := context.Background()

	_, err := svc.Request(ctx, organizerID, e.ID, "pdf")
	assert.ErrorIs(t, err, ErrBadExportFormat)

	_, err = svc.Request(ctx, strangerID, e.ID, dom.ExportFormatICS)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExportRequestEnqueueFailure(t *testing.T) {
	svc, exports, queue, e := newExportFixture(t)
	queue.fail = true
	ctx := context.Background()

	_, err := svc.Request(ctx, organizerID, e.ID, dom.ExportFormatJSON)
	require.Error(t, err)

	// The orphaned row is marked failed for the cleanup job.
	for _, job := range exports.jobs {
		assert.Equal(t, dom.ExportFailed, job.Status)
	}
}

func TestExportGetScoping(t *testing.T) {
	svc, _, _, e := newExportFixture(t)
	ctx := context.Background()

	job, err := svc.Request(ctx, organizerID, e.ID, dom.ExportFormatJSON)
	require.NoError(t, err)

	_, err = svc.Get(ctx, strangerID, job.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, organizerID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, organizerID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportFilePath(t *testing.T) {
	svc, exports, _, e := newExportFixture(t)
	ctx := context.Background()

	job, err := svc.Request(ctx, organizerID, e.ID, dom.ExportFormatJSON)
	require.NoError(t, err)

	_, err = svc.FilePath(ctx, organizerID, job.ID)
	assert.ErrorIs(t, err, ErrExportNotReady)

	require.NoError(t, exports.MarkDone(ctx, job.ID, "/tmp/out.json"))
	path, err := svc.FilePath(ctx, organizerID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out.json", path)
}
