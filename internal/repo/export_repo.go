package repo

import (
	"context"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExportRepo provides export job persistence.
type ExportRepo interface {
	Create(ctx context.Context, job dom.ExportJob) (dom.ExportJob, error)
	GetByID(ctx context.Context, id string) (dom.ExportJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkDone(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, errMsg string) error
	// DeleteFinishedBefore removes done/failed jobs older than cutoff and
	// returns the file paths of the deleted rows.
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

// PGExportRepo implements ExportRepo with Postgres.
type PGExportRepo struct {
	db *pgxpool.Pool
}

// NewPGExportRepo returns a new PGExportRepo.
func NewPGExportRepo(db *pgxpool.Pool) *PGExportRepo {
	return &PGExportRepo{db: db}
}

const exportColumns = `id, event_id, requested_by, format, status, file_path, error, created_at, updated_at, finished_at`

func scanExport(row pgx.Row) (dom.ExportJob, error) {
	var j dom.ExportJob
	err := row.Scan(&j.ID, &j.EventID, &j.RequestedBy, &j.Format, &j.Status,
		&j.FilePath, &j.Error, &j.CreatedAt, &j.UpdatedAt, &j.FinishedAt)
	return j, err
}

func (r *PGExportRepo) Create(ctx context.Context, job dom.ExportJob) (dom.ExportJob, error) {
	query := `
		INSERT INTO export_jobs (id, event_id, requested_by, format)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + exportColumns
	return scanExport(r.db.QueryRow(ctx, query,
		job.ID, job.EventID, job.RequestedBy, job.Format))
}

func (r *PGExportRepo) GetByID(ctx context.Context, id string) (dom.ExportJob, error) {
	return scanExport(r.db.QueryRow(ctx,
		`SELECT `+exportColumns+` FROM export_jobs WHERE id = $1`, id))
}

func (r *PGExportRepo) MarkRunning(ctx context.Context, id string) error {
	return r.setStatus(ctx,
		`UPDATE export_jobs SET status = 'running', updated_at = NOW() WHERE id = $1`, id)
}

func (r *PGExportRepo) MarkDone(ctx context.Context, id, filePath string) error {
	return r.setStatus(ctx,
		`UPDATE export_jobs SET status = 'done', file_path = $2, updated_at = NOW(), finished_at = NOW() WHERE id = $1`,
		id, filePath)
}

func (r *PGExportRepo) MarkFailed(ctx context.Context, id, errMsg string) error {
	return r.setStatus(ctx,
		`UPDATE export_jobs SET status = 'failed', error = $2, updated_at = NOW(), finished_at = NOW() WHERE id = $1`,
		id, errMsg)
}

func (r *PGExportRepo) setStatus(ctx context.Context, query string, args ...any) error {
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGExportRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		DELETE FROM export_jobs
		WHERE status IN ('done', 'failed') AND finished_at < $1
		RETURNING file_path`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, rows.Err()
}
