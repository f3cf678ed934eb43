package repo

import (
	"context"
	"errors"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCrossEventMove is returned when a task is moved to a list of a
// different event.
var ErrCrossEventMove = errors.New("target list belongs to another event")

// TaskRepo provides task board persistence. Positions are kept 1-based
// and contiguous; moves renumber inside a transaction.
type TaskRepo interface {
	Board(ctx context.Context, eventID int64) (dom.Board, error)

	CreateList(ctx context.Context, eventID int64, title string) (dom.TaskList, error)
	GetList(ctx context.Context, listID int64) (dom.TaskList, error)
	RenameList(ctx context.Context, listID int64, title string) (dom.TaskList, error)
	MoveList(ctx context.Context, listID int64, position int) (dom.TaskList, error)
	DeleteList(ctx context.Context, listID int64) error

	CreateTask(ctx context.Context, t dom.Task) (dom.Task, error)
	GetTask(ctx context.Context, taskID int64) (dom.Task, error)
	UpdateTask(ctx context.Context, taskID int64, patch dom.Task) (dom.Task, error)
	MoveTask(ctx context.Context, taskID, toListID int64, position int) (dom.Task, error)
	DeleteTask(ctx context.Context, taskID int64) error
}

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

// NewPGTaskRepo returns a new PGTaskRepo.
func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const listColumns = `id, event_id, title, position, created_at, updated_at`
const taskColumns = `id, list_id, event_id, title, notes, assignee_id, due_at, is_done, position, created_at, updated_at`

func scanList(row pgx.Row) (dom.TaskList, error) {
	var l dom.TaskList
	err := row.Scan(&l.ID, &l.EventID, &l.Title, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.ListID, &t.EventID, &t.Title, &t.Notes, &t.AssigneeID,
		&t.DueAt, &t.IsDone, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTaskRepo) Board(ctx context.Context, eventID int64) (dom.Board, error) {
	var b dom.Board
	rows, err := r.db.Query(ctx,
		`SELECT `+listColumns+` FROM task_lists WHERE event_id = $1 ORDER BY position`, eventID)
	if err != nil {
		return dom.Board{}, err
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return dom.Board{}, err
		}
		b.Lists = append(b.Lists, l)
	}
	if err := rows.Err(); err != nil {
		return dom.Board{}, err
	}

	trows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE event_id = $1 ORDER BY list_id, position`, eventID)
	if err != nil {
		return dom.Board{}, err
	}
	defer trows.Close()
	for trows.Next() {
		t, err := scanTask(trows)
		if err != nil {
			return dom.Board{}, err
		}
		b.Tasks = append(b.Tasks, t)
	}
	return b, trows.Err()
}

func (r *PGTaskRepo) CreateList(ctx context.Context, eventID int64, title string) (dom.TaskList, error) {
	query := `
		INSERT INTO task_lists (event_id, title, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM task_lists WHERE event_id = $1))
		RETURNING ` + listColumns
	return scanList(r.db.QueryRow(ctx, query, eventID, title))
}

func (r *PGTaskRepo) GetList(ctx context.Context, listID int64) (dom.TaskList, error) {
	return scanList(r.db.QueryRow(ctx,
		`SELECT `+listColumns+` FROM task_lists WHERE id = $1`, listID))
}

func (r *PGTaskRepo) RenameList(ctx context.Context, listID int64, title string) (dom.TaskList, error) {
	return scanList(r.db.QueryRow(ctx,
		`UPDATE task_lists SET title = $2, updated_at = NOW() WHERE id = $1 RETURNING `+listColumns,
		listID, title))
}

func (r *PGTaskRepo) MoveList(ctx context.Context, listID int64, position int) (dom.TaskList, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.TaskList{}, err
	}
	defer tx.Rollback(ctx)

	var eventID int64
	var oldPos int
	err = tx.QueryRow(ctx,
		`SELECT event_id, position FROM task_lists WHERE id = $1 FOR UPDATE`, listID,
	).Scan(&eventID, &oldPos)
	if err != nil {
		return dom.TaskList{}, err
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM task_lists WHERE event_id = $1`, eventID).Scan(&count); err != nil {
		return dom.TaskList{}, err
	}
	position = clamp(position, 1, count)
	if position != oldPos {
		// Close the gap, then open a slot at the target position.
		if _, err := tx.Exec(ctx,
			`UPDATE task_lists SET position = position - 1 WHERE event_id = $1 AND position > $2`,
			eventID, oldPos); err != nil {
			return dom.TaskList{}, err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE task_lists SET position = position + 1 WHERE event_id = $1 AND position >= $2 AND id <> $3`,
			eventID, position, listID); err != nil {
			return dom.TaskList{}, err
		}
	}
	l, err := scanList(tx.QueryRow(ctx,
		`UPDATE task_lists SET position = $2, updated_at = NOW() WHERE id = $1 RETURNING `+listColumns,
		listID, position))
	if err != nil {
		return dom.TaskList{}, err
	}
	return l, tx.Commit(ctx)
}

// DeleteList removes the list (tasks cascade) and renumbers the rest.
func (r *PGTaskRepo) DeleteList(ctx context.Context, listID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var eventID int64
	var pos int
	err = tx.QueryRow(ctx,
		`SELECT event_id, position FROM task_lists WHERE id = $1 FOR UPDATE`, listID,
	).Scan(&eventID, &pos)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM task_lists WHERE id = $1`, listID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE task_lists SET position = position - 1 WHERE event_id = $1 AND position > $2`,
		eventID, pos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGTaskRepo) CreateTask(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (list_id, event_id, title, notes, assignee_id, due_at, position)
		VALUES ($1, $2, $3, $4, $5, $6, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE list_id = $1))
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		t.ListID, t.EventID, t.Title, t.Notes, t.AssigneeID, t.DueAt))
}

func (r *PGTaskRepo) GetTask(ctx context.Context, taskID int64) (dom.Task, error) {
	return scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID))
}

func (r *PGTaskRepo) UpdateTask(ctx context.Context, taskID int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $2, notes = $3, assignee_id = $4, due_at = $5, is_done = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		taskID, patch.Title, patch.Notes, patch.AssigneeID, patch.DueAt, patch.IsDone))
}

func (r *PGTaskRepo) MoveTask(ctx context.Context, taskID, toListID int64, position int) (dom.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Task{}, err
	}
	defer tx.Rollback(ctx)

	var eventID, fromListID int64
	var oldPos int
	err = tx.QueryRow(ctx,
		`SELECT event_id, list_id, position FROM tasks WHERE id = $1 FOR UPDATE`, taskID,
	).Scan(&eventID, &fromListID, &oldPos)
	if err != nil {
		return dom.Task{}, err
	}

	var targetEventID int64
	err = tx.QueryRow(ctx,
		`SELECT event_id FROM task_lists WHERE id = $1 FOR UPDATE`, toListID,
	).Scan(&targetEventID)
	if err != nil {
		return dom.Task{}, err
	}
	if targetEventID != eventID {
		return dom.Task{}, ErrCrossEventMove
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET position = position - 1 WHERE list_id = $1 AND position > $2`,
		fromListID, oldPos); err != nil {
		return dom.Task{}, err
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE list_id = $1 AND id <> $2`, toListID, taskID,
	).Scan(&count); err != nil {
		return dom.Task{}, err
	}
	position = clamp(position, 1, count+1)
	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET position = position + 1 WHERE list_id = $1 AND position >= $2 AND id <> $3`,
		toListID, position, taskID); err != nil {
		return dom.Task{}, err
	}
	t, err := scanTask(tx.QueryRow(ctx,
		`UPDATE tasks SET list_id = $2, position = $3, updated_at = NOW() WHERE id = $1 RETURNING `+taskColumns,
		taskID, toListID, position))
	if err != nil {
		return dom.Task{}, err
	}
	return t, tx.Commit(ctx)
}

func (r *PGTaskRepo) DeleteTask(ctx context.Context, taskID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var listID int64
	var pos int
	err = tx.QueryRow(ctx,
		`SELECT list_id, position FROM tasks WHERE id = $1 FOR UPDATE`, taskID,
	).Scan(&listID, &pos)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET position = position - 1 WHERE list_id = $1 AND position > $2`,
		listID, pos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
