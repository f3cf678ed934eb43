package repo

import (
	"context"
	"errors"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPollClosed is returned by vote mutations on a closed poll.
var ErrPollClosed = errors.New("poll is closed")

// PollRepo provides poll persistence. Mutations that change a poll
// bump its version by exactly one in the same transaction and return
// the new version, so callers can attach it to realtime deltas.
type PollRepo interface {
	Create(ctx context.Context, p dom.Poll, options []string) (dom.Poll, error)
	GetByID(ctx context.Context, pollID, viewerID int64) (dom.Poll, error)
	ListByEvent(ctx context.Context, eventID, viewerID int64) ([]dom.Poll, error)
	AddOption(ctx context.Context, pollID int64, text string) (int64, error)
	Vote(ctx context.Context, pollID, optionID, userID int64) (version int64, changed bool, err error)
	Unvote(ctx context.Context, pollID, optionID, userID int64) (version int64, changed bool, err error)
	SetClosed(ctx context.Context, pollID int64, closed bool) (int64, error)
	Delete(ctx context.Context, pollID int64) error
}

// PGPollRepo implements PollRepo with Postgres.
type PGPollRepo struct {
	db *pgxpool.Pool
}

// NewPGPollRepo returns a new PGPollRepo.
func NewPGPollRepo(db *pgxpool.Pool) *PGPollRepo {
	return &PGPollRepo{db: db}
}

const pollColumns = `id, event_id, creator_id, question, multi, closed, version, created_at, updated_at`

func scanPoll(row pgx.Row) (dom.Poll, error) {
	var p dom.Poll
	err := row.Scan(&p.ID, &p.EventID, &p.CreatorID, &p.Question, &p.Multi, &p.Closed,
		&p.Version, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PGPollRepo) Create(ctx context.Context, p dom.Poll, options []string) (dom.Poll, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Poll{}, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO polls (event_id, creator_id, question, multi)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + pollColumns
	out, err := scanPoll(tx.QueryRow(ctx, query, p.EventID, p.CreatorID, p.Question, p.Multi))
	if err != nil {
		return dom.Poll{}, err
	}
	for i, text := range options {
		var opt dom.PollOption
		err := tx.QueryRow(ctx,
			`INSERT INTO poll_options (poll_id, text, position) VALUES ($1, $2, $3)
			 RETURNING id, poll_id, text, position`,
			out.ID, text, i+1,
		).Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position)
		if err != nil {
			return dom.Poll{}, err
		}
		out.Options = append(out.Options, opt)
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Poll{}, err
	}
	return out, nil
}

func (r *PGPollRepo) GetByID(ctx context.Context, pollID, viewerID int64) (dom.Poll, error) {
	p, err := scanPoll(r.db.QueryRow(ctx,
		`SELECT `+pollColumns+` FROM polls WHERE id = $1`, pollID))
	if err != nil {
		return dom.Poll{}, err
	}
	opts, err := r.loadOptions(ctx, []int64{pollID}, viewerID)
	if err != nil {
		return dom.Poll{}, err
	}
	p.Options = opts[pollID]
	return p, nil
}

func (r *PGPollRepo) ListByEvent(ctx context.Context, eventID, viewerID int64) ([]dom.Poll, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+pollColumns+` FROM polls WHERE event_id = $1 ORDER BY created_at DESC, id DESC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Poll
	var ids []int64
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	opts, err := r.loadOptions(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Options = opts[list[i].ID]
	}
	return list, nil
}

// loadOptions returns options with tallies and the viewer's votes,
// grouped by poll id.
func (r *PGPollRepo) loadOptions(ctx context.Context, pollIDs []int64, viewerID int64) (map[int64][]dom.PollOption, error) {
	query := `
		SELECT o.id, o.poll_id, o.text, o.position,
		       COUNT(v.user_id)::int,
		       COALESCE(BOOL_OR(v.user_id = $2), FALSE)
		FROM poll_options o
		LEFT JOIN poll_votes v ON v.option_id = o.id
		WHERE o.poll_id = ANY($1)
		GROUP BY o.id
		ORDER BY o.poll_id, o.position`
	rows, err := r.db.Query(ctx, query, pollIDs, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]dom.PollOption, len(pollIDs))
	for rows.Next() {
		var o dom.PollOption
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Position, &o.VoteCount, &o.Voted); err != nil {
			return nil, err
		}
		out[o.PollID] = append(out[o.PollID], o)
	}
	return out, rows.Err()
}

func (r *PGPollRepo) AddOption(ctx context.Context, pollID int64, text string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	closed, err := lockPoll(ctx, tx, pollID)
	if err != nil {
		return 0, err
	}
	if closed {
		return 0, ErrPollClosed
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO poll_options (poll_id, text, position)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM poll_options WHERE poll_id = $1))`,
		pollID, text)
	if err != nil {
		return 0, err
	}
	version, err := bumpVersion(ctx, tx, pollID)
	if err != nil {
		return 0, err
	}
	return version, tx.Commit(ctx)
}

// Vote records a vote. On single-choice polls any previous vote by the
// user is replaced in the same transaction. A duplicate vote is a no-op:
// changed is false and the version is not bumped.
func (r *PGPollRepo) Vote(ctx context.Context, pollID, optionID, userID int64) (int64, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback(ctx)

	var multi, closed bool
	var version int64
	err = tx.QueryRow(ctx,
		`SELECT multi, closed, version FROM polls WHERE id = $1 FOR UPDATE`,
		pollID).Scan(&multi, &closed, &version)
	if err != nil {
		return 0, false, err
	}
	if closed {
		return 0, false, ErrPollClosed
	}

	changed := false
	if !multi {
		ct, err := tx.Exec(ctx,
			`DELETE FROM poll_votes WHERE poll_id = $1 AND user_id = $2 AND option_id <> $3`,
			pollID, userID, optionID)
		if err != nil {
			return 0, false, err
		}
		changed = ct.RowsAffected() > 0
	}

	// The subselect pins the option to the poll; inserting a foreign
	// option id affects zero rows and surfaces as ErrNoRows.
	ct, err := tx.Exec(ctx,
		`INSERT INTO poll_votes (option_id, poll_id, user_id)
		 SELECT $2, $1, $3 WHERE EXISTS (SELECT 1 FROM poll_options WHERE id = $2 AND poll_id = $1)
		 ON CONFLICT (option_id, user_id) DO NOTHING`,
		pollID, optionID, userID)
	if err != nil {
		return 0, false, err
	}
	if ct.RowsAffected() == 0 && !changed {
		// Either a duplicate vote (no-op) or an option of another poll.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM poll_options WHERE id = $1 AND poll_id = $2)`,
			optionID, pollID).Scan(&exists); err != nil {
			return 0, false, err
		}
		if !exists {
			return 0, false, pgx.ErrNoRows
		}
		return version, false, tx.Commit(ctx)
	}

	version, err = bumpVersion(ctx, tx, pollID)
	if err != nil {
		return 0, false, err
	}
	return version, true, tx.Commit(ctx)
}

func (r *PGPollRepo) Unvote(ctx context.Context, pollID, optionID, userID int64) (int64, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback(ctx)

	closed, err := lockPoll(ctx, tx, pollID)
	if err != nil {
		return 0, false, err
	}
	if closed {
		return 0, false, ErrPollClosed
	}
	ct, err := tx.Exec(ctx,
		`DELETE FROM poll_votes WHERE poll_id = $1 AND option_id = $2 AND user_id = $3`,
		pollID, optionID, userID)
	if err != nil {
		return 0, false, err
	}
	if ct.RowsAffected() == 0 {
		var version int64
		if err := tx.QueryRow(ctx, `SELECT version FROM polls WHERE id = $1`, pollID).Scan(&version); err != nil {
			return 0, false, err
		}
		return version, false, tx.Commit(ctx)
	}
	version, err := bumpVersion(ctx, tx, pollID)
	if err != nil {
		return 0, false, err
	}
	return version, true, tx.Commit(ctx)
}

func (r *PGPollRepo) SetClosed(ctx context.Context, pollID int64, closed bool) (int64, error) {
	var version int64
	err := r.db.QueryRow(ctx,
		`UPDATE polls SET closed = $2, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND closed <> $2
		 RETURNING version`,
		pollID, closed).Scan(&version)
	return version, err
}

func (r *PGPollRepo) Delete(ctx context.Context, pollID int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func lockPoll(ctx context.Context, tx pgx.Tx, pollID int64) (closed bool, err error) {
	err = tx.QueryRow(ctx, `SELECT closed FROM polls WHERE id = $1 FOR UPDATE`, pollID).Scan(&closed)
	return closed, err
}

func bumpVersion(ctx context.Context, tx pgx.Tx, pollID int64) (int64, error) {
	var version int64
	err := tx.QueryRow(ctx,
		`UPDATE polls SET version = version + 1, updated_at = NOW() WHERE id = $1 RETURNING version`,
		pollID).Scan(&version)
	return version, err
}
