package repo

import (
	"context"
	"errors"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLastOrganizer is returned by SetRole and RemoveParticipant when the
// change would leave the event without an organizer.
var ErrLastOrganizer = errors.New("last organizer")

// EventRepo provides event and participant persistence.
type EventRepo interface {
	Create(ctx context.Context, e dom.Event) (dom.Event, error)
	GetByID(ctx context.Context, id int64) (dom.Event, error)
	ListForUser(ctx context.Context, userID int64) ([]dom.Event, error)
	Update(ctx context.Context, id int64, patch dom.Event) (dom.Event, error)
	Delete(ctx context.Context, id int64) error

	ListParticipants(ctx context.Context, eventID int64) ([]dom.Participant, error)
	GetParticipant(ctx context.Context, eventID, userID int64) (dom.Participant, error)
	AddParticipant(ctx context.Context, eventID, userID int64, role string) (dom.Participant, error)
	SetRole(ctx context.Context, eventID, userID int64, role string) (dom.Participant, error)
	RemoveParticipant(ctx context.Context, eventID, userID int64) error
}

// PGEventRepo implements EventRepo with Postgres.
type PGEventRepo struct {
	db *pgxpool.Pool
}

// NewPGEventRepo returns a new PGEventRepo.
func NewPGEventRepo(db *pgxpool.Pool) *PGEventRepo {
	return &PGEventRepo{db: db}
}

const eventColumns = `id, owner_id, title, description, location, starts_at, ends_at, created_at, updated_at`

func scanEvent(row pgx.Row) (dom.Event, error) {
	var e dom.Event
	err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Location,
		&e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Create inserts the event and its owner as organizer in one transaction.
func (r *PGEventRepo) Create(ctx context.Context, e dom.Event) (dom.Event, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Event{}, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO events (owner_id, title, description, location, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns
	out, err := scanEvent(tx.QueryRow(ctx, query,
		e.OwnerID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt))
	if err != nil {
		return dom.Event{}, err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO participants (event_id, user_id, role) VALUES ($1, $2, $3)`,
		out.ID, e.OwnerID, dom.RoleOrganizer)
	if err != nil {
		return dom.Event{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Event{}, err
	}
	return out, nil
}

func (r *PGEventRepo) GetByID(ctx context.Context, id int64) (dom.Event, error) {
	return scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

func (r *PGEventRepo) ListForUser(ctx context.Context, userID int64) ([]dom.Event, error) {
	query := `
		SELECT ` + prefixed("e", eventColumns) + `
		FROM events e
		JOIN participants p ON p.event_id = e.id
		WHERE p.user_id = $1
		ORDER BY e.starts_at ASC, e.id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *PGEventRepo) Update(ctx context.Context, id int64, patch dom.Event) (dom.Event, error) {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, starts_at = $5, ends_at = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns
	return scanEvent(r.db.QueryRow(ctx, query,
		id, patch.Title, patch.Description, patch.Location, patch.StartsAt, patch.EndsAt))
}

// Delete removes the event; participants, invites, board, polls and chat
// go with it via ON DELETE CASCADE.
func (r *PGEventRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGEventRepo) ListParticipants(ctx context.Context, eventID int64) ([]dom.Participant, error) {
	query := `
		SELECT p.event_id, p.user_id, p.role, u.username, u.display_name, p.joined_at
		FROM participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.joined_at ASC, p.user_id ASC`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Participant
	for rows.Next() {
		var p dom.Participant
		if err := rows.Scan(&p.EventID, &p.UserID, &p.Role, &p.Username, &p.DisplayName, &p.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGEventRepo) GetParticipant(ctx context.Context, eventID, userID int64) (dom.Participant, error) {
	query := `
		SELECT p.event_id, p.user_id, p.role, u.username, u.display_name, p.joined_at
		FROM participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1 AND p.user_id = $2`
	var p dom.Participant
	err := r.db.QueryRow(ctx, query, eventID, userID).Scan(
		&p.EventID, &p.UserID, &p.Role, &p.Username, &p.DisplayName, &p.JoinedAt)
	return p, err
}

func (r *PGEventRepo) AddParticipant(ctx context.Context, eventID, userID int64, role string) (dom.Participant, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO participants (event_id, user_id, role) VALUES ($1, $2, $3)`,
		eventID, userID, role)
	if err != nil {
		return dom.Participant{}, err
	}
	return r.GetParticipant(ctx, eventID, userID)
}

// SetRole updates the participant's role. Demoting the only organizer
// returns ErrLastOrganizer; the check and the update run in one
// transaction so concurrent demotions cannot both slip through.
func (r *PGEventRepo) SetRole(ctx context.Context, eventID, userID int64, role string) (dom.Participant, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Participant{}, err
	}
	defer tx.Rollback(ctx)

	if role != dom.RoleOrganizer {
		organizers, err := lockOrganizers(ctx, tx, eventID)
		if err != nil {
			return dom.Participant{}, err
		}
		if len(organizers) == 1 && organizers[0] == userID {
			return dom.Participant{}, ErrLastOrganizer
		}
	}
	ct, err := tx.Exec(ctx,
		`UPDATE participants SET role = $3 WHERE event_id = $1 AND user_id = $2`,
		eventID, userID, role)
	if err != nil {
		return dom.Participant{}, err
	}
	if ct.RowsAffected() == 0 {
		return dom.Participant{}, pgx.ErrNoRows
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Participant{}, err
	}
	return r.GetParticipant(ctx, eventID, userID)
}

// RemoveParticipant deletes the participant row. Removing the only
// organizer returns ErrLastOrganizer, under the same transactional
// guard as SetRole.
func (r *PGEventRepo) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	organizers, err := lockOrganizers(ctx, tx, eventID)
	if err != nil {
		return err
	}
	if len(organizers) == 1 && organizers[0] == userID {
		return ErrLastOrganizer
	}
	ct, err := tx.Exec(ctx,
		`DELETE FROM participants WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

// lockOrganizers row-locks the event's organizers and returns their user
// IDs. FOR UPDATE cannot be combined with an aggregate, so the guard
// reads the rows themselves; the fixed ORDER BY keeps concurrent
// transactions locking in the same order.
func lockOrganizers(ctx context.Context, tx pgx.Tx, eventID int64) ([]int64, error) {
	rows, err := tx.Query(ctx,
		`SELECT user_id FROM participants WHERE event_id = $1 AND role = $2 ORDER BY user_id FOR UPDATE`,
		eventID, dom.RoleOrganizer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
