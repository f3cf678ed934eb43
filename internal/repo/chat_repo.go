package repo

import (
	"context"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepo provides chat message persistence.
type ChatRepo interface {
	Create(ctx context.Context, eventID, senderID int64, body string) (dom.ChatMessage, error)
	GetByID(ctx context.Context, id int64) (dom.ChatMessage, error)
	// ListBefore returns up to limit messages with id < beforeID, newest
	// first. beforeID == 0 means "from the latest".
	ListBefore(ctx context.Context, eventID, beforeID int64, limit int) ([]dom.ChatMessage, error)
	Delete(ctx context.Context, id int64) error
}

// PGChatRepo implements ChatRepo with Postgres.
type PGChatRepo struct {
	db *pgxpool.Pool
}

// NewPGChatRepo returns a new PGChatRepo.
func NewPGChatRepo(db *pgxpool.Pool) *PGChatRepo {
	return &PGChatRepo{db: db}
}

func (r *PGChatRepo) Create(ctx context.Context, eventID, senderID int64, body string) (dom.ChatMessage, error) {
	query := `
		WITH inserted AS (
			INSERT INTO chat_messages (event_id, sender_id, body)
			VALUES ($1, $2, $3)
			RETURNING id, event_id, sender_id, body, created_at
		)
		SELECT i.id, i.event_id, i.sender_id, u.username, i.body, i.created_at
		FROM inserted i JOIN users u ON u.id = i.sender_id`
	var m dom.ChatMessage
	err := r.db.QueryRow(ctx, query, eventID, senderID, body).Scan(
		&m.ID, &m.EventID, &m.SenderID, &m.Username, &m.Body, &m.CreatedAt)
	return m, err
}

func (r *PGChatRepo) GetByID(ctx context.Context, id int64) (dom.ChatMessage, error) {
	query := `
		SELECT m.id, m.event_id, m.sender_id, u.username, m.body, m.created_at
		FROM chat_messages m JOIN users u ON u.id = m.sender_id
		WHERE m.id = $1`
	var m dom.ChatMessage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.EventID, &m.SenderID, &m.Username, &m.Body, &m.CreatedAt)
	return m, err
}

func (r *PGChatRepo) ListBefore(ctx context.Context, eventID, beforeID int64, limit int) ([]dom.ChatMessage, error) {
	query := `
		SELECT m.id, m.event_id, m.sender_id, u.username, m.body, m.created_at
		FROM chat_messages m JOIN users u ON u.id = m.sender_id
		WHERE m.event_id = $1 AND ($2 = 0 OR m.id < $2)
		ORDER BY m.id DESC
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, eventID, beforeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.ChatMessage
	for rows.Next() {
		var m dom.ChatMessage
		if err := rows.Scan(&m.ID, &m.EventID, &m.SenderID, &m.Username, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *PGChatRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
