package repo

import (
	"context"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InviteRepo provides invite persistence. Redeem runs the whole
// token-to-membership exchange in one transaction.
type InviteRepo interface {
	Create(ctx context.Context, inv dom.Invite) (dom.Invite, error)
	ListByEvent(ctx context.Context, eventID int64) ([]dom.Invite, error)
	GetByID(ctx context.Context, id int64) (dom.Invite, error)
	GetByToken(ctx context.Context, token string) (dom.Invite, error)
	Revoke(ctx context.Context, id int64) (dom.Invite, error)
	// Redeem locks the invite row, re-checks usability, increments
	// use_count and inserts the participant. redeemed is false when the
	// invite is no longer usable; the returned invite then carries the
	// state the caller needs to name the reason.
	Redeem(ctx context.Context, token string, userID int64) (inv dom.Invite, redeemed bool, err error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PGInviteRepo implements InviteRepo with Postgres.
type PGInviteRepo struct {
	db *pgxpool.Pool
}

// NewPGInviteRepo returns a new PGInviteRepo.
func NewPGInviteRepo(db *pgxpool.Pool) *PGInviteRepo {
	return &PGInviteRepo{db: db}
}

const inviteColumns = `id, event_id, created_by, token, expires_at, max_uses, use_count, revoked_at, created_at`

func scanInvite(row pgx.Row) (dom.Invite, error) {
	var i dom.Invite
	err := row.Scan(&i.ID, &i.EventID, &i.CreatedBy, &i.Token, &i.ExpiresAt,
		&i.MaxUses, &i.UseCount, &i.RevokedAt, &i.CreatedAt)
	return i, err
}

func (r *PGInviteRepo) Create(ctx context.Context, inv dom.Invite) (dom.Invite, error) {
	query := `
		INSERT INTO invites (event_id, created_by, token, expires_at, max_uses)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + inviteColumns
	return scanInvite(r.db.QueryRow(ctx, query,
		inv.EventID, inv.CreatedBy, inv.Token, inv.ExpiresAt, inv.MaxUses))
}

func (r *PGInviteRepo) ListByEvent(ctx context.Context, eventID int64) ([]dom.Invite, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE event_id = $1 ORDER BY created_at DESC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Invite
	for rows.Next() {
		i, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func (r *PGInviteRepo) GetByID(ctx context.Context, id int64) (dom.Invite, error) {
	return scanInvite(r.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = $1`, id))
}

func (r *PGInviteRepo) GetByToken(ctx context.Context, token string) (dom.Invite, error) {
	return scanInvite(r.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token = $1`, token))
}

func (r *PGInviteRepo) Revoke(ctx context.Context, id int64) (dom.Invite, error) {
	return scanInvite(r.db.QueryRow(ctx,
		`UPDATE invites SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL RETURNING `+inviteColumns,
		id))
}

func (r *PGInviteRepo) Redeem(ctx context.Context, token string, userID int64) (dom.Invite, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Invite{}, false, err
	}
	defer tx.Rollback(ctx)

	inv, err := scanInvite(tx.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token = $1 FOR UPDATE`, token))
	if err != nil {
		return dom.Invite{}, false, err
	}
	if !inv.Usable(time.Now().UTC()) {
		return inv, false, tx.Commit(ctx)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO participants (event_id, user_id, role) VALUES ($1, $2, $3)`,
		inv.EventID, userID, dom.RoleMember)
	if err != nil {
		return dom.Invite{}, false, err
	}
	err = tx.QueryRow(ctx,
		`UPDATE invites SET use_count = use_count + 1 WHERE id = $1 RETURNING use_count`,
		inv.ID).Scan(&inv.UseCount)
	if err != nil {
		return dom.Invite{}, false, err
	}
	return inv, true, tx.Commit(ctx)
}

// DeleteExpired purges invites whose expiry passed before now.
func (r *PGInviteRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx,
		`DELETE FROM invites WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
