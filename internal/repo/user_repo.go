package repo

import (
	"context"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (dom.User, error)
	UpdateProfile(ctx context.Context, id int64, displayName, bio string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, display_name, bio, created_at`

func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Bio, &u.CreatedAt)
	return u, err
}

func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Bio, &u.CreatedAt)
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, display_name)
		VALUES ($1, $2, $3, $1)
		RETURNING ` + userColumns
	var u dom.User
	err := r.db.QueryRow(ctx, query, username, email, passwordHash).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Bio, &u.CreatedAt,
	)
	return u, err
}

func (r *PGUserRepo) UpdateProfile(ctx context.Context, id int64, displayName, bio string) (dom.User, error) {
	query := `
		UPDATE users SET display_name = $2, bio = $3
		WHERE id = $1
		RETURNING ` + userColumns
	var u dom.User
	err := r.db.QueryRow(ctx, query, id, displayName, bio).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Bio, &u.CreatedAt,
	)
	return u, err
}
