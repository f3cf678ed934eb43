package service

import (
	"context"
	"testing"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[int64]dom.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]dom.User{}}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, username, email, passwordHash string) (dom.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, displayName, bio string) (dom.User, error) {
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.DisplayName = displayName
	u.Bio = bio
	r.users[id] = u
	return u, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "Alice@Example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)

	got, err := svc.ValidateCredentials(ctx, "alice", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.ValidateCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(ctx, "nobody", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "other@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Register(ctx, "bob", "alice@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	name := "Alice"
	got, err := svc.UpdateProfile(ctx, u.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)

	bio := "  hi there  "
	got, err = svc.UpdateProfile(ctx, u.ID, nil, &bio)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Equal(t, "hi there", got.Bio)

	_, err = svc.UpdateProfile(ctx, 404, &name, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
