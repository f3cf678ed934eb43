package service

import (
	"context"
	"testing"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInviteRepo mirrors the transactional Redeem of the Postgres
// implementation against the in-memory event repo.
type fakeInviteRepo struct {
	invites map[int64]*dom.Invite
	events  *fakeEventRepo
	nextID  int64
}

func newFakeInviteRepo(events *fakeEventRepo) *fakeInviteRepo {
	return &fakeInviteRepo{invites: map[int64]*dom.Invite{}, events: events}
}

func (r *fakeInviteRepo) Create(_ context.Context, inv dom.Invite) (dom.Invite, error) {
	r.nextID++
	inv.ID = r.nextID
	inv.CreatedAt = time.Now()
	cp := inv
	r.invites[inv.ID] = &cp
	return inv, nil
}

func (r *fakeInviteRepo) ListByEvent(_ context.Context, eventID int64) ([]dom.Invite, error) {
	var out []dom.Invite
	for _, inv := range r.invites {
		if inv.EventID == eventID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInviteRepo) GetByID(_ context.Context, id int64) (dom.Invite, error) {
	inv, ok := r.invites[id]
	if !ok {
		return dom.Invite{}, pgx.ErrNoRows
	}
	return *inv, nil
}

func (r *fakeInviteRepo) GetByToken(_ context.Context, token string) (dom.Invite, error) {
	for _, inv := range r.invites {
		if inv.Token == token {
			return *inv, nil
		}
	}
	return dom.Invite{}, pgx.ErrNoRows
}

func (r *fakeInviteRepo) Revoke(_ context.Context, id int64) (dom.Invite, error) {
	inv, ok := r.invites[id]
	if !ok {
		return dom.Invite{}, pgx.ErrNoRows
	}
	now := time.Now()
	inv.RevokedAt = &now
	return *inv, nil
}

func (r *fakeInviteRepo) Redeem(ctx context.Context, token string, userID int64) (dom.Invite, bool, error) {
	var inv *dom.Invite
	for _, i := range r.invites {
		if i.Token == token {
			inv = i
			break
		}
	}
	if inv == nil {
		return dom.Invite{}, false, pgx.ErrNoRows
	}
	if !inv.Usable(time.Now().UTC()) {
		return *inv, false, nil
	}
	if _, ok := r.events.parts[inv.EventID][userID]; ok {
		return dom.Invite{}, false, &pgconn.PgError{Code: "23505"}
	}
	if _, err := r.events.AddParticipant(ctx, inv.EventID, userID, dom.RoleMember); err != nil {
		return dom.Invite{}, false, err
	}
	inv.UseCount++
	return *inv, true, nil
}

func (r *fakeInviteRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, inv := range r.invites {
		if inv.ExpiresAt != nil && !now.Before(*inv.ExpiresAt) {
			delete(r.invites, id)
			n++
		}
	}
	return n, nil
}

func newInviteFixture(t *testing.T) (*InviteService, *fakeInviteRepo, *fakeEventRepo, *capturePub, dom.Event) {
	t.Helper()
	events := newFakeEventRepo()
	e := events.seed(organizerID)
	invites := newFakeInviteRepo(events)
	pub := &capturePub{}
	eventSvc := NewEventService(events, pub)
	return NewInviteService(invites, eventSvc, pub), invites, events, pub, e
}

func TestInviteCreateOrganizerOnly(t *testing.T) {
	svc, _, events, _, e := newInviteFixture(t)
	ctx := context.Background()
	_, err := events.AddParticipant(ctx, e.ID, memberID, dom.RoleMember)
	require.NoError(t, err)

	_, err = svc.Create(ctx, memberID, e.ID, 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	inv, err := svc.Create(ctx, organizerID, e.ID, time.Hour, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Token)
	assert.NotNil(t, inv.ExpiresAt)
	assert.Equal(t, 5, inv.MaxUses)
}

func TestInviteRedeem(t *testing.T) {
	svc, _, _, pub, e := newInviteFixture(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, organizerID, e.ID, 0, 1)
	require.NoError(t, err)

	p, err := svc.Redeem(ctx, memberID, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, dom.RoleMember, p.Role)
	assert.Equal(t, e.ID, p.EventID)

	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeParticipantJoined, msg.Type)

	// The single use is spent now.
	_, err = svc.Redeem(ctx, strangerID, inv.Token)
	assert.ErrorIs(t, err, ErrInviteExhausted)
}

func TestInviteRedeemUnknownToken(t *testing.T) {
	svc, _, _, _, _ := newInviteFixture(t)
	_, err := svc.Redeem(context.Background(), memberID, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInviteRedeemExpired(t *testing.T) {
	svc, invites, _, _, e := newInviteFixture(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Minute)
	inv, err := invites.Create(ctx, dom.Invite{EventID: e.ID, CreatedBy: organizerID, Token: "old", ExpiresAt: &past})
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, memberID, inv.Token)
	assert.ErrorIs(t, err, ErrInviteExpired)
}

func TestInviteRedeemRevoked(t *testing.T) {
	svc, _, _, _, e := newInviteFixture(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, organizerID, e.ID, 0, 0)
	require.NoError(t, err)
	_, err = svc.Revoke(ctx, organizerID, e.ID, inv.ID)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, memberID, inv.Token)
	assert.ErrorIs(t, err, ErrInviteRevoked)
}

func TestInviteRedeemAlreadyJoined(t *testing.T) {
	svc, _, _, _, e := newInviteFixture(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, organizerID, e.ID, 0, 0)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, organizerID, inv.Token)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestInviteRevokeIdempotent(t *testing.T) {
	svc, _, _, _, e := newInviteFixture(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, organizerID, e.ID, 0, 0)
	require.NoError(t, err)

	first, err := svc.Revoke(ctx, organizerID, e.ID, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, first.RevokedAt)

	second, err := svc.Revoke(ctx, organizerID, e.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, first.RevokedAt.Unix(), second.RevokedAt.Unix())
}

func TestInviteRevokeWrongEvent(t *testing.T) {
	svc, _, events, _, e := newInviteFixture(t)
	ctx := context.Background()
	other := events.seed(organizerID)

	inv, err := svc.Create(ctx, organizerID, e.ID, 0, 0)
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, organizerID, other.ID, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
