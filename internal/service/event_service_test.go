package service

import (
	"context"
	"testing"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventFixture(t *testing.T) (*EventService, *fakeEventRepo, *capturePub) {
	t.Helper()
	events := newFakeEventRepo()
	pub := &capturePub{}
	return NewEventService(events, pub), events, pub
}

func TestEventCreateValidatesTimes(t *testing.T) {
	svc, _, _ := newEventFixture(t)
	ctx := context.Background()
	start := time.Now().Add(time.Hour)
	endBefore := start.Add(-time.Minute)

	_, err := svc.Create(ctx, organizerID, "BBQ", "", "", start, &endBefore)
	assert.ErrorIs(t, err, ErrInvalidTimes)

	_, err = svc.Create(ctx, organizerID, "   ", "", "", start, nil)
	assert.ErrorIs(t, err, ErrTitleRequired)

	e, err := svc.Create(ctx, organizerID, "BBQ", "", "", start, nil)
	require.NoError(t, err)
	assert.Equal(t, organizerID, e.OwnerID)
}

func TestEventCreatorBecomesOrganizer(t *testing.T) {
	svc, events, _ := newEventFixture(t)
	e := events.seed(organizerID)

	p, err := events.GetParticipant(context.Background(), e.ID, organizerID)
	require.NoError(t, err)
	assert.Equal(t, dom.RoleOrganizer, p.Role)

	// And membership gates access for everyone else.
	_, err = svc.Get(context.Background(), strangerID, e.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEventUpdateOrganizerOnly(t *testing.T) {
	svc, events, pub := newEventFixture(t)
	e := events.seed(organizerID)
	_, err := events.AddParticipant(context.Background(), e.ID, memberID, dom.RoleMember)
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.Update(context.Background(), memberID, e.ID, &title, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Update(context.Background(), organizerID, e.ID, &title, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeEventUpdated, msg.Type)
}

func TestChangeRoleLastOrganizer(t *testing.T) {
	svc, events, _ := newEventFixture(t)
	e := events.seed(organizerID)
	ctx := context.Background()
	_, err := events.AddParticipant(ctx, e.ID, memberID, dom.RoleMember)
	require.NoError(t, err)

	// The only organizer cannot demote themselves.
	_, err = svc.ChangeRole(ctx, organizerID, e.ID, organizerID, dom.RoleMember)
	assert.ErrorIs(t, err, ErrLastOrganizer)

	// Promote the member, then the demotion goes through.
	_, err = svc.ChangeRole(ctx, organizerID, e.ID, memberID, dom.RoleOrganizer)
	require.NoError(t, err)
	p, err := svc.ChangeRole(ctx, organizerID, e.ID, organizerID, dom.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, dom.RoleMember, p.Role)
}

func TestChangeRoleValidation(t *testing.T) {
	svc, events, _ := newEventFixture(t)
	e := events.seed(organizerID)
	ctx := context.Background()

	_, err := svc.ChangeRole(ctx, organizerID, e.ID, organizerID, "admin")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.ChangeRole(ctx, organizerID, e.ID, strangerID, dom.RoleMember)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveLastOrganizer(t *testing.T) {
	svc, events, pub := newEventFixture(t)
	e := events.seed(organizerID)
	ctx := context.Background()
	_, err := events.AddParticipant(ctx, e.ID, memberID, dom.RoleMember)
	require.NoError(t, err)

	err = svc.Leave(ctx, organizerID, e.ID)
	assert.ErrorIs(t, err, ErrLastOrganizer)

	require.NoError(t, svc.Leave(ctx, memberID, e.ID))
	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeParticipantLeft, msg.Type)

	ok2, err := svc.IsParticipant(ctx, e.ID, memberID)
	require.NoError(t, err)
	assert.False(t, ok2)
}

func TestRemoveRequiresOrganizer(t *testing.T) {
	svc, events, _ := newEventFixture(t)
	e := events.seed(organizerID)
	ctx := context.Background()
	_, err := events.AddParticipant(ctx, e.ID, memberID, dom.RoleMember)
	require.NoError(t, err)

	err = svc.Remove(ctx, memberID, e.ID, organizerID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Remove(ctx, organizerID, e.ID, memberID))
}

func TestEventDeletePublishes(t *testing.T) {
	svc, events, pub := newEventFixture(t)
	e := events.seed(organizerID)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, organizerID, e.ID))
	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeEventDeleted, msg.Type)
	assert.Equal(t, e.ID, msg.EventID)
}
