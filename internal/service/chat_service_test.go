package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	msgs      map[int64]dom.ChatMessage
	nextID    int64
	lastLimit int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{msgs: map[int64]dom.ChatMessage{}}
}

func (r *fakeChatRepo) Create(_ context.Context, eventID, senderID int64, body string) (dom.ChatMessage, error) {
	r.nextID++
	m := dom.ChatMessage{ID: r.nextID, EventID: eventID, SenderID: senderID, Body: body, CreatedAt: time.Now()}
	r.msgs[m.ID] = m
	return m, nil
}

func (r *fakeChatRepo) GetByID(_ context.Context, id int64) (dom.ChatMessage, error) {
	m, ok := r.msgs[id]
	if !ok {
		return dom.ChatMessage{}, pgx.ErrNoRows
	}
	return m, nil
}

func (r *fakeChatRepo) ListBefore(_ context.Context, eventID, beforeID int64, limit int) ([]dom.ChatMessage, error) {
	r.lastLimit = limit
	var out []dom.ChatMessage
	for id := r.nextID; id > 0 && len(out) < limit; id-- {
		m, ok := r.msgs[id]
		if !ok || m.EventID != eventID {
			continue
		}
		if beforeID != 0 && id >= beforeID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeChatRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.msgs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.msgs, id)
	return nil
}

func newChatFixture(t *testing.T) (*ChatService, *fakeChatRepo, *capturePub, dom.Event) {
	t.Helper()
	events := newFakeEventRepo()
	e := events.seed(organizerID)
	_, err := events.AddParticipant(context.Background(), e.ID, memberID, dom.RoleMember)
	require.NoError(t, err)
	chat := newFakeChatRepo()
	pub := &capturePub{}
	eventSvc := NewEventService(events, pub)
	return NewChatService(chat, eventSvc, pub), chat, pub, e
}

func TestChatPost(t *testing.T) {
	svc, _, pub, e := newChatFixture(t)
	ctx := context.Background()

	m, err := svc.Post(ctx, e.ID, memberID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Body)

	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeChatMessage, msg.Type)
	assert.Equal(t, e.ID, msg.EventID)
}

func TestChatPostValidation(t *testing.T) {
	svc, _, _, e := newChatFixture(t)
	ctx := context.Background()

	_, err := svc.Post(ctx, e.ID, memberID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.Post(ctx, e.ID, strangerID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)

	long, err := svc.Post(ctx, e.ID, memberID, strings.Repeat("x", 3000))
	require.NoError(t, err)
	assert.Len(t, long.Body, 2000)
}

func TestChatPostTruncatesOnRuneBoundary(t *testing.T) {
	svc, _, _, e := newChatFixture(t)
	ctx := context.Background()

	// A two-byte rune straddling the length limit must not be split.
	m, err := svc.Post(ctx, e.ID, memberID, strings.Repeat("x", 1999)+"é")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(m.Body))
	assert.Len(t, m.Body, 1999)

	// A rune ending exactly at the limit survives.
	m, err = svc.Post(ctx, e.ID, memberID, strings.Repeat("x", 1998)+"éa")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(m.Body))
	assert.Len(t, m.Body, 2000)
	assert.True(t, strings.HasSuffix(m.Body, "é"))
}

func TestChatHistoryLimitClamp(t *testing.T) {
	svc, chat, _, e := newChatFixture(t)
	ctx := context.Background()

	_, err := svc.History(ctx, memberID, e.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, chat.lastLimit)

	_, err = svc.History(ctx, memberID, e.ID, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, chat.lastLimit)

	_, err = svc.History(ctx, strangerID, e.ID, 0, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestChatHistoryCursor(t *testing.T) {
	svc, _, _, e := newChatFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Post(ctx, e.ID, memberID, "msg")
		require.NoError(t, err)
	}
	page, err := svc.History(ctx, memberID, e.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Greater(t, page[0].ID, page[1].ID)

	next, err := svc.History(ctx, memberID, e.ID, page[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Less(t, next[0].ID, page[1].ID)
}

func TestChatDeleteOwnOnly(t *testing.T) {
	svc, _, pub, e := newChatFixture(t)
	ctx := context.Background()

	m, err := svc.Post(ctx, e.ID, memberID, "hi")
	require.NoError(t, err)

	err = svc.Delete(ctx, organizerID, m.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, memberID, m.ID))
	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeChatDeleted, msg.Type)

	err = svc.Delete(ctx, memberID, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
