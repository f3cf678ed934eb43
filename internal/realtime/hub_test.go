package realtime

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, eventID, userID int64, buf int) *Client {
	return &Client{hub: h, send: make(chan []byte, buf), userID: userID, eventID: eventID}
}

func TestHubRegisterUnregister(t *testing.T) {
	h := NewHub(nil, zerolog.Nop(), nil)
	a := newTestClient(h, 7, 1, 1)
	b := newTestClient(h, 7, 2, 1)

	h.register(a)
	h.register(b)
	assert.Equal(t, 2, h.RoomSize(7))

	h.unregister(a)
	assert.Equal(t, 1, h.RoomSize(7))
	_, open := <-a.send
	assert.False(t, open)

	// Unregistering twice is a no-op, not a double close.
	h.unregister(a)
	assert.Equal(t, 1, h.RoomSize(7))

	h.unregister(b)
	assert.Equal(t, 0, h.RoomSize(7))
	h.mu.RLock()
	_, ok := h.rooms[7]
	h.mu.RUnlock()
	assert.False(t, ok, "empty room should be removed")
}

func TestHubBroadcastIsScopedToRoom(t *testing.T) {
	h := NewHub(nil, zerolog.Nop(), nil)
	in := newTestClient(h, 7, 1, 1)
	out := newTestClient(h, 8, 2, 1)
	h.register(in)
	h.register(out)

	h.broadcast(7, []byte(`{"type":"chat.message"}`))

	select {
	case got := <-in.send:
		assert.JSONEq(t, `{"type":"chat.message"}`, string(got))
	default:
		t.Fatal("room member did not receive the broadcast")
	}
	select {
	case <-out.send:
		t.Fatal("broadcast leaked into another room")
	default:
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	h := NewHub(nil, zerolog.Nop(), nil)
	fast := newTestClient(h, 7, 1, 2)
	slow := newTestClient(h, 7, 2, 1)
	h.register(fast)
	h.register(slow)

	// Fill the slow client's buffer so the next delivery cannot land.
	slow.send <- []byte("backlog")

	h.broadcast(7, []byte("update"))

	assert.Equal(t, 1, h.RoomSize(7))

	require.Equal(t, []byte("update"), <-fast.send)

	// The slow client keeps its backlog, then sees the channel closed.
	require.Equal(t, []byte("backlog"), <-slow.send)
	_, open := <-slow.send
	assert.False(t, open)
}
