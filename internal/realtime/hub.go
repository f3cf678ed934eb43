package realtime

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Hub keeps the per-event rooms of locally connected clients and
// relays Redis pub/sub publications into them.
type Hub struct {
	rdb *redis.Client
	log zerolog.Logger

	mu    sync.RWMutex
	rooms map[int64]map[*Client]struct{}

	// OnChat handles inbound chat.send messages; wired to the chat
	// service at startup. Nil drops inbound chat.
	OnChat func(ctx context.Context, eventID, senderID int64, body string) error

	connections prometheus.Gauge
}

// NewHub returns a new Hub. connections may be nil.
func NewHub(rdb *redis.Client, log zerolog.Logger, connections prometheus.Gauge) *Hub {
	return &Hub{
		rdb:         rdb,
		log:         log.With().Str("component", "realtime.hub").Logger(),
		rooms:       make(map[int64]map[*Client]struct{}),
		connections: connections,
	}
}

// Run subscribes to all room channels and fans publications out to
// local clients. It blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	sub := h.rdb.PSubscribe(ctx, channelPattern)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			eventID, ok := eventIDFromChannel(msg.Channel)
			if !ok {
				h.log.Warn().Str("channel", msg.Channel).Msg("unroutable realtime channel")
				continue
			}
			h.broadcast(eventID, []byte(msg.Payload))
		}
	}
}

// broadcast delivers a payload to every local client in the room.
// Clients with a full send buffer are dropped, not waited for.
func (h *Hub) broadcast(eventID int64, payload []byte) {
	h.mu.RLock()
	room := h.rooms[eventID]
	var slow []*Client
	for c := range room {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn().Int64("event_id", eventID).Int64("user_id", c.userID).Msg("dropping slow realtime client")
		h.unregister(c)
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	room := h.rooms[c.eventID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[c.eventID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
	if h.connections != nil {
		h.connections.Inc()
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	room := h.rooms[c.eventID]
	if _, ok := room[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.eventID)
	}
	h.mu.Unlock()

	close(c.send)
	if h.connections != nil {
		h.connections.Dec()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	var all []*Client
	for _, room := range h.rooms {
		for c := range room {
			all = append(all, c)
		}
	}
	h.rooms = make(map[int64]map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range all {
		close(c.send)
		if h.connections != nil {
			h.connections.Dec()
		}
	}
}

// RoomSize returns the number of locally connected clients for an event.
func (h *Hub) RoomSize(eventID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[eventID])
}
