// Package realtime implements the WebSocket layer: per-event rooms,
// Redis pub/sub fan-out between processes, and the versioned delta
// messages consumed by clients for optimistic cache patching.
package realtime

import (
	"strconv"
	"strings"
)

// Outbound message types.
const (
	TypePollCreated = "poll.created"
	TypePollUpdated = "poll.updated"
	TypePollClosed  = "poll.closed"
	TypePollDeleted = "poll.deleted"

	TypeListCreated = "tasklist.created"
	TypeListUpdated = "tasklist.updated"
	TypeListDeleted = "tasklist.deleted"
	TypeTaskCreated = "task.created"
	TypeTaskUpdated = "task.updated"
	TypeTaskMoved   = "task.moved"
	TypeTaskDeleted = "task.deleted"

	TypeChatMessage = "chat.message"
	TypeChatDeleted = "chat.deleted"

	TypeEventUpdated = "event.updated"
	TypeEventDeleted = "event.deleted"

	TypeParticipantJoined  = "participant.joined"
	TypeParticipantUpdated = "participant.updated"
	TypeParticipantLeft    = "participant.left"

	// Application-level keepalive, in addition to protocol pings.
	TypePing = "ping"
	TypePong = "pong"
)

// Inbound message types.
const (
	TypeChatSend = "chat.send"
)

// Message is the wire envelope pushed to event rooms. Version is set on
// poll messages only: clients holding version N apply a delta with
// version N+1 in place and refetch on any other gap.
type Message struct {
	Type    string `json:"type"`
	EventID int64  `json:"event_id"`
	Version int64  `json:"version,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Inbound is a client-to-server message read off the socket.
type Inbound struct {
	Type string `json:"type"`
	Body string `json:"body,omitempty"`
}

const channelPrefix = "realtime:event:"
const channelPattern = channelPrefix + "*"

// Channel returns the Redis pub/sub channel for an event room.
func Channel(eventID int64) string {
	return channelPrefix + strconv.FormatInt(eventID, 10)
}

func eventIDFromChannel(ch string) (int64, bool) {
	if !strings.HasPrefix(ch, channelPrefix) || len(ch) == len(channelPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(ch[len(channelPrefix):], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
