package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Publisher pushes realtime messages to event rooms. Services call it
// after every committed mutation; delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, m Message)
}

// RedisPublisher publishes through Redis pub/sub so every process with
// a hub sees every publication.
type RedisPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisPublisher returns a new RedisPublisher.
func NewRedisPublisher(rdb *redis.Client, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, log: log.With().Str("component", "realtime.publisher").Logger()}
}

func (p *RedisPublisher) Publish(ctx context.Context, m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		p.log.Error().Err(err).Str("type", m.Type).Msg("marshal realtime message")
		return
	}
	if err := p.rdb.Publish(ctx, Channel(m.EventID), b).Err(); err != nil {
		p.log.Error().Err(err).Str("type", m.Type).Int64("event_id", m.EventID).Msg("publish realtime message")
	}
}
