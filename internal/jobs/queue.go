// Package jobs contains the background workers that run independently
// of HTTP request handling: export rendering and periodic cleanup.
package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const exportQueueKey = "exports:queue"

// Queue is a Redis list used as the export job queue.
type Queue struct {
	rdb *redis.Client
}

// NewQueue returns a new Queue.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue pushes a job id onto the queue.
func (q *Queue) Enqueue(ctx context.Context, jobID string) error {
	return q.rdb.LPush(ctx, exportQueueKey, jobID).Err()
}

// Dequeue pops the next job id, blocking up to timeout. Empty string
// means the queue stayed empty.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := q.rdb.BRPop(ctx, timeout, exportQueueKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	// BRPOP returns [key, value].
	return res[1], nil
}
