package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPollsPrefix = "polls:event:"
	keyBoardPrefix = "board:event:"
)

// PlanCache caches poll lists and task boards in Redis. Poll entries
// are viewer-scoped because responses carry the viewer's own votes;
// boards are shared.
type PlanCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPlanCache returns a new PlanCache.
func NewPlanCache(rdb *redis.Client, ttl time.Duration) *PlanCache {
	return &PlanCache{rdb: rdb, ttl: ttl}
}

func pollsKey(eventID, viewerID int64) string {
	return keyPollsPrefix + strconv.FormatInt(eventID, 10) + ":user:" + strconv.FormatInt(viewerID, 10)
}

func boardKey(eventID int64) string {
	return keyBoardPrefix + strconv.FormatInt(eventID, 10)
}

// GetPolls returns the cached poll list or nil if miss.
func (c *PlanCache) GetPolls(ctx context.Context, eventID, viewerID int64) ([]dom.Poll, error) {
	b, err := c.rdb.Get(ctx, pollsKey(eventID, viewerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Poll
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetPolls stores the poll list in cache.
func (c *PlanCache) SetPolls(ctx context.Context, eventID, viewerID int64, list []dom.Poll) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, pollsKey(eventID, viewerID), b, c.ttl).Err()
}

// InvalidatePolls removes every viewer's cached poll list for the event
// (cache invalidation on write).
func (c *PlanCache) InvalidatePolls(ctx context.Context, eventID int64) error {
	pattern := keyPollsPrefix + strconv.FormatInt(eventID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// GetBoard returns the cached board or nil if miss.
func (c *PlanCache) GetBoard(ctx context.Context, eventID int64) (*dom.Board, error) {
	b, err := c.rdb.Get(ctx, boardKey(eventID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var board dom.Board
	if err := json.Unmarshal(b, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// SetBoard stores the board in cache.
func (c *PlanCache) SetBoard(ctx context.Context, eventID int64, board dom.Board) error {
	b, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, boardKey(eventID), b, c.ttl).Err()
}

// InvalidateBoard removes the cached board.
func (c *PlanCache) InvalidateBoard(ctx context.Context, eventID int64) error {
	return c.rdb.Del(ctx, boardKey(eventID)).Err()
}
