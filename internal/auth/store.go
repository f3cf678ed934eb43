package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "refresh:"

// RefreshStore manages opaque refresh tokens in Redis. Tokens are
// rotated on every refresh: the old id is deleted atomically when the
// new one is issued.
type RefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRefreshStore returns a new refresh token store.
func NewRefreshStore(rdb *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{rdb: rdb, ttl: ttl}
}

// Create stores a new refresh token for the user and returns it.
func (s *RefreshStore) Create(ctx context.Context, userID int64) (string, error) {
	id, err := newTokenID()
	if err != nil {
		return "", err
	}
	key := refreshKeyPrefix + id
	if err := s.rdb.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Consume deletes the token and returns its user id. A second Consume
// of the same token fails, which is what makes rotation safe.
func (s *RefreshStore) Consume(ctx context.Context, token string) (int64, bool, error) {
	val, err := s.rdb.GetDel(ctx, refreshKeyPrefix+token).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false, nil
	}
	return userID, true, nil
}

// Delete removes a refresh token (logout).
func (s *RefreshStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, refreshKeyPrefix+token).Err()
}

func newTokenID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
