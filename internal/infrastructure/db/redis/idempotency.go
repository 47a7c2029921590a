package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore records scan saves by (user, idempotency key) so that a
// retried save replays the original scan instead of inserting a duplicate.
// Key format: scanidem:<user_id>:<key>, value is the scan id.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Seen returns the scan id previously recorded under (userID, key).
func (s *IdempotencyStore) Seen(ctx context.Context, userID int64, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, s.key(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency check: %w", err)
	}
	scanID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency value: %w", err)
	}
	return scanID, true, nil
}

// Mark records that this save has been processed (expires after idempotencyTTL).
func (s *IdempotencyStore) Mark(ctx context.Context, userID int64, key string, scanID int64) error {
	return s.client.Set(ctx, s.key(userID, key), strconv.FormatInt(scanID, 10), idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(userID int64, key string) string {
	return fmt.Sprintf("scanidem:%d:%s", userID, key)
}
