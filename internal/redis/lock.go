package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. Rider assignment
// takes a per-rider lock so two admins cannot hand the same rider two
// parcels in the same instant.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRiderLock attempts to acquire a lock for the given rider.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:rider:%s", riderID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseRiderLock releases the lock for the given rider.
func (s *LockStore) ReleaseRiderLock(ctx context.Context, riderID string) error {
	key := fmt.Sprintf("lock:rider:%s", riderID)

	return s.client.Del(ctx, key).Err()
}
