package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches rider availability lookups in Redis. The admin
// assignment screen polls these per district, so a short TTL saves the
// hot query without holding stale riders for long.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// AvailableRidersTTL bounds how stale a cached availability list can be.
const AvailableRidersTTL = 30 * time.Second

const availableRidersPrefix = "cache:riders:available:"

// CachedRider is the cached projection of an available rider.
type CachedRider struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	District string `json:"district"`
}

// GetAvailableRiders retrieves the cached availability list for a
// district. Returns nil on a cache miss.
func (s *CacheStore) GetAvailableRiders(ctx context.Context, district string) ([]CachedRider, error) {
	data, err := s.client.Get(ctx, availableRidersPrefix+district).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var riders []CachedRider
	if err := json.Unmarshal(data, &riders); err != nil {
		return nil, err
	}
	return riders, nil
}

// SetAvailableRiders stores the availability list for a district.
func (s *CacheStore) SetAvailableRiders(ctx context.Context, district string, riders []CachedRider) error {
	data, err := json.Marshal(riders)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, availableRidersPrefix+district, data, AvailableRidersTTL).Err()
}

// InvalidateDistrict drops the cached availability list for a district.
// Called whenever a rider in that district changes work status.
func (s *CacheStore) InvalidateDistrict(ctx context.Context, district string) error {
	return s.client.Del(ctx, availableRidersPrefix+district).Err()
}
