package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache is a short-TTL JSON cache for dashboard aggregations. The
// dashboard queries are cross-table counts; caching them keeps admin page
// refreshes off the primary database.
// Key format: stats:<name>
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get unmarshals the cached value for name into dest. The second return is
// false on a cache miss.
func (c *StatsCache) Get(ctx context.Context, name string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stats cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("stats cache decode: %w", err)
	}
	return true, nil
}

// Set stores v under name for the cache TTL.
func (c *StatsCache) Set(ctx context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(name), raw, c.ttl).Err()
}

func (c *StatsCache) key(name string) string {
	return "stats:" + name
}
