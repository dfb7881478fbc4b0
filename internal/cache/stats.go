package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"skillswap/internal/model"
)

const (
	// StatsCacheKey is the Redis key holding the cached platform stats
	StatsCacheKey = "stats:platform"

	// StatsCacheTTL bounds how stale the admin dashboard numbers can get
	StatsCacheTTL = 60 * time.Second
)

// StatsCache defines the interface for caching platform statistics.
// Using an interface enables testing with mocks and potential future backends.
type StatsCache interface {
	// Get retrieves cached stats.
	// Returns (stats, found, error). found=false on a cache miss,
	// in which case the service should fall back to the database.
	Get(ctx context.Context) (*model.Stats, bool, error)

	// Set stores stats with the cache TTL.
	Set(ctx context.Context, stats *model.Stats) error

	// Invalidate drops the cached stats so the next read hits the database.
	Invalidate(ctx context.Context) error
}

// RedisStatsCache implements StatsCache using a single Redis string key.
type RedisStatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new StatsCache backed by Redis.
func NewStatsCache(client *redis.Client) StatsCache {
	return &RedisStatsCache{client: client}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*model.Stats, bool, error) {
	data, err := c.client.Get(ctx, StatsCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats model.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		// Corrupt entry: treat as a miss so the service refreshes it.
		return nil, false, nil
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, stats *model.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, StatsCacheKey, data, StatsCacheTTL).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, StatsCacheKey).Err()
}
