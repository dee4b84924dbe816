package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "pr:stats:summary"

// ErrCacheMiss: no summary cached (or it expired).
var ErrCacheMiss = errors.New("stats summary not cached")

// Cache holds the latest summary in Redis so the dashboard does not
// re-run the aggregate queries on every page load.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context) (*Summary, error) {
	data, err := c.client.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats cache: %w", err)
	}

	var s Summary
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	return &s, nil
}

func (c *Cache) Set(ctx context.Context, s *Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return c.client.Set(ctx, cacheKey, data, c.ttl).Err()
}
