package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ResultCache implements ports.PostbackResultCache using Redis.
type ResultCache struct {
	client *goredis.Client
	prefix string
}

// NewResultCache creates a new Redis-backed postback result cache.
func NewResultCache(client *goredis.Client) *ResultCache {
	return &ResultCache{
		client: client,
		prefix: "postback:result:",
	}
}

// Get returns the cached result for a postback key, or nil, nil on a miss.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis result get: %w", err)
	}
	return val, nil
}

// Set stores a processed postback result with TTL.
func (c *ResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis result set: %w", err)
	}
	return nil
}
