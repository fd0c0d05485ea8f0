package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds the caller's token,
// so a worker whose TTL lapsed cannot drop a lock taken over by another.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PostbackLock implements ports.PostbackLock using Redis SET NX.
type PostbackLock struct {
	client *goredis.Client
	prefix string
}

func NewPostbackLock(client *goredis.Client) *PostbackLock {
	return &PostbackLock{
		client: client,
		prefix: "postback:lock:",
	}
}

// Acquire takes the lock for key under a fresh token. The TTL releases locks
// left behind by crashed workers.
func (l *PostbackLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	result, err := l.client.SetArgs(ctx, l.prefix+key, token, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis postback lock: %w", err)
	}
	if result != "OK" {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock for key if token still owns it.
func (l *PostbackLock) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err(); err != nil {
		return fmt.Errorf("redis postback unlock: %w", err)
	}
	return nil
}
