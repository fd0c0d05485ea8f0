package redis

import (
	"context"
	"fmt"
	"time"

	"offerwall-rewards/config"
	"offerwall-rewards/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const pingTimeout = 2 * time.Second

func clientOptions(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:       cfg.Addr(),
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: logger.ServiceName,
	}
}

// NewClient opens the Redis client shared by the lock, result cache and
// rate limiter. It fails fast when the server is unreachable.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis %s: %w", cfg.Addr(), err)
	}

	log.Info().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("redis client ready")
	return client, nil
}

type pinger interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// HealthCheck probes Redis for GET /health.
type HealthCheck struct {
	client pinger
}

func NewHealthCheck(client pinger) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Name() string { return "redis" }

func (h *HealthCheck) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.client.Ping(ctx).Err()
}
