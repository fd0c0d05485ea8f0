package redis

import (
	"context"
	"fmt"
	"testing"

	"offerwall-rewards/config"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: s.Host(), Port: mustPort(t, s)}

	client, err := NewClient(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}

func TestNewClient_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: s.Host(), Port: mustPort(t, s)}
	s.Close()

	_, err := NewClient(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "pinging redis")
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.RedisConfig{Host: "cache", Port: 6380, Password: "pw", DB: 3})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, "offerwall-rewards", opts.ClientName)
}

func TestHealthCheck(t *testing.T) {
	s, client := newTestClient(t)
	hc := NewHealthCheck(client)

	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))

	s.Close()
	assert.Error(t, hc.Ping(context.Background()))
}

func mustPort(t *testing.T, s *miniredis.Miniredis) int {
	t.Helper()
	var port int
	_, err := fmt.Sscanf(s.Port(), "%d", &port)
	require.NoError(t, err)
	return port
}
