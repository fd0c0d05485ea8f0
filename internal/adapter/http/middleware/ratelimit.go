package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisStore "offerwall-rewards/internal/adapter/storage/redis"
	"offerwall-rewards/pkg/apperror"
	"offerwall-rewards/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// Limiter counts requests in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redisStore.RateLimitResult, error)
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Authenticated callers are counted per user, everyone else per client IP.
// A non-positive limit disables the group.
func RateLimiter(store Limiter, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rule.Limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", group, extractIdentifier(c))
		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := max(result.ResetAt-time.Now().Unix(), 1)
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractIdentifier(c *gin.Context) string {
	if id, ok := UserID(c); ok {
		return "user:" + id.String()
	}
	return "ip:" + c.ClientIP()
}
