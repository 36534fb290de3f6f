package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/askloop/askloop-backend/pkg/logger"
	"github.com/askloop/askloop-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitMiddleware enforces a fixed-window limit shared across
// instances. Each key gets `limit` requests per `window`; the counter key
// expires with the window. When client is nil the in-memory limiter is used
// instead, so single-instance deployments need no Redis.
func RedisRateLimitMiddleware(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(float64(limit)/window.Seconds(), limit)
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%d", limiterKey(c), time.Now().Unix()/int64(window.Seconds()))

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// fail open: a Redis outage should not take the API down
			logger.Warnf("rate limiter redis error: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
