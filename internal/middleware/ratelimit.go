package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimit applies a fixed-window per-client limit backed by redis, so the
// count holds across gateway replicas. With no redis client the limiter is a
// no-op.
func RateLimit(client *redis.Client, log zerolog.Logger, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("bdp:ratelimit:%s:%s:%d", name, c.ClientIP(), bucket)

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// A broken limiter must not take the endpoint down with it.
			log.Warn().Err(err).Str("limiter", name).Msg("rate limit check failed")
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{"message": "rate limit exceeded"}})
			return
		}

		c.Next()
	}
}
