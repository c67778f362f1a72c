package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ridemarket/internal/pkg/response"
)

// RateLimit enforces a fixed-window per-client limit backed by Redis.
// Authenticated requests are keyed by user id, anonymous ones by client IP.
// A nil client disables limiting.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if userID := c.GetInt64("user_id"); userID != 0 {
			subject = fmt.Sprintf("u%d", userID)
		}
		key := fmt.Sprintf("rate_limit:%s:%d", subject, time.Now().Unix()/int64(window.Seconds()))

		pipe := rdb.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// Redis being down should not take the API with it
			c.Next()
			return
		}

		if incr.Val() > int64(maxRequests) {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
