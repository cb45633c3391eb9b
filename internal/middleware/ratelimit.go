package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NehanAhmed/Forge/internal/modules/serializer"
)

// RateLimit enforces a fixed-window counter per caller. Authenticated
// requests are keyed by user id, anonymous ones by client IP. Redis outages
// fail open: generation still degrades gracefully without the limiter.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:create:"
		if uid := UserID(c); uid != nil {
			key += "user:" + *uid
		} else {
			key += "ip:" + c.ClientIP()
		}

		ctx := c.Request.Context()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}
		// ExpireNX on every hit: a counter that lost its TTL (e.g. the
		// expiry call after the first INCR failed) gets one attached on the
		// next request instead of throttling the caller forever.
		if err := rdb.ExpireNX(ctx, key, window).Err(); err != nil {
			log.Warn("rate limit expiry not set", zap.String("key", key), zap.Error(err))
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				serializer.Err(http.StatusTooManyRequests, "too many plan generations, try again later", nil))
			return
		}
		c.Next()
	}
}
