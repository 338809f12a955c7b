package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimit allows limit requests per client IP in each fixed window. The
// counter lives in Redis so every server instance shares it. Redis errors
// let the request through.
func RateLimit(rdb *redis.Client, name string, limit int, window time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s:%d", name, c.ClientIP(), time.Now().UnixNano()/int64(window))

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("limiter", name).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
