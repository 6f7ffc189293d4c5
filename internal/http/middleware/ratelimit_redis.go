package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// ErrRedisDisabled is returned by RedisPing when no limiter backend is set.
var ErrRedisDisabled = errors.New("redis rate limiter disabled")

// InitRedisRateLimiter connects the shared limiter backend. With an empty
// addr or a failed ping the limiter stays disabled and the middleware
// lets every request through.
func InitRedisRateLimiter(addr, password string, db int) bool {
	if addr == "" {
		logger.Info("REDIS_ADDR not set, api rate limit disabled")
		return false
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, api rate limit disabled", "addr", addr, "error", err)
		_ = client.Close()
		redisClient = nil
		return false
	}
	redisClient = client
	logger.Info("redis rate limiter connected", "addr", addr)
	return true
}

// RedisPing reports the limiter backend status for readiness checks.
func RedisPing(ctx context.Context) error {
	if redisClient == nil {
		return ErrRedisDisabled
	}
	return redisClient.Ping(ctx).Err()
}

// RedisRateLimit is a fixed-window limiter on Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<ip>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// fail-open
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(maxRequests)-val, 10))
		RLRequests.WithLabelValues(c.FullPath()).Inc()

		c.Next()
	}
}
