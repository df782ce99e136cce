package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RateLimit ограничивает число запросов с одного IP в секунду (fixed window в Redis)
func RateLimit(redisClient *redis.Client, qps int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if qps <= 0 {
			c.Next()
			return
		}

		key := "rate_limit:" + c.ClientIP()
		ctx := c.Request.Context()

		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		_, err := redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			// Redis недоступен - не блокируем запросы
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		count := incr.Val()

		// Ключ без TTL навсегда заблокировал бы IP, ставим окно заново
		if ttl.Val() < 0 {
			if err := redisClient.Expire(ctx, key, time.Second).Err(); err != nil {
				log.Warn("rate limiter expire failed", zap.String("key", key), zap.Error(err))
			}
		}

		if count > int64(qps) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
