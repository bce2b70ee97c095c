package middleware

import (
	"context"
	"errors"

	"ps-portal/internal/utils"
	"ps-portal/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SubmitLimiter 按客户端IP限制同时进行中的提交数
// limiter 为 nil 时不做限制; Redis 不可用时放行
func SubmitLimiter(limiter *redis_limiter.RedisLimiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := c.ClientIP()
		err := limiter.Acquire(c.Request.Context(), key)
		if errors.Is(err, redis_limiter.ErrLimitReached) {
			utils.TooManyRequests(c, "Too many submissions in progress, please retry shortly")
			c.Abort()
			return
		}
		if err != nil {
			logger.WithError(err).Warn("[SubmitLimiter] Redis不可用, 跳过并发限制")
			c.Next()
			return
		}
		defer limiter.Release(context.Background(), key)

		c.Next()
	}
}
