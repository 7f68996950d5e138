// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"
	"time"

	"corpus-rag-api/internal/config"
	redisinfra "corpus-rag-api/internal/infrastructure/persistence/redis"

	"github.com/gin-gonic/gin"
)

// Limiter 限流器接口
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按客户端 IP 与路由维度的限流中间件
// 限流器故障时放行，不让 Redis 抖动放大为业务不可用。
func RateLimit(cfg config.RateLimitConfig, limiter Limiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limit := cfg.RequestsPerSecond
	if limit <= 0 {
		limit = 100
	}

	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		key := redisinfra.BuildClientRateLimitKey(c.ClientIP(), endpoint)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, time.Second)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
