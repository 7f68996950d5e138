// Package middleware 提供 HTTP 中间件
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"corpus-rag-api/internal/config"
)

// CORS 跨域中间件，配置来自 security.cors
// SSE 接口依赖浏览器直连，Origin 放行策略与普通接口一致。
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
