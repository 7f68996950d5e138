// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"corpus-rag-api/pkg/errors"
	"corpus-rag-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery Panic 恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", stack,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    errors.CodeInternalError,
					"message": "internal server error",
				})
			}
		}()

		c.Next()
	}
}
