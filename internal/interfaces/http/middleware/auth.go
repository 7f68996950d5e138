// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"

	"corpus-rag-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminAuth 管理端认证中间件，要求 Bearer JWT 且角色为 admin
func AdminAuth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := jwtManager.ParseToken(parts[1])
		if err != nil {
			msg := "invalid token"
			if err == utils.ErrExpiredToken {
				msg = "token expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		if claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":     403,
				"message":  "admin role required",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Set("admin_user", claims.Subject)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":     401,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
