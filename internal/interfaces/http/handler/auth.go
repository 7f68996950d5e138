// Package handler 提供 HTTP 请求处理器
package handler

import (
	"crypto/subtle"

	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/interfaces/http/dto"
	"corpus-rag-api/pkg/logger"
	"corpus-rag-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler 管理端认证处理器
type AuthHandler struct {
	jwtManager *utils.JWTManager
	security   *config.SecurityConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(security *config.SecurityConfig) *AuthHandler {
	return &AuthHandler{
		jwtManager: utils.NewJWTManager(security.JWT.Secret, security.JWT.Issuer),
		security:   security,
	}
}

// Token 管理员登录换取 Token
// @Summary 管理员登录
// @Description 校验管理员账号密码并签发 JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.AdminLoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// 常数时间比较，避免计时侧信道
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.security.Admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.security.Admin.Password)) == 1
	if !userOK || !passOK {
		logger.Warn(c.Request.Context(), "admin login rejected", "username", req.Username)
		dto.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwtManager.GenerateToken(req.Username, "admin", h.security.JWT.Expiration)
	if err != nil {
		fail(c, err)
		return
	}

	dto.Success(c, &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.security.JWT.Expiration.Seconds()),
	})
}
