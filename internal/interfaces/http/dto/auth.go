// Package dto 提供 HTTP 层数据传输对象
package dto

// AdminLoginRequest 管理端登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=128"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // 秒
}
