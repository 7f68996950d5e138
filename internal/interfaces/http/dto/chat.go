// Package dto 提供 HTTP 层数据传输对象
package dto

// ChatQueryRequest 问答请求
type ChatQueryRequest struct {
	Question     string `json:"question" binding:"required,max=2000"`
	SessionID    string `json:"session_id" binding:"omitempty,max=128"`
	IncludeDebug bool   `json:"include_debug"`
}
