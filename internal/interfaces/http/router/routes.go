// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers, adminAuth gin.HandlerFunc) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/token", h.Auth.Token)
	}

	// 问答
	chat := v1.Group("/chat")
	{
		chat.POST("/query", h.Chat.Query)
		chat.POST("/stream", h.Chat.Stream) // SSE
		chat.POST("/report", h.Report.Create)
	}

	// 语料管理（管理员）
	corpus := v1.Group("/corpus", adminAuth)
	{
		corpus.POST("/upload", h.Corpus.Upload)
		corpus.DELETE("/documents/:id", h.Corpus.DeleteDocument)
	}

	// 文档浏览
	docs := v1.Group("/docs")
	{
		docs.GET("", h.Document.List)
		docs.GET("/:id", h.Document.Get)
	}

	// 文章
	posts := v1.Group("/posts")
	{
		posts.GET("", h.Post.List)
		posts.GET("/featured", h.Post.Featured)
		posts.GET("/:id", h.Post.Get)
		posts.POST("", adminAuth, h.Post.Create)
	}

	// 举报管理（管理员）
	reports := v1.Group("/reports", adminAuth)
	{
		reports.GET("", h.Report.List)
		reports.POST("/:id/resolve", h.Report.Resolve)
	}

	// 内容统计
	v1.GET("/stats", h.Stats.Overview)
}
