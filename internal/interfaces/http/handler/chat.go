// Package handler 提供 HTTP 请求处理器
package handler

import (
	"io"

	"corpus-rag-api/internal/application/rag"
	"corpus-rag-api/internal/interfaces/http/dto"
	"corpus-rag-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatHandler 问答处理器
type ChatHandler struct {
	ragSvc *rag.Service
}

// NewChatHandler 创建问答处理器
func NewChatHandler(ragSvc *rag.Service) *ChatHandler {
	return &ChatHandler{ragSvc: ragSvc}
}

// Query 批式问答
// @Summary 批式问答
// @Description 基于语料库检索并生成回答，检索无结果时返回固定兜底话术
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body dto.ChatQueryRequest true "问答请求"
// @Success 200 {object} dto.Response[rag.Answer]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat/query [post]
func (h *ChatHandler) Query(c *gin.Context) {
	var req dto.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.SessionID != "" {
		ctx = logger.WithContext(ctx, logger.SessionIDKey, req.SessionID)
	}

	answer, err := h.ragSvc.Query(ctx, rag.QueryInput{
		Question:     req.Question,
		SessionID:    req.SessionID,
		IncludeDebug: req.IncludeDebug,
	})
	if err != nil {
		fail(c, err)
		return
	}

	dto.Success(c, answer)
}

// Stream 流式问答
// @Summary 流式问答
// @Description 通过 SSE 流式返回检索与生成事件
// @Tags Chat
// @Accept json
// @Produce text/event-stream
// @Param body body dto.ChatQueryRequest true "问答请求"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat/stream [post]
func (h *ChatHandler) Stream(c *gin.Context) {
	var req dto.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.SessionID != "" {
		ctx = logger.WithContext(ctx, logger.SessionIDKey, req.SessionID)
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	events := h.ragSvc.Stream(ctx, rag.QueryInput{
		Question:     req.Question,
		SessionID:    req.SessionID,
		IncludeDebug: req.IncludeDebug,
	})

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			// done 与 error 都是终止事件
			return ev.Name != rag.EventDone && ev.Name != rag.EventError

		case <-ctx.Done():
			return false
		}
	})
}
