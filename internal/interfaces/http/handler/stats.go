// Package handler 提供 HTTP 请求处理器
package handler

import (
	"corpus-rag-api/internal/application/stats"
	"corpus-rag-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// StatsHandler 内容统计处理器
type StatsHandler struct {
	statsSvc *stats.Service
}

// NewStatsHandler 创建统计处理器
func NewStatsHandler(statsSvc *stats.Service) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Overview 内容统计
// @Summary 内容统计
// @Description 文档、文章、分块与举报的总量统计，结果短缓存
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.Response[stats.Overview]
// @Router /v1/stats [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.statsSvc.Overview(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, overview)
}
