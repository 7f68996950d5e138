// Package handler 提供 HTTP 请求处理器
package handler

import (
	"corpus-rag-api/internal/domain/repository"
	"corpus-rag-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// DocumentHandler 文档浏览处理器
type DocumentHandler struct {
	docRepo repository.DocumentRepository
}

// NewDocumentHandler 创建文档浏览处理器
func NewDocumentHandler(docRepo repository.DocumentRepository) *DocumentHandler {
	return &DocumentHandler{docRepo: docRepo}
}

// List 文档列表
// @Summary 文档列表
// @Description 按创建时间倒序列出语料文档及章节数
// @Tags Docs
// @Produce json
// @Success 200 {object} dto.Response[[]dto.DocumentResponse]
// @Router /v1/docs [get]
func (h *DocumentHandler) List(c *gin.Context) {
	summaries, err := h.docRepo.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]dto.DocumentResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.ToDocumentResponse(s))
	}
	dto.Success(c, out)
}

// Get 文档详情
// @Summary 文档详情
// @Description 获取文档及其章节列表，章节按顺序排列
// @Tags Docs
// @Produce json
// @Param id path int true "文档 ID"
// @Success 200 {object} dto.Response[dto.DocumentDetailResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/docs/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.docRepo.GetWithChapters(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if doc == nil {
		dto.NotFound(c, "document not found")
		return
	}

	dto.Success(c, dto.ToDocumentDetailResponse(doc))
}
