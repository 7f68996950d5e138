// Package handler 提供 HTTP 请求处理器
package handler

import (
	"io"
	"net/http"
	"strings"

	"corpus-rag-api/internal/application/ingest"
	"corpus-rag-api/internal/interfaces/http/dto"
	"corpus-rag-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CorpusHandler 语料管理处理器，全部接口需管理员身份
type CorpusHandler struct {
	ingestSvc *ingest.Service
	maxSize   int64
}

// NewCorpusHandler 创建语料管理处理器
func NewCorpusHandler(ingestSvc *ingest.Service, maxSizeBytes int64) *CorpusHandler {
	return &CorpusHandler{
		ingestSvc: ingestSvc,
		maxSize:   maxSizeBytes,
	}
}

// Upload 上传文档入库
// @Summary 上传文档入库
// @Description 接收 PDF 或 DOCX 文件，抽取正文后分章分块并写入向量索引
// @Tags Corpus
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文档文件"
// @Param title formData string true "文档标题"
// @Success 201 {object} dto.Response[ingest.UploadResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /v1/corpus/upload [post]
func (h *CorpusHandler) Upload(c *gin.Context) {
	var form dto.UploadDocumentForm
	if err := c.ShouldBind(&form); err != nil {
		dto.BadRequest(c, "invalid form fields: "+err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		dto.BadRequest(c, "file is required")
		return
	}

	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		dto.Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	name := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(name, ".pdf") && !strings.HasSuffix(name, ".docx") {
		dto.BadRequest(c, "unsupported file type, only pdf and docx are accepted")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		dto.BadRequest(c, "failed to open uploaded file")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, h.maxSize+1))
	if err != nil {
		dto.BadRequest(c, "failed to read uploaded file")
		return
	}
	if h.maxSize > 0 && int64(len(raw)) > h.maxSize {
		dto.Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	result, err := h.ingestSvc.Upload(c.Request.Context(), ingest.UploadInput{
		FileName:    fileHeader.Filename,
		Raw:         raw,
		Title:       form.Title,
		Description: form.Description,
		Source:      form.Source,
	})
	if err != nil {
		fail(c, err)
		return
	}

	dto.Created(c, result)
}

// DeleteDocument 删除文档及其派生数据
// @Summary 删除文档
// @Description 删除文档的向量点位、引文、分块、章节与文档记录
// @Tags Corpus
// @Produce json
// @Param id path int true "文档 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/corpus/documents/{id} [delete]
func (h *CorpusHandler) DeleteDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := logger.WithContext(c.Request.Context(), logger.DocumentIDKey, id)
	if err := h.ingestSvc.DeleteDocument(ctx, id); err != nil {
		fail(c, err)
		return
	}

	dto.NoContent(c)
}
