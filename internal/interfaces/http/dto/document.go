// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/domain/repository"
)

// UploadDocumentForm 文档上传表单字段，文件本体走 multipart file
type UploadDocumentForm struct {
	Title       string `form:"title" binding:"required,max=255"`
	Description string `form:"description" binding:"omitempty,max=2000"`
	Source      string `form:"source" binding:"omitempty,max=255"`
}

// DocumentResponse 文档列表项
type DocumentResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Source       string    `json:"source,omitempty"`
	ChapterCount int64     `json:"chapter_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChapterResponse 章节列表项，只带摘要不带正文
type ChapterResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Ordering int    `json:"ordering"`
	Summary  string `json:"summary,omitempty"`
}

// DocumentDetailResponse 文档详情
type DocumentDetailResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Chapters    []ChapterResponse `json:"chapters"`
}

// ToDocumentResponse 将文档汇总转换为 DTO
func ToDocumentResponse(s repository.DocumentSummary) DocumentResponse {
	return DocumentResponse{
		ID:           s.Document.ID,
		Title:        s.Document.Title,
		Description:  s.Document.Description,
		Source:       s.Document.Source,
		ChapterCount: s.ChapterCount,
		CreatedAt:    s.Document.CreatedAt,
	}
}

// ToDocumentDetailResponse 将文档实体转换为详情 DTO
func ToDocumentDetailResponse(doc *entity.Document) *DocumentDetailResponse {
	if doc == nil {
		return nil
	}
	chapters := make([]ChapterResponse, 0, len(doc.Chapters))
	for _, ch := range doc.Chapters {
		chapters = append(chapters, ChapterResponse{
			ID:       ch.ID,
			Title:    ch.Title,
			Ordering: ch.Ordering,
			Summary:  ch.Summary,
		})
	}
	return &DocumentDetailResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Source:      doc.Source,
		CreatedAt:   doc.CreatedAt,
		Chapters:    chapters,
	}
}
