// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"corpus-rag-api/internal/domain/entity"
)

// DocumentSummary 文档列表项，附带章节统计
type DocumentSummary struct {
	Document     entity.Document
	ChapterCount int64
}

// DocumentRepository 文档仓储接口
type DocumentRepository interface {
	// Create 创建文档
	Create(ctx context.Context, doc *entity.Document) error

	// GetByID 根据 ID 获取文档
	GetByID(ctx context.Context, id int64) (*entity.Document, error)

	// GetWithChapters 获取文档及其章节（按 Ordering 排序）
	GetWithChapters(ctx context.Context, id int64) (*entity.Document, error)

	// List 按创建时间倒序列出所有文档及章节数
	List(ctx context.Context) ([]DocumentSummary, error)

	// Delete 删除文档记录
	Delete(ctx context.Context, id int64) error

	// Count 文档总数
	Count(ctx context.Context) (int64, error)
}
