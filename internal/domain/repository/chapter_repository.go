// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"corpus-rag-api/internal/domain/entity"
)

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	// Create 创建章节
	Create(ctx context.Context, chapter *entity.Chapter) error

	// ListByDocument 获取文档章节列表（按 Ordering 排序）
	ListByDocument(ctx context.Context, documentID int64) ([]*entity.Chapter, error)

	// DeleteByDocument 删除文档下所有章节
	DeleteByDocument(ctx context.Context, documentID int64) error
}
