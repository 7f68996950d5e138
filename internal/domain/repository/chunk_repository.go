// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"corpus-rag-api/internal/domain/entity"
)

// ChunkRepository 分块仓储接口
type ChunkRepository interface {
	// CreateBatch 批量创建分块
	CreateBatch(ctx context.Context, chunks []*entity.Chunk) error

	// UpdateVectorPointID 回写向量点位 ID
	UpdateVectorPointID(ctx context.Context, id int64, pointID string) error

	// GetByIDs 批量获取分块，预加载 Quotes 与 Chapter.Document
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Chunk, error)

	// ListIDsByDocument 获取文档下所有分块 ID
	ListIDsByDocument(ctx context.Context, documentID int64) ([]int64, error)

	// DeleteByDocument 删除文档下所有分块
	DeleteByDocument(ctx context.Context, documentID int64) error

	// Count 分块总数
	Count(ctx context.Context) (int64, error)
}
