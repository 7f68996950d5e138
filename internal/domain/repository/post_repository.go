// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"corpus-rag-api/internal/domain/entity"
)

// PostRepository 文章仓储接口
type PostRepository interface {
	// Create 创建文章
	Create(ctx context.Context, post *entity.Post) error

	// GetByID 根据 ID 获取文章
	GetByID(ctx context.Context, id int64) (*entity.Post, error)

	// List 按创建时间倒序分页列出文章
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Post], error)

	// ListFeatured 列出精选文章
	ListFeatured(ctx context.Context, limit int) ([]*entity.Post, error)

	// Count 文章总数
	Count(ctx context.Context) (int64, error)
}
