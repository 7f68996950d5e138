// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/domain/repository"
)

// PostRepository 文章仓储实现
type PostRepository struct {
	client *Client
}

// NewPostRepository 创建文章仓储
func NewPostRepository(client *Client) *PostRepository {
	return &PostRepository{client: client}
}

// Create 创建文章
func (r *PostRepository) Create(ctx context.Context, post *entity.Post) error {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(post).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取文章
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var post entity.Post
	if err := db.First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// List 按创建时间倒序分页列出文章
func (r *PostRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Post], error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Post{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []*entity.Post
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&posts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return repository.NewPagedResult(posts, total, pagination), nil
}

// ListFeatured 列出精选文章
func (r *PostRepository) ListFeatured(ctx context.Context, limit int) ([]*entity.Post, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.ListFeatured")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var posts []*entity.Post
	if err := db.Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list featured posts: %w", err)
	}
	return posts, nil
}

// Count 文章总数
func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.Count")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.Post{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}
