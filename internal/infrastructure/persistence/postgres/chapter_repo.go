// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"corpus-rag-api/internal/domain/entity"
)

// ChapterRepository 章节仓储实现
type ChapterRepository struct {
	client *Client
}

// NewChapterRepository 创建章节仓储
func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

// Create 创建章节
func (r *ChapterRepository) Create(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(chapter).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

// ListByDocument 获取文档章节列表
func (r *ChapterRepository) ListByDocument(ctx context.Context, documentID int64) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapters []*entity.Chapter
	if err := db.Where("document_id = ?", documentID).
		Order("ordering ASC").
		Find(&chapters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

// DeleteByDocument 删除文档下所有章节
func (r *ChapterRepository) DeleteByDocument(ctx context.Context, documentID int64) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.DeleteByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("document_id = ?", documentID).
		Delete(&entity.Chapter{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chapters: %w", err)
	}
	return nil
}
