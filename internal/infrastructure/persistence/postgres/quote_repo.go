// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"corpus-rag-api/internal/domain/entity"
)

// QuoteRepository 引文仓储实现
type QuoteRepository struct {
	client *Client
}

// NewQuoteRepository 创建引文仓储
func NewQuoteRepository(client *Client) *QuoteRepository {
	return &QuoteRepository{client: client}
}

// DeleteByDocument 删除文档下所有引文
func (r *QuoteRepository) DeleteByDocument(ctx context.Context, documentID int64) error {
	ctx, span := tracer.Start(ctx, "postgres.QuoteRepository.DeleteByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db)
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&entity.Chunk{}).
		Select("chunks.id").
		Joins("JOIN chapters ON chapters.id = chunks.chapter_id").
		Where("chapters.document_id = ?", documentID)
	if err := db.Where("chunk_id IN (?)", sub).
		Delete(&entity.Quote{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete quotes: %w", err)
	}
	return nil
}
