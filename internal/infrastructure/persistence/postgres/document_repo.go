// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/domain/repository"
)

// DocumentRepository 文档仓储实现
type DocumentRepository struct {
	client *Client
}

// NewDocumentRepository 创建文档仓储
func NewDocumentRepository(client *Client) *DocumentRepository {
	return &DocumentRepository{client: client}
}

// Create 创建文档
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(doc).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取文档
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var doc entity.Document
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// GetWithChapters 获取文档及其章节
func (r *DocumentRepository) GetWithChapters(ctx context.Context, id int64) (*entity.Document, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.GetWithChapters")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var doc entity.Document
	err := db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordering ASC")
	}).First(&doc, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get document with chapters: %w", err)
	}
	return &doc, nil
}

// List 按创建时间倒序列出所有文档及章节数
func (r *DocumentRepository) List(ctx context.Context) ([]repository.DocumentSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var docs []entity.Document
	if err := db.Order("created_at DESC").Find(&docs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	type chapterCount struct {
		DocumentID int64
		Cnt        int64
	}
	var counts []chapterCount
	if err := db.Model(&entity.Chapter{}).
		Select("document_id, COUNT(*) AS cnt").
		Group("document_id").
		Scan(&counts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count chapters: %w", err)
	}

	countByDoc := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countByDoc[c.DocumentID] = c.Cnt
	}

	summaries := make([]repository.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, repository.DocumentSummary{
			Document:     d,
			ChapterCount: countByDoc[d.ID],
		})
	}
	return summaries, nil
}

// Delete 删除文档记录
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Document{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Count 文档总数
func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Count")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.Document{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, nil
}
