// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"corpus-rag-api/internal/domain/entity"
)

// chunkInsertBatchSize 批量插入分块时的单批大小
const chunkInsertBatchSize = 200

// ChunkRepository 分块仓储实现
type ChunkRepository struct {
	client *Client
}

// NewChunkRepository 创建分块仓储
func NewChunkRepository(client *Client) *ChunkRepository {
	return &ChunkRepository{client: client}
}

// CreateBatch 批量创建分块
func (r *ChunkRepository) CreateBatch(ctx context.Context, chunks []*entity.Chunk) error {
	ctx, span := tracer.Start(ctx, "postgres.ChunkRepository.CreateBatch")
	defer span.End()

	if len(chunks) == 0 {
		return nil
	}

	db := getDB(ctx, r.client.db)
	if err := db.CreateInBatches(chunks, chunkInsertBatchSize).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chunks: %w", err)
	}
	return nil
}

// UpdateVectorPointID 回写向量点位 ID
func (r *ChunkRepository) UpdateVectorPointID(ctx context.Context, id int64, pointID string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChunkRepository.UpdateVectorPointID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Chunk{}).
		Where("id = ?", id).
		Update("vector_point_id", pointID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update vector point id: %w", err)
	}
	return nil
}

// GetByIDs 批量获取分块，预加载 Quotes 与 Chapter.Document
func (r *ChunkRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Chunk, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChunkRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	db := getDB(ctx, r.client.db)
	var chunks []*entity.Chunk
	if err := db.Where("id IN ?", ids).
		Preload("Quotes").
		Preload("Chapter").
		Preload("Chapter.Document").
		Find(&chunks).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chunks by ids: %w", err)
	}
	return chunks, nil
}

// ListIDsByDocument 获取文档下所有分块 ID
func (r *ChunkRepository) ListIDsByDocument(ctx context.Context, documentID int64) ([]int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChunkRepository.ListIDsByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var ids []int64
	err := db.Model(&entity.Chunk{}).
		Joins("JOIN chapters ON chapters.id = chunks.chapter_id").
		Where("chapters.document_id = ?", documentID).
		Pluck("chunks.id", &ids).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chunk ids: %w", err)
	}
	return ids, nil
}

// DeleteByDocument 删除文档下所有分块
func (r *ChunkRepository) DeleteByDocument(ctx context.Context, documentID int64) error {
	ctx, span := tracer.Start(ctx, "postgres.ChunkRepository.DeleteByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db)
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&entity.Chapter{}).
		Select("id").
		Where("document_id = ?", documentID)
	if err := db.Where("chapter_id IN (?)", sub).
		Delete(&entity.Chunk{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// Count 分块总数
func (r *ChunkRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChunkRepository.Count")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.Chunk{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return total, nil
}
