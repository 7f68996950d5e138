// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"corpus-rag-api/internal/application/rag"
	"corpus-rag-api/pkg/metrics"
)

// Repository 分块向量索引实现
type Repository struct {
	client *Client
	dim    int
}

var _ rag.VectorIndex = (*Repository)(nil)

// NewRepository 创建分块向量索引
func NewRepository(client *Client, dim int) *Repository {
	return &Repository{client: client, dim: dim}
}

// EnsureCollection 幂等创建集合、索引并加载
func (r *Repository) EnsureCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("%w: client not configured", rag.ErrVectorUnavailable)
	}
	ctx, span := tracer.Start(ctx, "milvus.EnsureCollection",
		trace.WithAttributes(attribute.String("collection", r.client.config.Collection)))
	defer span.End()

	collName := r.client.config.Collection

	has, err := r.client.milvus.HasCollection(ctx, collName)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", rag.ErrVectorUnavailable, err)
	}

	if !has {
		schema := ChunksSchema(collName, r.dim)
		if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: create collection: %v", rag.ErrVectorUnavailable, err)
		}

		idx, err := entity.NewIndexHNSW(
			metricType(r.client.config.MetricType),
			r.client.config.HNSWM,
			r.client.config.HNSWEfConstruction,
		)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to build index: %w", err)
		}
		if err := r.client.milvus.CreateIndex(ctx, collName, FieldVector, idx, false); err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: create index: %v", rag.ErrVectorUnavailable, err)
		}
	}

	if err := r.client.milvus.LoadCollection(ctx, collName, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: load collection: %v", rag.ErrVectorUnavailable, err)
	}
	return nil
}

// Upsert 写入或覆盖点位
func (r *Repository) Upsert(ctx context.Context, points []rag.VectorPoint) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("%w: client not configured", rag.ErrVectorUnavailable)
	}
	ctx, span := tracer.Start(ctx, "milvus.Upsert",
		trace.WithAttributes(attribute.Int("count", len(points))))
	defer span.End()

	if len(points) == 0 {
		return nil
	}

	ids := make([]int64, len(points))
	vectors := make([][]float32, len(points))
	documentIDs := make([]int64, len(points))
	chapterIDs := make([]int64, len(points))
	chunkIndexes := make([]int64, len(points))
	createdAts := make([]string, len(points))

	for i, p := range points {
		ids[i] = p.ID
		vectors[i] = p.Vector
		documentIDs[i] = p.DocumentID
		chapterIDs[i] = p.ChapterID
		chunkIndexes[i] = int64(p.ChunkIndex)
		createdAts[i] = p.CreatedAt
	}

	idCol := entity.NewColumnInt64(FieldID, ids)
	vectorCol := entity.NewColumnFloatVector(FieldVector, r.dim, vectors)
	docCol := entity.NewColumnInt64(FieldDocumentID, documentIDs)
	chapterCol := entity.NewColumnInt64(FieldChapterID, chapterIDs)
	indexCol := entity.NewColumnInt64(FieldChunkIndex, chunkIndexes)
	createdCol := entity.NewColumnVarChar(FieldCreatedAt, createdAts)

	_, err := r.client.milvus.Upsert(ctx, r.client.config.Collection, "",
		idCol, vectorCol, docCol, chapterCol, indexCol, createdCol)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: upsert: %v", rag.ErrVectorUnavailable, err)
	}
	return nil
}

// Search 过滤条件下按相似度检索 TopK
func (r *Repository) Search(ctx context.Context, vector []float32, topK int, filter *rag.VectorFilter) ([]rag.VectorHit, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("%w: client not configured", rag.ErrVectorUnavailable)
	}
	collName := r.client.config.Collection
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(
			attribute.String("collection", collName),
			attribute.Int("top_k", topK),
		))
	defer span.End()

	start := time.Now()

	sp, err := entity.NewIndexHNSWSearchParam(r.client.config.SearchEf)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		buildFilterExpr(filter),
		[]string{FieldID},
		[]entity.Vector{entity.FloatVector(vector)},
		FieldVector,
		metricType(r.client.config.MetricType),
		topK,
		sp,
	)

	metrics.MilvusSearchDuration.WithLabelValues(collName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MilvusSearchTotal.WithLabelValues(collName, "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("%w: search: %v", rag.ErrVectorUnavailable, err)
	}
	metrics.MilvusSearchTotal.WithLabelValues(collName, "success").Inc()

	var hits []rag.VectorHit
	for _, result := range results {
		idCol, ok := result.IDs.(*entity.ColumnInt64)
		if !ok {
			continue
		}
		for i := 0; i < result.ResultCount; i++ {
			hits = append(hits, rag.VectorHit{
				ChunkID: idCol.Data()[i],
				Score:   result.Scores[i],
			})
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}

// DeleteByIDs 按点位 ID 删除，未知 ID 静默忽略
func (r *Repository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("%w: client not configured", rag.ErrVectorUnavailable)
	}
	ctx, span := tracer.Start(ctx, "milvus.DeleteByIDs",
		trace.WithAttributes(attribute.Int("count", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return nil
	}

	expr := int64InExpr(FieldID, ids)
	if err := r.client.milvus.Delete(ctx, r.client.config.Collection, "", expr); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: delete: %v", rag.ErrVectorUnavailable, err)
	}
	return nil
}

// buildFilterExpr 构建过滤表达式，多字段之间 AND，字段内多值 OR
// 使用 OR 链而非 IN，避免不同 Milvus 版本的语法差异。
func buildFilterExpr(filter *rag.VectorFilter) string {
	if filter == nil {
		return ""
	}

	var clauses []string
	if len(filter.DocumentIDs) > 0 {
		clauses = append(clauses, int64InExpr(FieldDocumentID, filter.DocumentIDs))
	}
	if len(filter.ChapterIDs) > 0 {
		clauses = append(clauses, int64InExpr(FieldChapterID, filter.ChapterIDs))
	}
	return strings.Join(clauses, " && ")
}

// int64InExpr 将 field∈set 谓词展开为 OR 链
func int64InExpr(field string, values []int64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s == %d", field, v))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " || ") + ")"
}
