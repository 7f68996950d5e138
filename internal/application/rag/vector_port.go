// Package rag 实现检索增强问答的核心编排
package rag

import (
	"context"
	"errors"
)

// ErrVectorUnavailable 向量索引不可达
var ErrVectorUnavailable = errors.New("vector index unavailable")

// VectorPoint 待写入向量索引的点位
type VectorPoint struct {
	ID         int64
	Vector     []float32
	DocumentID int64
	ChapterID  int64
	ChunkIndex int
	CreatedAt  string
}

// VectorFilter 检索过滤条件，空切片表示不过滤
type VectorFilter struct {
	DocumentIDs []int64
	ChapterIDs  []int64
}

// VectorHit 检索命中结果
type VectorHit struct {
	ChunkID int64
	Score   float32
}

// VectorIndex 向量索引端口
type VectorIndex interface {
	// EnsureCollection 幂等创建集合、索引并加载
	EnsureCollection(ctx context.Context) error

	// Upsert 写入或覆盖点位
	Upsert(ctx context.Context, points []VectorPoint) error

	// Search 过滤条件下按相似度检索 TopK
	Search(ctx context.Context, vector []float32, topK int, filter *VectorFilter) ([]VectorHit, error)

	// DeleteByIDs 按点位 ID 删除，未知 ID 静默忽略
	DeleteByIDs(ctx context.Context, ids []int64) error
}

// EmbedderPort 向量化端口
type EmbedderPort interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}
