// Package embedding 提供向量化服务客户端
package embedding

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"

	"corpus-rag-api/internal/config"
	apperrors "corpus-rag-api/pkg/errors"
)

// Client 带维度校验的向量化客户端
// 上游返回空向量或维度不符都视为错误，绝不以零向量兜底。
type Client struct {
	embedder  embedding.Embedder
	dimension int
	batchSize int
}

// NewClient 创建向量化客户端
func NewClient(embedder embedding.Embedder, cfg *config.EmbeddingConfig) *Client {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}
	return &Client{
		embedder:  embedder,
		dimension: cfg.Dimension,
		batchSize: batchSize,
	}
}

// EmbedOne 向量化单条文本
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedMany 批量向量化，按配置的批大小分批请求
func (c *Client) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += c.batchSize {
		end := i + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		raw, err := c.embedder.EmbedStrings(ctx, texts[i:end])
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "embedding request failed")
		}
		if len(raw) != end-i {
			return nil, apperrors.New(apperrors.CodeEmbeddingFailed, "embedding count mismatch").
				WithDetail(fmt.Sprintf("want %d vectors, got %d", end-i, len(raw)))
		}

		for _, v := range raw {
			vec, err := c.toFloat32(v)
			if err != nil {
				return nil, err
			}
			all = append(all, vec)
		}
	}

	return all, nil
}

// toFloat32 转换并校验单个向量
func (c *Client) toFloat32(v []float64) ([]float32, error) {
	if len(v) == 0 {
		return nil, apperrors.New(apperrors.CodeEmbeddingFailed, "embedding returned empty vector")
	}
	if c.dimension > 0 && len(v) != c.dimension {
		return nil, apperrors.New(apperrors.CodeEmbeddingFailed, "embedding dimension mismatch").
			WithDetail(fmt.Sprintf("configured %d, got %d", c.dimension, len(v)))
	}

	vec := make([]float32, len(v))
	for i, f := range v {
		vec[i] = float32(f)
	}
	return vec, nil
}
