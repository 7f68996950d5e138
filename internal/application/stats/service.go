// Package stats 提供内容统计汇总
package stats

import (
	"context"
	"encoding/json"
	"time"

	"corpus-rag-api/internal/domain/repository"
	redisinfra "corpus-rag-api/internal/infrastructure/persistence/redis"
)

// cacheKey 统计结果缓存键
const cacheKey = "stats:overview"

// Overview 统计结果
type Overview struct {
	DocumentCount     int64 `json:"document_count"`
	PostCount         int64 `json:"post_count"`
	ChunkCount        int64 `json:"chunk_count"`
	ReportCount       int64 `json:"report_count"`
	ReportCount24h    int64 `json:"report_count_24h"`
	GeneratedAtUnixMs int64 `json:"generated_at_unix_ms"`
}

// Service 统计服务，结果走 Redis 短缓存
type Service struct {
	docRepo    repository.DocumentRepository
	postRepo   repository.PostRepository
	chunkRepo  repository.ChunkRepository
	reportRepo repository.ReportRepository
	cache      *redisinfra.Cache
	ttl        time.Duration
}

// NewService 创建统计服务
func NewService(
	docRepo repository.DocumentRepository,
	postRepo repository.PostRepository,
	chunkRepo repository.ChunkRepository,
	reportRepo repository.ReportRepository,
	cache *redisinfra.Cache,
	ttl time.Duration,
) *Service {
	return &Service{
		docRepo:    docRepo,
		postRepo:   postRepo,
		chunkRepo:  chunkRepo,
		reportRepo: reportRepo,
		cache:      cache,
		ttl:        ttl,
	}
}

// Overview 汇总各项计数，并发请求由 singleflight 合并
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	if s.cache == nil {
		return s.load(ctx)
	}

	raw, err := s.cache.GetOrLoadSafe(ctx, cacheKey, s.ttl, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}

	var ov Overview
	if err := json.Unmarshal(raw, &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

// load 直接从数据库汇总
func (s *Service) load(ctx context.Context) (*Overview, error) {
	docCount, err := s.docRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	postCount, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	chunkCount, err := s.chunkRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	reportCount, err := s.reportRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	report24h, err := s.reportRepo.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &Overview{
		DocumentCount:     docCount,
		PostCount:         postCount,
		ChunkCount:        chunkCount,
		ReportCount:       reportCount,
		ReportCount24h:    report24h,
		GeneratedAtUnixMs: time.Now().UnixMilli(),
	}, nil
}
