// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	"corpus-rag-api/internal/application/ingest"
	"corpus-rag-api/internal/application/rag"
	"corpus-rag-api/internal/application/session"
	"corpus-rag-api/internal/application/stats"
	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/domain/repository"
	infraembedding "corpus-rag-api/internal/infrastructure/embedding"
	"corpus-rag-api/internal/infrastructure/llm"
	"corpus-rag-api/internal/infrastructure/persistence/milvus"
	"corpus-rag-api/internal/infrastructure/persistence/postgres"
	"corpus-rag-api/internal/infrastructure/persistence/redis"
	"corpus-rag-api/internal/interfaces/http/handler"
	"corpus-rag-api/pkg/logger"
)

// DataLayer 数据层依赖容器，bootstrap 用
type DataLayer struct {
	PgClient    *postgres.Client
	TxManager   *postgres.TxManager
	DocRepo     *postgres.DocumentRepository
	ChapterRepo *postgres.ChapterRepository
	ChunkRepo   *postgres.ChunkRepository
	QuoteRepo   *postgres.QuoteRepository
	PostRepo    *postgres.PostRepository
	ReportRepo  *postgres.ReportRepository

	MilvusClient *milvus.Client
	VectorRepo   *milvus.Repository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMilvusClient 提供 Milvus 客户端，不可达时报错
func ProvideMilvusClient(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideVectorRepository 提供向量仓储
func ProvideVectorRepository(client *milvus.Client, cfg *config.Config) *milvus.Repository {
	return milvus.NewRepository(client, cfg.Embedding.Dimension)
}

// ProvideMilvusClientOptional 提供可选 Milvus 客户端
// 不可达时返回 nil，检索会统一走兜底话术。
func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, vector retrieval disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideVectorIndexOptional 提供可选向量索引
func ProvideVectorIndexOptional(client *milvus.Client, cfg *config.Config) rag.VectorIndex {
	if client == nil {
		return nil
	}
	return milvus.NewRepository(client, cfg.Embedding.Dimension)
}

// ProvideEmbedderOptional 提供可选 Embedder
func ProvideEmbedderOptional(ctx context.Context, cfg *config.Config) rag.EmbedderPort {
	embedder, err := infraembedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Warn(ctx, "embedding not available, vector features disabled", "error", err.Error())
		return nil
	}
	return infraembedding.NewClient(embedder, &cfg.Embedding)
}

// ProvideChatModelOptional 提供可选 Chat Model
// 初始化失败时返回 nil，生成阶段统一走致歉话术。
func ProvideChatModelOptional(ctx context.Context, cfg *config.Config) model.BaseChatModel {
	factory := llm.NewEinoFactory(cfg)
	chatModel, err := factory.Default(ctx)
	if err != nil {
		logger.Warn(ctx, "chat model not available, generation disabled", "error", err.Error())
		return nil
	}
	return chatModel
}

// ProvideSessionStore 提供会话记忆存储
func ProvideSessionStore(cfg *config.Config) *session.Store {
	return session.NewStore(cfg.Memory.TTL, cfg.Memory.MaxTurns, cfg.Memory.Shards)
}

// ProvideStatsService 提供统计服务
func ProvideStatsService(
	docRepo repository.DocumentRepository,
	postRepo repository.PostRepository,
	chunkRepo repository.ChunkRepository,
	reportRepo repository.ReportRepository,
	cache *redis.Cache,
	cfg *config.Config,
) *stats.Service {
	return stats.NewService(docRepo, postRepo, chunkRepo, reportRepo, cache, cfg.Cache.StatsTTL)
}

// ProvideAuthHandler 提供认证处理器
func ProvideAuthHandler(cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(&cfg.Security)
}

// ProvideCorpusHandler 提供语料管理处理器
func ProvideCorpusHandler(ingestSvc *ingest.Service, cfg *config.Config) *handler.CorpusHandler {
	return handler.NewCorpusHandler(ingestSvc, cfg.Upload.MaxSizeBytes)
}
