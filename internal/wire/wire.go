//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"corpus-rag-api/internal/application/ingest"
	"corpus-rag-api/internal/application/rag"
	"corpus-rag-api/internal/application/session"
	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/domain/repository"
	"corpus-rag-api/internal/infrastructure/persistence/postgres"
	"corpus-rag-api/internal/infrastructure/persistence/redis"
	"corpus-rag-api/internal/interfaces/http/handler"
	"corpus-rag-api/internal/interfaces/http/middleware"
	"corpus-rag-api/internal/interfaces/http/router"
)

// InitializeDataLayer 初始化数据层（bootstrap 用，Milvus 必需）
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		MilvusSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MilvusAppSet,
		EmbeddingSet,
		LLMSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewDocumentRepository,
	postgres.NewChapterRepository,
	postgres.NewChunkRepository,
	postgres.NewQuoteRepository,
	postgres.NewPostRepository,
	postgres.NewReportRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.DocumentRepository), new(*postgres.DocumentRepository)),
	wire.Bind(new(repository.ChapterRepository), new(*postgres.ChapterRepository)),
	wire.Bind(new(repository.ChunkRepository), new(*postgres.ChunkRepository)),
	wire.Bind(new(repository.QuoteRepository), new(*postgres.QuoteRepository)),
	wire.Bind(new(repository.PostRepository), new(*postgres.PostRepository)),
	wire.Bind(new(repository.ReportRepository), new(*postgres.ReportRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.Limiter), new(*redis.RateLimiter)),
)

// MilvusSet Milvus 提供者集合（不可达时启动失败）
var MilvusSet = wire.NewSet(
	ProvideMilvusClient,
	ProvideVectorRepository,
)

// MilvusAppSet API 服务可选 Milvus（不可达时问答走兜底话术）
var MilvusAppSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideVectorIndexOptional,
)

// EmbeddingSet 可选 Embedder（不可用时禁用向量检索与入库索引）
var EmbeddingSet = wire.NewSet(
	ProvideEmbedderOptional,
)

// LLMSet 可选 Chat Model（不可用时生成走致歉话术）
var LLMSet = wire.NewSet(
	ProvideChatModelOptional,
)

// ApplicationSet 应用服务提供者集合
var ApplicationSet = wire.NewSet(
	ProvideSessionStore,
	wire.Bind(new(rag.Memory), new(*session.Store)),
	ingest.NewService,
	rag.NewService,
	ProvideStatsService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	ProvideAuthHandler,
	handler.NewChatHandler,
	ProvideCorpusHandler,
	handler.NewDocumentHandler,
	handler.NewPostHandler,
	handler.NewReportHandler,
	handler.NewStatsHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
