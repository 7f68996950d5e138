// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"corpus-rag-api/internal/infrastructure/persistence/milvus"
	"corpus-rag-api/internal/infrastructure/persistence/postgres"
	"corpus-rag-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	pg     *postgres.Client
	redis  *redis.Client
	milvus *milvus.Client
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(pg *postgres.Client, redisClient *redis.Client, milvusClient *milvus.Client) *HealthHandler {
	return &HealthHandler{
		pg:     pg,
		redis:  redisClient,
		milvus: milvusClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string `json:"status"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks"`
}

// Health 健康检查接口
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready 就绪检查接口
// Postgres 与 Redis 为必需依赖；Milvus 不可达时检索会走兜底话术，
// 只标记为 degraded，不影响就绪态。
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]*readinessCheck, 3)
	ready := true

	checks["postgres"] = runCheck(ctx, h.pg != nil, func(ctx context.Context) error {
		return h.pg.HealthCheck(ctx)
	})
	if checks["postgres"].Status != "ok" {
		ready = false
	}

	checks["redis"] = runCheck(ctx, h.redis != nil, func(ctx context.Context) error {
		return h.redis.HealthCheck(ctx)
	})
	if checks["redis"].Status != "ok" {
		ready = false
	}

	milvusCheck := runCheck(ctx, h.milvus != nil, func(ctx context.Context) error {
		return h.milvus.HealthCheck(ctx)
	})
	if milvusCheck.Status == "error" {
		milvusCheck.Status = "degraded"
	}
	checks["milvus"] = milvusCheck

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// runCheck 执行单项依赖检查并记录耗时
func runCheck(ctx context.Context, configured bool, probe func(context.Context) error) *readinessCheck {
	if !configured {
		return &readinessCheck{Status: "missing", Error: "client not configured"}
	}

	start := time.Now()
	err := probe(ctx)
	check := &readinessCheck{LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = "error"
		check.Error = err.Error()
		return check
	}
	check.Status = "ok"
	return check
}
