// Package router 提供 HTTP 路由配置
package router

import (
	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/interfaces/http/handler"
	"corpus-rag-api/internal/interfaces/http/middleware"
	"corpus-rag-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由所需的全部处理器
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Chat     *handler.ChatHandler
	Corpus   *handler.CorpusHandler
	Document *handler.DocumentHandler
	Post     *handler.PostHandler
	Report   *handler.ReportHandler
	Stats    *handler.StatsHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	limiter  middleware.Limiter
}

// New 创建新的路由器
func New(cfg *config.Config, handlers Handlers, limiter middleware.Limiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	jwtManager := utils.NewJWTManager(r.cfg.Security.JWT.Secret, r.cfg.Security.JWT.Issuer)
	adminAuth := middleware.AdminAuth(jwtManager)

	v1 := r.engine.Group("/v1")
	RegisterV1Routes(v1, r.handlers, adminAuth)
}
