// Package metrics 提供 Prometheus 指标采集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "corpus_rag"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)

	// 业务指标 - 文档入库
	IngestionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "documents_total",
			Help:      "Total number of document ingestions",
		},
		[]string{"status"},
	)

	IngestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Document ingestion duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"format"},
	)

	IngestionChunks = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "chunk_count",
			Help:      "Number of chunks produced per ingested document",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"format"},
	)

	// 业务指标 - 问答
	QueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "total",
			Help:      "Total number of RAG queries",
		},
		[]string{"mode", "status"}, // mode: batch/stream
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "RAG query duration in seconds",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	RetrievalFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "fallback_total",
			Help:      "Total number of fallback answers",
		},
		[]string{"reason"}, // reason: no_citation/llm_error
	)

	// LLM 指标
	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Total tokens used for LLM calls",
		},
		[]string{"provider", "model", "type"}, // type: prompt/completion
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM call duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	LLMCallTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_total",
			Help:      "Total number of LLM calls",
		},
		[]string{"provider", "model", "status"},
	)

	// 向量检索指标
	MilvusSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "milvus",
			Name:      "search_duration_seconds",
			Help:      "Milvus search duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1},
		},
		[]string{"collection"},
	)

	MilvusSearchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "milvus",
			Name:      "search_total",
			Help:      "Total number of Milvus searches",
		},
		[]string{"collection", "status"},
	)

	// 会话记忆指标
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Current number of live chat sessions",
		},
	)
)
