// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Vector        VectorConfig        `yaml:"vector" mapstructure:"vector"`
	Upload        UploadConfig        `yaml:"upload" mapstructure:"upload"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Embedding     EmbeddingConfig     `yaml:"embedding" mapstructure:"embedding"`
	RAG           RAGConfig           `yaml:"rag" mapstructure:"rag"`
	Memory        MemoryConfig        `yaml:"memory" mapstructure:"memory"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis    RedisConfig   `yaml:"redis" mapstructure:"redis"`
	StatsTTL time.Duration `yaml:"stats_ttl" mapstructure:"stats_ttl"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// VectorConfig 向量数据库配置
type VectorConfig struct {
	Milvus MilvusConfig `yaml:"milvus" mapstructure:"milvus"`
}

// MilvusConfig Milvus 配置
type MilvusConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Collection         string `yaml:"collection" mapstructure:"collection"`
	IndexType          string `yaml:"index_type" mapstructure:"index_type"`
	MetricType         string `yaml:"metric_type" mapstructure:"metric_type"`
	HNSWM              int    `yaml:"hnsw_m" mapstructure:"hnsw_m"`
	HNSWEfConstruction int    `yaml:"hnsw_ef_construction" mapstructure:"hnsw_ef_construction"`
	SearchEf           int    `yaml:"search_ef" mapstructure:"search_ef"`
}

// UploadConfig 文档上传配置
type UploadConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	MaxSizeBytes int64  `yaml:"max_size_bytes" mapstructure:"max_size_bytes"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// ProviderConfig LLM 提供商配置
type ProviderConfig struct {
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// EmbeddingConfig Embedding 配置
type EmbeddingConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	Dimension int    `yaml:"dimension" mapstructure:"dimension"`
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// RAGConfig 检索问答配置
type RAGConfig struct {
	TopK              int           `yaml:"top_k" mapstructure:"top_k"`
	ChunkMaxChars     int           `yaml:"chunk_max_chars" mapstructure:"chunk_max_chars"`
	ChunkOverlapChars int           `yaml:"chunk_overlap_chars" mapstructure:"chunk_overlap_chars"`
	SnippetMaxChars   int           `yaml:"snippet_max_chars" mapstructure:"snippet_max_chars"`
	MaxCitations      int           `yaml:"max_citations" mapstructure:"max_citations"`
	RetrievalTimeout  time.Duration `yaml:"retrieval_timeout" mapstructure:"retrieval_timeout"`
	GenerateTimeout   time.Duration `yaml:"generate_timeout" mapstructure:"generate_timeout"`
}

// MemoryConfig 会话记忆配置
type MemoryConfig struct {
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MaxTurns int           `yaml:"max_turns" mapstructure:"max_turns"`
	Shards   int           `yaml:"shards" mapstructure:"shards"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT       JWTConfig       `yaml:"jwt" mapstructure:"jwt"`
	Admin     AdminConfig     `yaml:"admin" mapstructure:"admin"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret     string        `yaml:"secret" mapstructure:"secret"`
	Issuer     string        `yaml:"issuer" mapstructure:"issuer"`
	Expiration time.Duration `yaml:"expiration" mapstructure:"expiration"`
}

// AdminConfig 管理端登录配置
type AdminConfig struct {
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
