package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpus-rag-api/internal/config"
)

// newTestClient 基于 miniredis 构建测试客户端
func newTestClient(t *testing.T) *Client {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(&config.RedisConfig{
		Host:         mr.Host(),
		Port:         port,
		DB:           0,
		PoolSize:     10,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	limiter := NewRateLimiter(newTestClient(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "ratelimit:test:within", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}
}

func TestRateLimiter_DeniesOverLimit(t *testing.T) {
	limiter := NewRateLimiter(newTestClient(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "ratelimit:test:over", 2, time.Minute)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "ratelimit:test:over", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(newTestClient(t))
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, BuildClientRateLimitKey("1.2.3.4", "/v1/chat/query"), 1, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, BuildClientRateLimitKey("5.6.7.8", "/v1/chat/query"), 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_Remaining(t *testing.T) {
	limiter := NewRateLimiter(newTestClient(t))
	ctx := context.Background()

	remaining, err := limiter.Remaining(ctx, "ratelimit:test:remaining", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	_, err = limiter.Allow(ctx, "ratelimit:test:remaining", 5, time.Minute)
	require.NoError(t, err)

	remaining, err = limiter.Remaining(ctx, "ratelimit:test:remaining", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestRateLimiter_Reset(t *testing.T) {
	limiter := NewRateLimiter(newTestClient(t))
	ctx := context.Background()

	key := "ratelimit:test:reset"
	for i := 0; i < 2; i++ {
		_, err := limiter.Allow(ctx, key, 2, time.Minute)
		require.NoError(t, err)
	}

	allowed, err := limiter.Allow(ctx, key, 2, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, key))

	allowed, err = limiter.Allow(ctx, key, 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_SameMillisecondRequestsAllCounted(t *testing.T) {
	limiter := NewRateLimiter(newTestClient(t))
	ctx := context.Background()

	// 紧凑循环内的请求大概率落在同一毫秒，每个都必须计数
	key := "ratelimit:test:burst"
	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, key, 5, time.Minute)
		require.NoError(t, err)
		require.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestBuildClientRateLimitKey(t *testing.T) {
	assert.Equal(t, "ratelimit:1.2.3.4:/v1/chat/query",
		BuildClientRateLimitKey("1.2.3.4", "/v1/chat/query"))
}
