// Package session 实现进程内会话记忆
package session

import (
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"corpus-rag-api/pkg/metrics"
)

// Clock 可注入时钟
type Clock func() time.Time

// record 单个会话的对话行与活跃时间
type record struct {
	lines       []string
	lastTouched time.Time
}

// shard 独立加锁的分片，避免全局锁竞争
type shard struct {
	mu       sync.Mutex
	sessions map[string]*record
}

// Store 带 TTL 的会话记忆存储
// 过期清理在每次读写前惰性执行；进程重启后记忆不保留。
type Store struct {
	shards   []*shard
	ttl      time.Duration
	maxLines int
	now      Clock
}

// Option Store 可选配置
type Option func(*Store)

// WithClock 注入时钟，测试用
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.now = c
	}
}

// NewStore 创建会话存储
// maxTurns 为保留的问答轮数，每轮两行（用户与助手各一行）。
func NewStore(ttl time.Duration, maxTurns, shards int, opts ...Option) *Store {
	if shards <= 0 {
		shards = 16
	}
	if maxTurns <= 0 {
		maxTurns = 6
	}

	s := &Store{
		shards:   make([]*shard, shards),
		ttl:      ttl,
		maxLines: maxTurns * 2,
		now:      time.Now,
	}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*record)}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Context 返回会话最近的对话上下文，无会话或已过期返回空串
// 超出上限的旧行在读取时裁掉。
func (s *Store) Context(sessionID string) string {
	if sessionID == "" {
		return ""
	}

	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s.sweep(sh)

	rec, ok := sh.sessions[sessionID]
	if !ok {
		return ""
	}

	lines := rec.lines
	if len(lines) > s.maxLines {
		lines = lines[len(lines)-s.maxLines:]
		rec.lines = lines
	}
	return strings.Join(lines, "\n")
}

// Append 追加一轮问答并刷新活跃时间，空会话 ID 不做任何事
func (s *Store) Append(sessionID, userText, assistantText string) {
	if sessionID == "" {
		return
	}

	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s.sweep(sh)

	rec, ok := sh.sessions[sessionID]
	if !ok {
		rec = &record{}
		sh.sessions[sessionID] = rec
		metrics.ActiveSessions.Inc()
	}

	rec.lines = append(rec.lines, "用户："+userText, "助手："+assistantText)
	rec.lastTouched = s.now()
}

// Len 当前存活会话数
func (s *Store) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += len(sh.sessions)
		sh.mu.Unlock()
	}
	return total
}

// sweep 清除分片内过期会话，调用方需持有分片锁
func (s *Store) sweep(sh *shard) {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, rec := range sh.sessions {
		if rec.lastTouched.Before(cutoff) {
			delete(sh.sessions, id)
			metrics.ActiveSessions.Dec()
		}
	}
}

// shardFor 按会话 ID 哈希选择分片
func (s *Store) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}
