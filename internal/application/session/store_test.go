package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_AppendAndContext(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(30*time.Minute, 6, 4, WithClock(clock.Now))

	store.Append("s1", "问题一", "回答一")
	store.Append("s1", "问题二", "回答二")

	ctx := store.Context("s1")
	assert.Equal(t, "用户：问题一\n助手：回答一\n用户：问题二\n助手：回答二", ctx)
	assert.Equal(t, 1, store.Len())
}

func TestStore_EmptySessionIDIsNoop(t *testing.T) {
	store := NewStore(time.Minute, 6, 4)

	store.Append("", "question", "answer")
	assert.Empty(t, store.Context(""))
	assert.Equal(t, 0, store.Len())
}

func TestStore_UnknownSession(t *testing.T) {
	store := NewStore(time.Minute, 6, 4)
	assert.Empty(t, store.Context("nobody"))
}

func TestStore_TTLExpiry(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(10*time.Minute, 6, 4, WithClock(clock.Now))

	store.Append("s1", "q", "a")
	require.NotEmpty(t, store.Context("s1"))

	clock.Advance(11 * time.Minute)
	assert.Empty(t, store.Context("s1"))
	assert.Equal(t, 0, store.Len())
}

func TestStore_AppendRefreshesTTL(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(10*time.Minute, 6, 4, WithClock(clock.Now))

	store.Append("s1", "q1", "a1")
	clock.Advance(8 * time.Minute)
	store.Append("s1", "q2", "a2")
	clock.Advance(8 * time.Minute)

	// 第二次追加刷新了活跃时间，会话仍然存活
	assert.NotEmpty(t, store.Context("s1"))
}

func TestStore_MaxTurnsTrimming(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(time.Hour, 2, 4, WithClock(clock.Now))

	for i := 1; i <= 5; i++ {
		store.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	ctx := store.Context("s1")
	assert.Equal(t, "用户：q4\n助手：a4\n用户：q5\n助手：a5", ctx)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Hour, 6, 8)

	store.Append("alpha", "qa", "aa")
	store.Append("beta", "qb", "ab")

	assert.Equal(t, "用户：qa\n助手：aa", store.Context("alpha"))
	assert.Equal(t, "用户：qb\n助手：ab", store.Context("beta"))
	assert.Equal(t, 2, store.Len())
}

func TestStore_ConcurrentAppend(t *testing.T) {
	store := NewStore(time.Hour, 6, 16)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", n%8)
			store.Append(id, "q", "a")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, store.Len())
}
