package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkByChars_Empty(t *testing.T) {
	assert.Nil(t, ChunkByChars("", 100, 10))
	assert.Nil(t, ChunkByChars("abc", 0, 0))
	assert.Nil(t, ChunkByChars("abc", -1, 0))
}

func TestChunkByChars_ShortText(t *testing.T) {
	chunks := ChunkByChars("hello world", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestChunkByChars_TrimsChunks(t *testing.T) {
	chunks := ChunkByChars("  hello world  ", 100, 10)
	require.Equal(t, []string{"hello world"}, chunks)

	// 窗口边界落在空白上时，输出同样不带首尾空白
	chunks = ChunkByChars("ab cd ef", 3, 0)
	require.Equal(t, []string{"ab", "cd", "ef"}, chunks)
}

func TestChunkByChars_WindowAndOverlap(t *testing.T) {
	// 10 个字符，窗口 4，重叠 2：窗口起点依次为 0、2、4、6
	chunks := ChunkByChars("abcdefghij", 4, 2)
	require.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, chunks)
}

func TestChunkByChars_NoOverlap(t *testing.T) {
	chunks := ChunkByChars("abcdefgh", 3, 0)
	require.Equal(t, []string{"abc", "def", "gh"}, chunks)
}

func TestChunkByChars_OverlapClampedBelowWindow(t *testing.T) {
	// 重叠不小于窗口时收敛为窗口减一，保证窗口持续前进
	chunks := ChunkByChars("abcde", 2, 5)
	require.Equal(t, []string{"ab", "bc", "cd", "de"}, chunks)
}

func TestChunkByChars_MultiByteRunes(t *testing.T) {
	text := "春眠不觉晓处处闻啼鸟"
	chunks := ChunkByChars(text, 4, 1)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "春眠不觉", chunks[0])
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 4)
	}
}

func TestChunkByChars_DropsWhitespaceOnlyChunks(t *testing.T) {
	chunks := ChunkByChars("ab      ", 2, 0)
	require.Equal(t, []string{"ab"}, chunks)
}

func TestChunkByChars_Deterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 50)
	first := ChunkByChars(text, 64, 16)
	second := ChunkByChars(text, 64, 16)
	assert.Equal(t, first, second)
}
