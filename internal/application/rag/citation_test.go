package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpus-rag-api/internal/domain/entity"
)

func testChunk() *entity.Chunk {
	return &entity.Chunk{
		ID:        7,
		ChapterID: 3,
		ChunkText: strings.Repeat("văn bản gốc ", 40),
		Chapter: &entity.Chapter{
			ID:         3,
			DocumentID: 1,
			Title:      "Chương 2",
			Document:   &entity.Document{ID: 1, Title: "Truyện Kiều"},
		},
	}
}

func TestBuildSource_PrefersQuote(t *testing.T) {
	page := 42
	chunk := testChunk()
	chunk.Quotes = []entity.Quote{
		{ChunkID: 7, QuoteText: "trích dẫn chọn lọc", PageNumber: &page},
		{ChunkID: 7, QuoteText: "second quote"},
	}

	src := buildSource(chunk, 0.91, 300)
	assert.Equal(t, int64(7), src.ChunkID)
	assert.Equal(t, int64(1), src.DocumentID)
	assert.Equal(t, "Truyện Kiều", src.DocumentTitle)
	assert.Equal(t, "Chương 2", src.ChapterTitle)
	assert.Equal(t, "trích dẫn chọn lọc", src.Snippet)
	require.NotNil(t, src.PageNumber)
	assert.Equal(t, 42, *src.PageNumber)
	assert.InDelta(t, 0.91, src.Score, 1e-6)
}

func TestBuildSource_FallsBackToChunkText(t *testing.T) {
	chunk := testChunk()

	src := buildSource(chunk, 0.5, 20)
	assert.Nil(t, src.PageNumber)
	assert.True(t, strings.HasSuffix(src.Snippet, "..."))
	assert.Equal(t, 20, len([]rune(strings.TrimSuffix(src.Snippet, "..."))))
}

func TestBuildSource_NoChapterPreloaded(t *testing.T) {
	chunk := &entity.Chunk{ID: 1, ChapterID: 2, ChunkText: "short"}

	src := buildSource(chunk, 0.1, 300)
	assert.Empty(t, src.DocumentTitle)
	assert.Equal(t, "short", src.Snippet)
}

func TestTruncateSnippet(t *testing.T) {
	assert.Equal(t, "abc", truncateSnippet("abc", 10))
	assert.Equal(t, "abc", truncateSnippet("abc", 0))
	assert.Equal(t, "ab...", truncateSnippet("abcdef", 2))
	assert.Equal(t, "你好...", truncateSnippet("你好世界", 2))
}

func TestFormatCitations(t *testing.T) {
	page := 5
	sources := []Source{
		{DocumentTitle: "Doc A", ChapterTitle: "Ch 1", Snippet: "first"},
		{DocumentTitle: "Doc B", ChapterTitle: "Ch 2", Snippet: "second", PageNumber: &page},
	}

	out := FormatCitations(sources, 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "《Doc A》 → Ch 1 → first", lines[0])
	assert.Equal(t, "《Doc B》 → Ch 2 → p. 5: second", lines[1])
}

func TestFormatCitations_MaxLines(t *testing.T) {
	sources := []Source{
		{DocumentTitle: "D", ChapterTitle: "1", Snippet: "a"},
		{DocumentTitle: "D", ChapterTitle: "2", Snippet: "b"},
		{DocumentTitle: "D", ChapterTitle: "3", Snippet: "c"},
	}

	out := FormatCitations(sources, 2)
	assert.Len(t, strings.Split(out, "\n"), 2)
	assert.NotContains(t, out, "3")
}

func TestFormatCitations_Empty(t *testing.T) {
	assert.Empty(t, FormatCitations(nil, 5))
}
