package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChapters_NoHeading(t *testing.T) {
	segments := SplitChapters("just a plain paragraph\nwith two lines")
	require.Len(t, segments, 1)
	assert.Equal(t, DefaultChapterTitle, segments[0].Title)
	assert.Equal(t, "just a plain paragraph\nwith two lines", segments[0].Content)
}

func TestSplitChapters_EmptyInput(t *testing.T) {
	segments := SplitChapters("")
	require.Len(t, segments, 1)
	assert.Equal(t, DefaultChapterTitle, segments[0].Title)
	assert.Empty(t, segments[0].Content)
}

func TestSplitChapters_EnglishHeadings(t *testing.T) {
	text := "Chapter 1 The Beginning\nfirst body\n\nChapter 2 The End\nsecond body"
	segments := SplitChapters(text)
	require.Len(t, segments, 2)
	assert.Equal(t, "Chapter 1 The Beginning", segments[0].Title)
	assert.Equal(t, "first body", segments[0].Content)
	assert.Equal(t, "Chapter 2 The End", segments[1].Title)
	assert.Equal(t, "second body", segments[1].Content)
}

func TestSplitChapters_VietnameseHeadings(t *testing.T) {
	text := "Chương 1: Khởi đầu\nnội dung một\nChương 2: Kết thúc\nnội dung hai"
	segments := SplitChapters(text)
	require.Len(t, segments, 2)
	assert.Equal(t, "Chương 1: Khởi đầu", segments[0].Title)
	assert.Equal(t, "nội dung một", segments[0].Content)
	assert.Equal(t, "Chương 2: Kết thúc", segments[1].Title)
}

func TestSplitChapters_CaseInsensitiveHeading(t *testing.T) {
	segments := SplitChapters("CHAPTER 3 Shouting\nbody")
	require.Len(t, segments, 1)
	assert.Equal(t, "CHAPTER 3 Shouting", segments[0].Title)
}

func TestSplitChapters_LeadingTextGoesToDefaultChapter(t *testing.T) {
	text := "Giới thiệu về tác phẩm.\n\nChapter 1 Start\nbody one"
	segments := SplitChapters(text)
	require.Len(t, segments, 2)
	assert.Equal(t, DefaultChapterTitle, segments[0].Title)
	assert.Equal(t, "Giới thiệu về tác phẩm.", segments[0].Content)
	assert.Equal(t, "Chapter 1 Start", segments[1].Title)
}

func TestSplitChapters_NoLeadingTextDropsEmptyDefault(t *testing.T) {
	text := "Chapter 1 Start\nbody"
	segments := SplitChapters(text)
	require.Len(t, segments, 1)
	assert.Equal(t, "Chapter 1 Start", segments[0].Title)
}

func TestSplitChapters_KeepsEmptyTrailingChapter(t *testing.T) {
	// 末尾空章节保留，便于后续排查抽取质量
	text := "intro\nChapter 1 Empty Tail\n"
	segments := SplitChapters(text)
	require.Len(t, segments, 2)
	assert.Equal(t, "Chapter 1 Empty Tail", segments[1].Title)
	assert.Empty(t, segments[1].Content)
}

func TestSplitChapters_HeadingRequiresNumber(t *testing.T) {
	// 没有编号的 Chapter 字样不视为标题行
	text := "Chapter of Secrets\nbody"
	segments := SplitChapters(text)
	require.Len(t, segments, 1)
	assert.Equal(t, DefaultChapterTitle, segments[0].Title)
}
