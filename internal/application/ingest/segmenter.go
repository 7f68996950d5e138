package ingest

import (
	"regexp"
	"strings"
)

// DefaultChapterTitle 首个标题之前内容的默认章节标题
const DefaultChapterTitle = "前言"

// chapterHeadingRe 章节标题行，支持越南语与英语两种写法
var chapterHeadingRe = regexp.MustCompile(`(?i)^(?:Chương|Chapter)\s+\d+\b.*$`)

// Segment 分章结果
type Segment struct {
	Title   string
	Content string
}

// SplitChapters 按标题行切分章节，保持文档顺序
// 无任何标题时整篇归入默认标题；标题前的引导文本同样归入默认标题。
func SplitChapters(text string) []Segment {
	lines := strings.Split(text, "\n")

	var segments []Segment
	current := Segment{Title: DefaultChapterTitle}
	var buf []string

	flush := func() {
		current.Content = strings.TrimSpace(strings.Join(buf, "\n"))
		if current.Content != "" || len(segments) > 0 {
			segments = append(segments, current)
		}
		buf = buf[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if chapterHeadingRe.MatchString(trimmed) {
			flush()
			current = Segment{Title: trimmed}
			continue
		}
		buf = append(buf, line)
	}
	flush()

	if len(segments) == 0 {
		segments = []Segment{{Title: DefaultChapterTitle, Content: strings.TrimSpace(text)}}
	}
	return segments
}
