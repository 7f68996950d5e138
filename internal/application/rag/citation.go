package rag

import (
	"fmt"
	"strings"

	"corpus-rag-api/internal/domain/entity"
)

// buildSource 从分块生成引用来源
// 有引文时优先展示第一条引文，否则截取分块原文做摘要。
func buildSource(chunk *entity.Chunk, score float32, snippetMax int) Source {
	src := Source{
		ChunkID:   chunk.ID,
		ChapterID: chunk.ChapterID,
		Score:     score,
	}

	if chunk.Chapter != nil {
		src.ChapterTitle = chunk.Chapter.Title
		src.DocumentID = chunk.Chapter.DocumentID
		if chunk.Chapter.Document != nil {
			src.DocumentTitle = chunk.Chapter.Document.Title
		}
	}

	if len(chunk.Quotes) > 0 {
		q := chunk.Quotes[0]
		src.Snippet = q.QuoteText
		src.PageNumber = q.PageNumber
	} else {
		src.Snippet = truncateSnippet(chunk.ChunkText, snippetMax)
	}
	return src
}

// truncateSnippet 截取摘要，超长时追加省略号
func truncateSnippet(text string, max int) string {
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

// FormatCitations 渲染引用列表文本，最多 maxLines 行
// 行格式：《文档》 → 章节 → (p. N:) 摘要
func FormatCitations(sources []Source, maxLines int) string {
	if len(sources) == 0 {
		return ""
	}
	if maxLines > 0 && len(sources) > maxLines {
		sources = sources[:maxLines]
	}

	lines := make([]string, 0, len(sources))
	for _, s := range sources {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("《%s》 → %s → ", s.DocumentTitle, s.ChapterTitle))
		if s.PageNumber != nil {
			sb.WriteString(fmt.Sprintf("p. %d: ", *s.PageNumber))
		}
		sb.WriteString(s.Snippet)
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
