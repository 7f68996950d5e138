package ingest

import (
	"strings"
)

// ChunkByChars 按字符滑动窗口切分文本
// 窗口大小 maxChars，相邻窗口重叠 overlap 字符；块输出前去除首尾空白，
// 全空白的块被丢弃。同样的输入总产生同样的切分结果。
func ChunkByChars(text string, maxChars, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if maxChars <= 0 {
		return nil
	}
	if overlap >= maxChars {
		overlap = maxChars - 1
	}
	if overlap < 0 {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}
