package rag

import (
	"corpus-rag-api/internal/domain/entity"
)

// 固定话术
const (
	// NoCitationAnswer 检索无结果时的固定回答
	NoCitationAnswer = "未找到相关的引用内容，请尝试换一种问法。"
	// ApologyAnswer 生成失败时的固定回答
	ApologyAnswer = "抱歉，当前无法生成回答，请稍后重试。"
)

// Source 引用来源
type Source struct {
	ChunkID       int64   `json:"chunk_id"`
	DocumentID    int64   `json:"document_id"`
	DocumentTitle string  `json:"document_title"`
	ChapterID     int64   `json:"chapter_id"`
	ChapterTitle  string  `json:"chapter_title"`
	Snippet       string  `json:"snippet"`
	PageNumber    *int    `json:"page_number,omitempty"`
	Score         float32 `json:"score"`
}

// Debug 调试信息，仅在显式请求时返回
type Debug struct {
	RetrievedChunks    []int64 `json:"retrieved_chunks"`
	QueryTimeMs        int64   `json:"query_time_ms"`
	VectorSearchTimeMs int64   `json:"vector_search_time_ms"`
}

// Answer 问答结果
type Answer struct {
	Answer       string   `json:"answer"`
	Sources      []Source `json:"sources"`
	NumCitations int      `json:"num_citations"`
	Debug        *Debug   `json:"debug,omitempty"`
}

// State 单次问答的流水线状态，各阶段单调填充
type State struct {
	Question  string
	SessionID string

	Retrieved     []VectorHit
	Chunks        []*entity.Chunk
	Sources       []Source
	ContextText   string
	CitationsText string
	Answer        string

	VectorSearchElapsedMs int64
}

// StreamEvent 流式问答事件
type StreamEvent struct {
	// Name 事件名：start / retrieval / sources / token / done / error
	Name string
	// Data 事件负载，JSON 可序列化
	Data any
}

// 流式事件名
const (
	EventStart     = "start"
	EventRetrieval = "retrieval"
	EventSources   = "sources"
	EventToken     = "token"
	EventDone      = "done"
	EventError     = "error"
)
