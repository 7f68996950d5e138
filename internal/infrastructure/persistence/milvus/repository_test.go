package milvus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corpus-rag-api/internal/application/rag"
)

func TestInt64InExpr(t *testing.T) {
	assert.Equal(t, "id == 7", int64InExpr(FieldID, []int64{7}))
	assert.Equal(t, "(id == 1 || id == 2 || id == 3)", int64InExpr(FieldID, []int64{1, 2, 3}))
}

func TestBuildFilterExpr(t *testing.T) {
	tests := []struct {
		name   string
		filter *rag.VectorFilter
		want   string
	}{
		{
			name:   "nil filter",
			filter: nil,
			want:   "",
		},
		{
			name:   "empty filter",
			filter: &rag.VectorFilter{},
			want:   "",
		},
		{
			name:   "single document",
			filter: &rag.VectorFilter{DocumentIDs: []int64{5}},
			want:   "document_id == 5",
		},
		{
			name:   "multiple documents",
			filter: &rag.VectorFilter{DocumentIDs: []int64{5, 6}},
			want:   "(document_id == 5 || document_id == 6)",
		},
		{
			name:   "documents and chapters",
			filter: &rag.VectorFilter{DocumentIDs: []int64{5}, ChapterIDs: []int64{10, 11}},
			want:   "document_id == 5 && (chapter_id == 10 || chapter_id == 11)",
		},
		{
			name:   "chapters only",
			filter: &rag.VectorFilter{ChapterIDs: []int64{10}},
			want:   "chapter_id == 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilterExpr(tt.filter))
		})
	}
}
