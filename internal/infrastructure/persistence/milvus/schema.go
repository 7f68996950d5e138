// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// 集合字段名
const (
	FieldID         = "id"
	FieldVector     = "vector"
	FieldDocumentID = "document_id"
	FieldChapterID  = "chapter_id"
	FieldChunkIndex = "chunk_index"
	FieldCreatedAt  = "created_at"
)

// ChunksSchema 分块向量集合 Schema，主键为分块 ID
func ChunksSchema(collection string, dim int) *entity.Schema {
	return &entity.Schema{
		CollectionName: collection,
		Description:    "Document chunk vectors for semantic retrieval",
		Fields: []*entity.Field{
			{
				Name:       FieldID,
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     false,
			},
			{
				Name:     FieldVector,
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(dim),
				},
			},
			{
				Name:     FieldDocumentID,
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     FieldChapterID,
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     FieldChunkIndex,
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     FieldCreatedAt,
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
		},
	}
}

// metricType 解析配置中的距离度量
func metricType(name string) entity.MetricType {
	switch name {
	case "IP":
		return entity.IP
	case "L2":
		return entity.L2
	default:
		return entity.COSINE
	}
}
