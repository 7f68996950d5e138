// Package entity 定义领域实体
package entity

import (
	"time"
)

// Chunk 文本分块实体，ChunkIndex 为章节内 0 起始位置
type Chunk struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ChapterID     int64     `json:"chapter_id" gorm:"index;not null"`
	ChunkIndex    int       `json:"chunk_index" gorm:"not null"`
	ChunkText     string    `json:"chunk_text" gorm:"type:text;not null"`
	VectorPointID string    `json:"vector_point_id,omitempty" gorm:"type:varchar(64)"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`

	Chapter *Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID"`
	Quotes  []Quote  `json:"quotes,omitempty" gorm:"foreignKey:ChunkID"`
}

// TableName 指定表名
func (Chunk) TableName() string {
	return "chunks"
}

// NewChunk 创建新分块
func NewChunk(chapterID int64, index int, text string) *Chunk {
	return &Chunk{
		ChapterID:  chapterID,
		ChunkIndex: index,
		ChunkText:  text,
		CreatedAt:  time.Now(),
	}
}
