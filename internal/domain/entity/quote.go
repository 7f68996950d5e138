// Package entity 定义领域实体
package entity

import (
	"time"
)

// Quote 精选引文实体，引用展示时优先于分块原文
type Quote struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ChunkID      int64     `json:"chunk_id" gorm:"index;not null"`
	QuoteText    string    `json:"quote_text" gorm:"type:text;not null"`
	ExcerptStart *int      `json:"excerpt_start,omitempty"`
	ExcerptEnd   *int      `json:"excerpt_end,omitempty"`
	PageNumber   *int      `json:"page_number,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Quote) TableName() string {
	return "quotes"
}
