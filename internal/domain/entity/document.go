// Package entity 定义领域实体
package entity

import (
	"time"
)

// Document 语料文档实体
type Document struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	FilePath    string    `json:"file_path,omitempty" gorm:"type:varchar(512)"`
	Source      string    `json:"source,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:DocumentID"`
}

// TableName 指定表名
func (Document) TableName() string {
	return "documents"
}

// NewDocument 创建新文档
func NewDocument(title, description, filePath, source string) *Document {
	return &Document{
		Title:       TruncateTitle(title),
		Description: description,
		FilePath:    filePath,
		Source:      source,
		CreatedAt:   time.Now(),
	}
}

// TruncateTitle 截断超长标题
func TruncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= 255 {
		return title
	}
	return string(r[:255])
}
