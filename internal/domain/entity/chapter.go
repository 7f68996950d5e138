// Package entity 定义领域实体
package entity

import (
	"time"
)

// summaryMaxChars 章节摘要最大长度
const summaryMaxChars = 200

// Chapter 章节实体，Ordering 从 1 开始按文档内顺序递增
type Chapter struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	DocumentID int64     `json:"document_id" gorm:"index;not null"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Ordering   int       `json:"ordering" gorm:"not null"`
	Summary    string    `json:"summary,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Document *Document `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
	Chunks   []Chunk   `json:"chunks,omitempty" gorm:"foreignKey:ChapterID"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// NewChapter 创建新章节，摘要取正文前 200 字符
func NewChapter(documentID int64, title, content string, ordering int) *Chapter {
	return &Chapter{
		DocumentID: documentID,
		Title:      TruncateTitle(title),
		Ordering:   ordering,
		Summary:    Summarize(content),
		CreatedAt:  time.Now(),
	}
}

// Summarize 生成章节摘要
func Summarize(content string) string {
	r := []rune(content)
	if len(r) <= summaryMaxChars {
		return content
	}
	return string(r[:summaryMaxChars]) + "..."
}
