// Package entity 定义领域实体
package entity

import (
	"time"
)

// Post 文章实体
type Post struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title      string     `json:"title" gorm:"type:varchar(255);not null"`
	Excerpt    string     `json:"excerpt,omitempty" gorm:"type:text"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	CoverImage string     `json:"cover_image,omitempty" gorm:"type:varchar(512)"`
	IsFeatured bool       `json:"is_featured" gorm:"default:false;index"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
