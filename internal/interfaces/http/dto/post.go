// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"corpus-rag-api/internal/domain/entity"
)

// CreatePostRequest 创建文章请求
type CreatePostRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	Excerpt    string `json:"excerpt" binding:"omitempty,max=2000"`
	Content    string `json:"content" binding:"required"`
	CoverImage string `json:"cover_image" binding:"omitempty,max=512,url"`
	IsFeatured bool   `json:"is_featured"`
}

// ToEntity 转换为领域实体
func (r *CreatePostRequest) ToEntity() *entity.Post {
	return &entity.Post{
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		IsFeatured: r.IsFeatured,
	}
}

// PostResponse 文章响应
type PostResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt,omitempty"`
	Content    string    `json:"content,omitempty"`
	CoverImage string    `json:"cover_image,omitempty"`
	IsFeatured bool      `json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToPostResponse 将文章实体转换为 DTO
// withContent 为 false 时省略正文，列表场景用。
func ToPostResponse(p *entity.Post, withContent bool) *PostResponse {
	if p == nil {
		return nil
	}
	resp := &PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Excerpt:    p.Excerpt,
		CoverImage: p.CoverImage,
		IsFeatured: p.IsFeatured,
		CreatedAt:  p.CreatedAt,
	}
	if withContent {
		resp.Content = p.Content
	}
	return resp
}

// ToPostResponses 批量转换文章列表
func ToPostResponses(posts []*entity.Post) []*PostResponse {
	out := make([]*PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToPostResponse(p, false))
	}
	return out
}
