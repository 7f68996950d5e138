// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"corpus-rag-api/internal/domain/repository"
)

// PageQuery 分页查询参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToPagination 转换为仓储层分页参数
func (q PageQuery) ToPagination() repository.Pagination {
	return repository.NewPagination(q.Page, q.PageSize)
}
