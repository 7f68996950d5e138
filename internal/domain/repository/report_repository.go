// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"corpus-rag-api/internal/domain/entity"
)

// ReportFilter 举报过滤条件
type ReportFilter struct {
	// Resolved 为 nil 时不过滤
	Resolved *bool
}

// ReportRepository 举报仓储接口
type ReportRepository interface {
	// Create 创建举报
	Create(ctx context.Context, report *entity.Report) error

	// GetByID 根据 ID 获取举报
	GetByID(ctx context.Context, id int64) (*entity.Report, error)

	// Update 更新举报
	Update(ctx context.Context, report *entity.Report) error

	// List 按举报时间倒序分页列出
	List(ctx context.Context, filter *ReportFilter, pagination Pagination) (*PagedResult[*entity.Report], error)

	// Count 举报总数
	Count(ctx context.Context) (int64, error)

	// CountSince 统计某时间点之后的举报数
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
