// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/domain/repository"
)

// ReportRepository 举报仓储实现
type ReportRepository struct {
	client *Client
}

// NewReportRepository 创建举报仓储
func NewReportRepository(client *Client) *ReportRepository {
	return &ReportRepository{client: client}
}

// Create 创建举报
func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(report).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取举报
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*entity.Report, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var report entity.Report
	if err := db.First(&report, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// Update 更新举报
func (r *ReportRepository) Update(ctx context.Context, report *entity.Report) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(report).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

// List 按举报时间倒序分页列出
func (r *ReportRepository) List(ctx context.Context, filter *repository.ReportFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Report{})
	if filter != nil && filter.Resolved != nil {
		query = query.Where("resolved = ?", *filter.Resolved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []*entity.Report
	if err := query.Order("reported_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&reports).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return repository.NewPagedResult(reports, total, pagination), nil
}

// Count 举报总数
func (r *ReportRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.Count")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.Report{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return total, nil
}

// CountSince 统计某时间点之后的举报数
func (r *ReportRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.CountSince")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.Report{}).
		Where("reported_at >= ?", since).
		Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count recent reports: %w", err)
	}
	return total, nil
}
