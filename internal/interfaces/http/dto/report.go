// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"corpus-rag-api/internal/domain/entity"
)

// CreateReportRequest 内容举报请求
type CreateReportRequest struct {
	Source      string `json:"source" binding:"required,oneof=chat post"`
	ReferenceID string `json:"reference_id" binding:"required,max=255"`
	Reason      string `json:"reason" binding:"omitempty,max=2000"`
}

// ToEntity 转换为领域实体
func (r *CreateReportRequest) ToEntity() *entity.Report {
	return &entity.Report{
		Source:      entity.ReportSource(r.Source),
		ReferenceID: r.ReferenceID,
		Reason:      r.Reason,
	}
}

// ReportResponse 举报响应
type ReportResponse struct {
	ID          int64      `json:"id"`
	Source      string     `json:"source"`
	ReferenceID string     `json:"reference_id"`
	Reason      string     `json:"reason,omitempty"`
	Resolved    bool       `json:"resolved"`
	ReportedAt  time.Time  `json:"reported_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// ListReportsQuery 举报列表查询参数
type ListReportsQuery struct {
	PageQuery
	// Resolved 省略时不过滤
	Resolved *bool `form:"resolved"`
}

// ToReportResponse 将举报实体转换为 DTO
func ToReportResponse(r *entity.Report) *ReportResponse {
	if r == nil {
		return nil
	}
	return &ReportResponse{
		ID:          r.ID,
		Source:      string(r.Source),
		ReferenceID: r.ReferenceID,
		Reason:      r.Reason,
		Resolved:    r.Resolved,
		ReportedAt:  r.ReportedAt,
		ResolvedAt:  r.ResolvedAt,
	}
}

// ToReportResponses 批量转换举报列表
func ToReportResponses(reports []*entity.Report) []*ReportResponse {
	out := make([]*ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, ToReportResponse(r))
	}
	return out
}
