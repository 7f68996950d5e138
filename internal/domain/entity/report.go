// Package entity 定义领域实体
package entity

import (
	"time"
)

// ReportSource 举报来源类型
type ReportSource string

const (
	ReportSourceChat ReportSource = "chat"
	ReportSourcePost ReportSource = "post"
)

// Report 内容举报实体
type Report struct {
	ID          int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Source      ReportSource `json:"source" gorm:"type:varchar(50);not null"`
	ReferenceID string       `json:"reference_id" gorm:"type:varchar(255);not null"`
	Reason      string       `json:"reason,omitempty" gorm:"type:text"`
	Resolved    bool         `json:"resolved" gorm:"default:false;index"`
	ReportedAt  time.Time    `json:"reported_at" gorm:"autoCreateTime"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
}

// TableName 指定表名
func (Report) TableName() string {
	return "reports"
}

// Resolve 标记举报已处理
func (r *Report) Resolve() {
	now := time.Now()
	r.Resolved = true
	r.ResolvedAt = &now
}
