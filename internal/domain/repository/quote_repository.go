// Package repository 定义数据访问层接口
package repository

import (
	"context"
)

// QuoteRepository 引文仓储接口
type QuoteRepository interface {
	// DeleteByDocument 删除文档下所有引文
	DeleteByDocument(ctx context.Context, documentID int64) error
}
