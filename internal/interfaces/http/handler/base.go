// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"strconv"

	"corpus-rag-api/internal/interfaces/http/dto"
	apperrors "corpus-rag-api/pkg/errors"
	"corpus-rag-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// fail 按错误类型写错误响应
// AppError 携带 HTTP 状态码与业务错误码，其余错误一律 500。
func fail(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}

	logger.Error(c.Request.Context(), "request failed", err,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	dto.InternalError(c, "internal server error")
}

// pathID 解析路径中的整型 ID 参数
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		dto.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
