// Package handler 提供 HTTP 请求处理器
package handler

import (
	"corpus-rag-api/internal/domain/repository"
	"corpus-rag-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// ReportHandler 内容举报处理器
type ReportHandler struct {
	reportRepo repository.ReportRepository
}

// NewReportHandler 创建举报处理器
func NewReportHandler(reportRepo repository.ReportRepository) *ReportHandler {
	return &ReportHandler{reportRepo: reportRepo}
}

// Create 提交举报
// @Summary 提交举报
// @Description 对问答回答或文章提交内容举报
// @Tags Reports
// @Accept json
// @Produce json
// @Param body body dto.CreateReportRequest true "举报内容"
// @Success 201 {object} dto.Response[dto.ReportResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat/report [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	report := req.ToEntity()
	if err := h.reportRepo.Create(c.Request.Context(), report); err != nil {
		fail(c, err)
		return
	}

	dto.Created(c, dto.ToReportResponse(report))
}

// List 举报列表
// @Summary 举报列表
// @Description 管理员分页查看举报，可按处理状态过滤
// @Tags Reports
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Param resolved query bool false "处理状态过滤"
// @Success 200 {object} dto.Response[[]dto.ReportResponse]
// @Router /v1/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	var q dto.ListReportsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	pagination := q.ToPagination()
	result, err := h.reportRepo.List(c.Request.Context(), &repository.ReportFilter{
		Resolved: q.Resolved,
	}, pagination)
	if err != nil {
		fail(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.ToReportResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Resolve 标记举报已处理
// @Summary 标记举报已处理
// @Tags Reports
// @Produce json
// @Param id path int true "举报 ID"
// @Success 200 {object} dto.Response[dto.ReportResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/reports/{id}/resolve [post]
func (h *ReportHandler) Resolve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	report, err := h.reportRepo.GetByID(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if report == nil {
		dto.NotFound(c, "report not found")
		return
	}

	if !report.Resolved {
		report.Resolve()
		if err := h.reportRepo.Update(ctx, report); err != nil {
			fail(c, err)
			return
		}
	}

	dto.Success(c, dto.ToReportResponse(report))
}
