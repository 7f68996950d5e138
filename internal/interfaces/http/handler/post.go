// Package handler 提供 HTTP 请求处理器
package handler

import (
	"corpus-rag-api/internal/domain/repository"
	"corpus-rag-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// featuredPostLimit 精选文章默认条数
const featuredPostLimit = 5

// PostHandler 文章处理器
type PostHandler struct {
	postRepo repository.PostRepository
}

// NewPostHandler 创建文章处理器
func NewPostHandler(postRepo repository.PostRepository) *PostHandler {
	return &PostHandler{postRepo: postRepo}
}

// List 文章列表
// @Summary 文章列表
// @Description 按创建时间倒序分页列出文章，列表项不含正文
// @Tags Posts
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response[[]dto.PostResponse]
// @Router /v1/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	pagination := q.ToPagination()
	result, err := h.postRepo.List(c.Request.Context(), pagination)
	if err != nil {
		fail(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.ToPostResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Featured 精选文章
// @Summary 精选文章
// @Tags Posts
// @Produce json
// @Success 200 {object} dto.Response[[]dto.PostResponse]
// @Router /v1/posts/featured [get]
func (h *PostHandler) Featured(c *gin.Context) {
	posts, err := h.postRepo.ListFeatured(c.Request.Context(), featuredPostLimit)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.ToPostResponses(posts))
}

// Get 文章详情
// @Summary 文章详情
// @Tags Posts
// @Produce json
// @Param id path int true "文章 ID"
// @Success 200 {object} dto.Response[dto.PostResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.postRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if post == nil {
		dto.NotFound(c, "post not found")
		return
	}

	dto.Success(c, dto.ToPostResponse(post, true))
}

// Create 创建文章
// @Summary 创建文章
// @Description 管理员创建文章
// @Tags Posts
// @Accept json
// @Produce json
// @Param body body dto.CreatePostRequest true "文章内容"
// @Success 201 {object} dto.Response[dto.PostResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	post := req.ToEntity()
	if err := h.postRepo.Create(c.Request.Context(), post); err != nil {
		fail(c, err)
		return
	}

	dto.Created(c, dto.ToPostResponse(post, true))
}
