package handler

import (
	"blog_api/internal/domain/post/filter"
	"blog_api/internal/domain/post/model"
	"blog_api/internal/domain/post/service"
	"blog_api/internal/pkg/middleware"
	"blog_api/pkg/response"
	"blog_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service  service.PostService
	maxLimit int
}

func NewPostHandler(s service.PostService, maxLimit int) *PostHandler {
	return &PostHandler{service: s, maxLimit: maxLimit}
}

// ListQuery 列表查询参数，全部按原始字符串读取，非法值在规范化时回退默认
type ListQuery struct {
	utils.PaginationQuery
	Search     string
	Tags       string // 逗号分隔
	IsFeatured string
	Status     string
	AuthorID   string
}

func parseListQuery(c *gin.Context) ListQuery {
	return ListQuery{
		PaginationQuery: utils.PaginationQuery{
			Page:      c.Query("page"),
			Limit:     c.Query("limit"),
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
		},
		Search:     c.Query("search"),
		Tags:       c.Query("tags"),
		IsFeatured: c.Query("isFeatured"),
		Status:     c.Query("status"),
		AuthorID:   c.Query("authorId"),
	}
}

// CreatePost 创建帖子
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input model.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	post, err := h.service.Create(c.Request.Context(), principal, &input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, post)
}

// GetAllPosts 帖子列表
// 支持 search, tags, isFeatured, status, authorId 过滤以及 page, limit, sortBy, sortOrder
func (h *PostHandler) GetAllPosts(c *gin.Context) {
	q := parseListQuery(c)

	params := filter.Params{
		Search:     q.Search,
		Tags:       filter.ParseTags(q.Tags),
		IsFeatured: filter.ParseBool(q.IsFeatured),
		Status:     q.Status,
		AuthorID:   q.AuthorID,
	}

	result, err := h.service.List(c.Request.Context(), params, q.Normalize(h.maxLimit))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// GetPostByID 帖子详情（浏览量 +1）
func (h *PostHandler) GetPostByID(c *gin.Context) {
	post, err := h.service.GetByID(c.Request.Context(), c.Param("postId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, post)
}

// GetMyPosts 当前用户的帖子
func (h *PostHandler) GetMyPosts(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	posts, err := h.service.GetMine(c.Request.Context(), principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPostsByAuthor 指定作者的帖子
func (h *PostHandler) GetPostsByAuthor(c *gin.Context) {
	posts, err := h.service.GetByAuthor(c.Request.Context(), c.Param("authorId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, posts)
}

// UpdatePost 更新帖子，isFeatured 仅管理员可改
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var patch model.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err)
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	post, err := h.service.Update(c.Request.Context(), c.Param("postId"), &patch, principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除帖子
func (h *PostHandler) DeletePost(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	if err := h.service.Delete(c.Request.Context(), c.Param("postId"), principal); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetStats 全站统计（管理员）
func (h *PostHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, stats)
}
