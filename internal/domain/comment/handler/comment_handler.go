package handler

import (
	"blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/comment/service"
	"blog_api/internal/pkg/middleware"
	"blog_api/pkg/response"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(s service.CommentService) *CommentHandler {
	return &CommentHandler{service: s}
}

// ModerateInput 审核输入
type ModerateInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateComment 发表评论或回复
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input model.CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	comment, err := h.service.Create(c.Request.Context(), principal, &input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, comment)
}

// GetCommentByID 评论详情
func (h *CommentHandler) GetCommentByID(c *gin.Context) {
	comment, err := h.service.GetByID(c.Request.Context(), c.Param("commentId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, comment)
}

// GetCommentsByAuthor 指定作者的评论
func (h *CommentHandler) GetCommentsByAuthor(c *gin.Context) {
	comments, err := h.service.GetByAuthor(c.Request.Context(), c.Param("authorId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, comments)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var patch model.CommentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err)
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	comment, err := h.service.Update(c.Request.Context(), c.Param("commentId"), &patch, principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	if err := h.service.Delete(c.Request.Context(), c.Param("commentId"), principal); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// ModerateComment 审核评论（管理员）
func (h *CommentHandler) ModerateComment(c *gin.Context) {
	var input ModerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	comment, err := h.service.Moderate(c.Request.Context(), c.Param("commentId"), input.Status, principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, comment)
}
