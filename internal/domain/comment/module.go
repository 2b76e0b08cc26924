package comment

import (
	"blog_api/internal/domain/comment/handler"
	"blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/comment/service"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/pkg/middleware"
	"blog_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CommentModule 评论模块
type CommentModule struct{}

func init() {
	registry.Register(&CommentModule{})
}

func (m *CommentModule) Name() string {
	return "comment"
}

func (m *CommentModule) Priority() int {
	return 20
}

func (m *CommentModule) Init(ctx *registry.ModuleContext) error {
	s := ctx.Storage
	defaultStatus := model.Status(ctx.Config.Comment.DefaultStatus)
	commentService := service.NewCommentService(s.Comments, s.Users, defaultStatus, ctx.Metrics)
	commentHandler := handler.NewCommentHandler(commentService)

	setupRoutes(ctx.Router, ctx.Identity, commentHandler)
	return nil
}

func setupRoutes(r *gin.Engine, provider identity.Provider, h *handler.CommentHandler) {
	g := r.Group("/comments")

	g.GET("/author/:authorId", h.GetCommentsByAuthor)
	g.GET("/:commentId", h.GetCommentByID)

	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware(provider), middleware.RequireRoles(identity.RoleUser, identity.RoleAdmin))
	{
		auth.POST("", h.CreateComment)
		auth.PATCH("/:commentId", h.UpdateComment)
		auth.DELETE("/:commentId", h.DeleteComment)
	}

	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(provider), middleware.RequireRoles(identity.RoleAdmin))
	{
		admin.PATCH("/:commentId/moderate", h.ModerateComment)
	}
}
