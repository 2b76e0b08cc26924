package post

import (
	commentService "blog_api/internal/domain/comment/service"
	"blog_api/internal/domain/post/handler"
	"blog_api/internal/domain/post/service"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/pkg/middleware"
	"blog_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PostModule 帖子模块
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	s := ctx.Storage
	threads := commentService.NewThreadLoader(s.Comments)
	postService := service.NewPostService(s.Posts, s.Stats, s.Users, threads, s.Tx, ctx.Metrics)
	postHandler := handler.NewPostHandler(postService, ctx.Config.Pagination.MaxLimit)

	// 2. 路由注册
	setupRoutes(ctx.Router, ctx.Identity, postHandler)

	return nil
}

func setupRoutes(r *gin.Engine, provider identity.Provider, h *handler.PostHandler) {
	g := r.Group("/posts")

	// 公开
	g.GET("", h.GetAllPosts)
	g.GET("/author/:authorId", h.GetPostsByAuthor)
	g.GET("/:postId", h.GetPostByID)

	// 登录用户
	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware(provider), middleware.RequireRoles(identity.RoleUser, identity.RoleAdmin))
	{
		auth.POST("", h.CreatePost)
		auth.GET("/my-posts", h.GetMyPosts)
		auth.PATCH("/:postId", h.UpdatePost)
		auth.DELETE("/:postId", h.DeletePost)
	}

	// 管理员
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(provider), middleware.RequireRoles(identity.RoleAdmin))
	{
		admin.GET("/stats", h.GetStats)
	}
}
