package common

import (
	"context"
	"net/http"
	"time"

	"blog_api/internal/pkg/registry"
	"blog_api/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	setupRoutes(ctx.Router, ctx.Storage.DB)
	return nil
}

func setupRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/healthz", healthz(db))
}

// healthz 内存模式下 db 为 nil，直接返回正常
func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "database unavailable")
				return
			}
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}
