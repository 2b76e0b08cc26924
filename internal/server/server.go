// Package server 组装 gin 引擎与各业务模块
package server

import (
	"blog_api/internal/pkg/config"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/pkg/middleware"
	"blog_api/internal/pkg/registry"
	"blog_api/internal/storage"
	"blog_api/pkg/metrics"

	// 业务模块通过 init 自注册
	_ "blog_api/internal/domain/comment"
	_ "blog_api/internal/domain/common"
	_ "blog_api/internal/domain/post"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New 创建路由并初始化所有已注册模块，collector 为 nil 时不暴露指标
func New(cfg *config.Config, backend *storage.Backend, provider identity.Provider, collector *metrics.MetricsCollector) (*gin.Engine, error) {
	r := gin.New()
	r.Use(
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		gin.CustomRecovery(middleware.HandlePanics()),
		middleware.CORSMiddleware(cfg.CORS.AllowOrigins),
	)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
	}

	var recorder metrics.Recorder = metrics.Nop
	if collector != nil {
		r.Use(middleware.MetricsMiddleware(collector))
		r.GET("/metrics", gin.WrapH(collector.Handler()))
		recorder = collector
	}

	err := registry.InitModules(&registry.ModuleContext{
		Router:   r,
		Storage:  backend,
		Identity: provider,
		Config:   cfg,
		Metrics:  recorder,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
