package middleware

import (
	"time"

	"blog_api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录请求指标，endpoint 使用路由模板避免标签爆炸
func MetricsMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			metrics.StatusCategory(c.Writer.Status()),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
