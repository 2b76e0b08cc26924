package middleware

import (
	"fmt"
	"net/http"

	"blog_api/pkg/logger"
	"blog_api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandlePanics 配合 gin.CustomRecovery 使用
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Log.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", c.GetString(traceIDKey)),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.StackSkip("stack", 1),
		)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
		c.Abort()
	}
}
