package response

import (
	"errors"
	"net/http"

	"blog_api/internal/pkg/apperror"
	"blog_api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`            // 业务码
	Message string      `json:"message"`         // 提示信息
	Data    interface{} `json:"data"`            // 数据
	Error   interface{} `json:"error,omitempty"` // 错误分类或校验详情
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// FromError 按错误分类输出响应
// 对外只返回稳定的提示信息，内部原因写入日志
func FromError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Wrap(apperror.KindInternal, "Internal server error", err)
	}

	status := appErr.Kind.HTTPStatus()
	fields := []zap.Field{
		zap.String("kind", appErr.Kind.String()),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Log.Error(appErr.Message, fields...)
	} else {
		logger.Log.Debug(appErr.Message, fields...)
	}

	c.JSON(status, Response{
		Code:    codeForKind(appErr.Kind),
		Message: appErr.Message,
		Error:   appErr.Kind.String(),
	})
}

// BadRequest 参数校验失败
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    ErrInvalidParam,
		Message: "You provided incorrect field type or missing fields",
		Error:   err.Error(),
	})
}
