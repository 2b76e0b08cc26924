package response

import "blog_api/internal/pkg/apperror"

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 认证 100xx
	ErrAuthRequired    = 10001
	ErrTokenInvalid    = 10002
	ErrNoPermission    = 10003
	ErrEmailUnverified = 10004

	// 内容 200xx
	ErrNotFound   = 20001
	ErrNotOwner   = 20002
	ErrConflict   = 20003
	ErrDependency = 20004

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrUpstream        = 50004
)

// codeForKind 错误分类对应的业务码
func codeForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return ErrInvalidParam
	case apperror.KindAuthorization:
		return ErrNotOwner
	case apperror.KindNotFound:
		return ErrNotFound
	case apperror.KindConflict:
		return ErrConflict
	case apperror.KindDependency:
		return ErrDependency
	case apperror.KindUpstream:
		return ErrUpstream
	default:
		return ErrServerInternal
	}
}
