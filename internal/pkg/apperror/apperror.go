package apperror

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind 错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
	KindDependency
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthorization:
		return "Authorization"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindDependency:
		return "DependencyError"
	case KindUpstream:
		return "UpstreamUnavailable"
	default:
		return "Internal"
	}
}

// HTTPStatus 错误分类对应的 HTTP 状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindDependency:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error 业务错误，Message 可直接返回给调用方，Err 为内部原因
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error    { return New(KindValidation, msg) }
func Authorization(msg string) *Error { return New(KindAuthorization, msg) }
func NotFound(msg string) *Error      { return New(KindNotFound, msg) }
func Conflict(msg string) *Error      { return New(KindConflict, msg) }

// KindOf 取出错误分类，非业务错误一律视为 Internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is 判断错误是否属于指定分类
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// FromDB 将持久层错误转换为业务错误
// notFoundMsg 用于记录不存在时的提示
func FromDB(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(KindNotFound, notFoundMsg, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Wrap(KindConflict, "Duplicate key error", err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return Wrap(KindDependency, "Foreign key constraint error", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return Wrap(KindConflict, "Duplicate key error", err)
		case pgErr.Code == pgForeignKeyViolation:
			return Wrap(KindDependency, "Foreign key constraint error", err)
		case pgErr.Code == pgInvalidText:
			// 非法 uuid 等，与记录不存在同样处理
			return Wrap(KindNotFound, notFoundMsg, err)
		case pgErr.Code == pgNotNullViolation, pgErr.Code == pgCheckViolation:
			return Wrap(KindValidation, "You provided incorrect field type or missing fields", err)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			// 08xxx 连接异常, 57Pxx 数据库关闭/重启
			return Wrap(KindUpstream, "Database unavailable", err)
		}
	}

	if isConnectionError(err) {
		return Wrap(KindUpstream, "Database unavailable", err)
	}

	return Wrap(KindInternal, "Internal server error", err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
