// Package identity 描述调用方身份，并提供 JWT 与 Redis 会话两种解析方式
package identity

import (
	"context"
	"errors"
)

// Role 角色，封闭枚举
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Principal 当前请求的调用方
type Principal struct {
	ID            string `json:"id"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
	Status        string `json:"status"`
}

// IsAdmin 是否管理员
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrSessionNotFound = errors.New("session not found or expired")
)

// Provider 根据令牌解析调用方
type Provider interface {
	Resolve(ctx context.Context, token string) (Principal, error)
}

// Issuer 为调用方签发令牌
type Issuer interface {
	Issue(ctx context.Context, p Principal) (string, error)
}

// Authority 同时具备解析与签发能力
type Authority interface {
	Provider
	Issuer
}
