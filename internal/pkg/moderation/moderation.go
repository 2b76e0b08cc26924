// Package moderation 判断调用方能否修改某条内容
package moderation

import (
	"blog_api/internal/pkg/apperror"
	"blog_api/internal/pkg/identity"
)

// CanMutate 管理员总是允许；普通用户只能修改自己的内容，且不能触碰管理员字段
func CanMutate(p identity.Principal, ownerID string, adminOnlyField bool) bool {
	switch p.Role {
	case identity.RoleAdmin:
		return true
	case identity.RoleUser:
		return p.ID != "" && ownerID == p.ID && !adminOnlyField
	default:
		return false
	}
}

// Authorize 所有权校验
func Authorize(p identity.Principal, ownerID string) error {
	if !CanMutate(p, ownerID, false) {
		return apperror.Authorization("You are not authorized to modify this resource")
	}
	return nil
}

// RequireAdmin 仅管理员
func RequireAdmin(p identity.Principal) error {
	if !CanMutate(p, "", true) {
		return apperror.Authorization("Admin permission required")
	}
	return nil
}

// Sanitizer 更新载荷中去除管理员字段
type Sanitizer interface {
	SanitizeAdminFields()
}

// Sanitize 非管理员提交时丢弃管理员字段
func Sanitize(p identity.Principal, patch Sanitizer) {
	if !p.IsAdmin() {
		patch.SanitizeAdminFields()
	}
}
