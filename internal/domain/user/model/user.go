package model

import (
	"blog_api/internal/pkg/identity"
	baseModel "blog_api/pkg/model"
)

// Status 用户状态
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
	StatusDeleted Status = "DELETED"
)

// User 用户模型，由身份服务维护，内容服务只读
type User struct {
	baseModel.BaseModel
	Name          string        `gorm:"not null" json:"name"`
	Email         string        `gorm:"uniqueIndex;not null" json:"email"`
	EmailVerified bool          `gorm:"not null;default:false" json:"emailVerified"`
	Role          identity.Role `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	Status        Status        `gorm:"type:varchar(16);not null;default:ACTIVE" json:"status"`
	Phone         *string       `json:"phone,omitempty"`
}

// IsActive 是否为正常状态
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Principal 转换为调用方身份
func (u *User) Principal() identity.Principal {
	return identity.Principal{
		ID:            u.ID,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		Status:        string(u.Status),
	}
}
