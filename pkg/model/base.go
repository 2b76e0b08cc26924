package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 基础模型，使用 UUID 作为主键
// 帖子与评论为物理删除，不带 DeletedAt
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate 钩子：生成 UUID
func (b *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	b.EnsureID()
	return
}

// EnsureID 补全主键（内存存储也复用）
func (b *BaseModel) EnsureID() {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
}
