package model

import (
	baseModel "blog_api/pkg/model"
)

// Status 评论审核状态
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus 校验状态字符串
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

// Comment 评论模型，ParentID 为空表示一级评论
type Comment struct {
	baseModel.BaseModel
	PostID   string  `gorm:"type:uuid;not null;index" json:"postId"`
	AuthorID string  `gorm:"type:uuid;not null;index" json:"authorId"`
	ParentID *string `gorm:"type:uuid;index" json:"parentId"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	Status   Status  `gorm:"type:varchar(16);not null;default:APPROVED" json:"status"`

	// 关联
	Replies []*Comment   `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	Post    *PostSummary `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

// PostSummary 评论所属帖子的摘要
type PostSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

func (PostSummary) TableName() string {
	return "posts"
}

// CreateCommentInput 发表评论
type CreateCommentInput struct {
	PostID   string  `json:"postId" binding:"required"`
	ParentID *string `json:"parentId"`
	Content  string  `json:"content" binding:"required"`
}

// CommentPatch 部分更新，nil 表示不修改
type CommentPatch struct {
	Content *string `json:"content"`
	Status  *Status `json:"status"`
}

// SanitizeAdminFields 去掉仅管理员可改的字段
func (p *CommentPatch) SanitizeAdminFields() {
	p.Status = nil
}

// Empty 是否没有任何可更新字段
func (p *CommentPatch) Empty() bool {
	return p.Content == nil && p.Status == nil
}

// Columns 转换为列更新
func (p *CommentPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}

// Apply 在内存对象上应用更新
func (p *CommentPatch) Apply(c *Comment) {
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}
