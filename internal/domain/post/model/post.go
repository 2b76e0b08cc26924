package model

import (
	commentModel "blog_api/internal/domain/comment/model"
	baseModel "blog_api/pkg/model"

	"github.com/lib/pq"
)

// Status 帖子状态
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// ParseStatus 校验状态字符串
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusDraft, StatusPublished, StatusArchived:
		return st, true
	default:
		return "", false
	}
}

// Post 帖子模型
type Post struct {
	baseModel.BaseModel
	AuthorID   string         `gorm:"type:uuid;not null;index" json:"authorId"`
	Title      string         `gorm:"type:varchar(225);not null" json:"title"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Thumbnail  *string        `json:"thumbnail"`
	Tags       pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	Status     Status         `gorm:"type:varchar(16);not null;default:PUBLISHED" json:"status"`
	IsFeatured bool           `gorm:"not null;default:false" json:"isFeatured"`
	Views      int64          `gorm:"not null;default:0" json:"views"`

	// 只读，由查询计算
	CommentCount int64 `gorm:"->;-:migration" json:"commentCount"`

	// 详情接口返回的评论树
	Comments []*commentModel.Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// CreatePostInput 创建帖子
type CreatePostInput struct {
	Title      string   `json:"title" binding:"required,max=225"`
	Content    string   `json:"content" binding:"required"`
	Thumbnail  *string  `json:"thumbnail"`
	Tags       []string `json:"tags"`
	Status     *Status  `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	IsFeatured *bool    `json:"isFeatured"`
}

// SanitizeAdminFields 去掉仅管理员可设置的字段
func (in *CreatePostInput) SanitizeAdminFields() {
	in.IsFeatured = nil
}

// PostPatch 部分更新，nil 表示不修改
type PostPatch struct {
	Title      *string   `json:"title" binding:"omitempty,max=225"`
	Content    *string   `json:"content"`
	Thumbnail  *string   `json:"thumbnail"`
	Tags       *[]string `json:"tags"`
	Status     *Status   `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	IsFeatured *bool     `json:"isFeatured"`
}

// SanitizeAdminFields 去掉仅管理员可修改的字段
func (p *PostPatch) SanitizeAdminFields() {
	p.IsFeatured = nil
}

// Columns 转换为列更新
func (p *PostPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.Thumbnail != nil {
		cols["thumbnail"] = *p.Thumbnail
	}
	if p.Tags != nil {
		cols["tags"] = pq.StringArray(*p.Tags)
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.IsFeatured != nil {
		cols["is_featured"] = *p.IsFeatured
	}
	return cols
}

// Apply 在内存对象上应用更新
func (p *PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Thumbnail != nil {
		thumbnail := *p.Thumbnail
		post.Thumbnail = &thumbnail
	}
	if p.Tags != nil {
		post.Tags = append(pq.StringArray{}, *p.Tags...)
	}
	if p.Status != nil {
		post.Status = *p.Status
	}
	if p.IsFeatured != nil {
		post.IsFeatured = *p.IsFeatured
	}
}

// Stats 全站统计
type Stats struct {
	TotalPosts       int64 `json:"totalPosts"`
	PublishedPosts   int64 `json:"publishedPosts"`
	DraftPosts       int64 `json:"draftPosts"`
	ArchivedPosts    int64 `json:"archivedPosts"`
	TotalComments    int64 `json:"totalComments"`
	ApprovedComments int64 `json:"approvedComments"`
	RejectedComments int64 `json:"rejectedComments"`
	TotalUsers       int64 `json:"totalUsers"`
	AdminCount       int64 `json:"adminCount"`
	UserCount        int64 `json:"userCount"`
	TotalViews       int64 `json:"totalViews"`
}
