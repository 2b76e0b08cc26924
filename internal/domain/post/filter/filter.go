// Package filter 把帖子列表的查询参数转换为过滤条件
// 每个条件既能生成 SQL，也能在内存中判断，两种存储共用同一份定义
package filter

import (
	"strings"

	"blog_api/internal/domain/post/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Params 列表过滤参数，零值表示不过滤
type Params struct {
	Search     string
	Tags       []string
	IsFeatured *bool
	Status     string
	AuthorID   string
}

// Clause 单个过滤条件，多个条件之间为 AND
type Clause interface {
	Apply(db *gorm.DB) *gorm.DB
	Match(p *model.Post) bool
}

// Build 生成过滤条件，顺序固定：search, tags, isFeatured, status, authorId
func Build(params Params) []Clause {
	clauses := make([]Clause, 0, 5)

	if params.Search != "" {
		clauses = append(clauses, searchClause{term: params.Search})
	}
	if tags := compactTags(params.Tags); len(tags) > 0 {
		clauses = append(clauses, tagsClause{tags: tags})
	}
	if params.IsFeatured != nil {
		clauses = append(clauses, featuredClause{featured: *params.IsFeatured})
	}
	// 未知状态视为未传
	if status, ok := model.ParseStatus(params.Status); ok {
		clauses = append(clauses, statusClause{status: status})
	}
	// 非法 uuid 视为未传
	if _, err := uuid.Parse(params.AuthorID); err == nil {
		clauses = append(clauses, authorClause{authorID: params.AuthorID})
	}

	return clauses
}

// Scope 合并为 gorm scope
func Scope(clauses []Clause) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			db = c.Apply(db)
		}
		return db
	}
}

// MatchAll 内存判断
func MatchAll(clauses []Clause, p *model.Post) bool {
	for _, c := range clauses {
		if !c.Match(p) {
			return false
		}
	}
	return true
}

// ParseTags 解析逗号分隔的标签
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return compactTags(strings.Split(raw, ","))
}

// ParseBool 只接受 "true"/"false"，其余视为未传
func ParseBool(raw string) *bool {
	var v bool
	switch raw {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil
	}
	return &v
}

func compactTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type searchClause struct{ term string }

func (c searchClause) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(c.term) + "%"
	return db.Where("(posts.title ILIKE ? OR posts.content ILIKE ? OR ? = ANY(posts.tags))", pattern, pattern, c.term)
}

func (c searchClause) Match(p *model.Post) bool {
	term := strings.ToLower(c.term)
	if strings.Contains(strings.ToLower(p.Title), term) || strings.Contains(strings.ToLower(p.Content), term) {
		return true
	}
	for _, tag := range p.Tags {
		if tag == c.term {
			return true
		}
	}
	return false
}

type tagsClause struct{ tags []string }

func (c tagsClause) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("posts.tags @> ?", pq.StringArray(c.tags))
}

func (c tagsClause) Match(p *model.Post) bool {
	have := make(map[string]struct{}, len(p.Tags))
	for _, tag := range p.Tags {
		have[tag] = struct{}{}
	}
	for _, tag := range c.tags {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}

type featuredClause struct{ featured bool }

func (c featuredClause) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("posts.is_featured = ?", c.featured)
}

func (c featuredClause) Match(p *model.Post) bool {
	return p.IsFeatured == c.featured
}

type statusClause struct{ status model.Status }

func (c statusClause) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("posts.status = ?", c.status)
}

func (c statusClause) Match(p *model.Post) bool {
	return p.Status == c.status
}

type authorClause struct{ authorID string }

func (c authorClause) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("posts.author_id = ?", c.authorID)
}

func (c authorClause) Match(p *model.Post) bool {
	return p.AuthorID == c.authorID
}
