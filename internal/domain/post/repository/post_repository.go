package repository

import (
	"context"

	"blog_api/internal/domain/post/filter"
	"blog_api/internal/domain/post/model"
	"blog_api/pkg/database"
	"blog_api/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// List 按过滤条件分页查询，带评论数
	List(ctx context.Context, clauses []filter.Clause, opts utils.PageOptions) ([]*model.Post, error)
	Count(ctx context.Context, clauses []filter.Clause) (int64, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// GetOwner 只查询作者ID，用于权限判断
	GetOwner(ctx context.Context, id string) (string, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)
	// IncrementViews views = views + 1，由数据库保证原子性
	IncrementViews(ctx context.Context, id string) error
	Update(ctx context.Context, id string, patch *model.PostPatch) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

// 允许排序的字段，未知字段按 createdAt
var sortColumns = map[string]string{
	"createdAt": "posts.created_at",
	"updatedAt": "posts.updated_at",
	"title":     "posts.title",
	"views":     "posts.views",
}

// SortColumn 排序字段白名单
func SortColumn(sortBy string) string {
	if col, ok := sortColumns[sortBy]; ok {
		return col
	}
	return sortColumns[utils.DefaultSortBy]
}

const selectWithCommentCount = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(post).Error
}

func (r *postRepository) List(ctx context.Context, clauses []filter.Clause, opts utils.PageOptions) ([]*model.Post, error) {
	var posts []*model.Post
	err := database.Conn(ctx, r.db).
		Model(&model.Post{}).
		Select(selectWithCommentCount).
		Scopes(filter.Scope(clauses)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: SortColumn(opts.SortBy), Raw: true}, Desc: opts.Desc()}).
		Order("posts.id").
		Offset(opts.Skip).
		Limit(opts.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, clauses []filter.Clause) (int64, error) {
	var total int64
	err := database.Conn(ctx, r.db).
		Model(&model.Post{}).
		Scopes(filter.Scope(clauses)).
		Count(&total).Error
	return total, err
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := database.Conn(ctx, r.db).
		Model(&model.Post{}).
		Select(selectWithCommentCount).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetOwner(ctx context.Context, id string) (string, error) {
	var post model.Post
	err := database.Conn(ctx, r.db).
		Select("id", "author_id").
		Where("id = ?", id).
		Take(&post).Error
	if err != nil {
		return "", err
	}
	return post.AuthorID, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	var posts []*model.Post
	err := database.Conn(ctx, r.db).
		Model(&model.Post{}).
		Select(selectWithCommentCount).
		Where("posts.author_id = ?", authorID).
		Order("posts.created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	result := database.Conn(ctx, r.db).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, id string, patch *model.PostPatch) (*model.Post, error) {
	if cols := patch.Columns(); len(cols) > 0 {
		result := database.Conn(ctx, r.db).
			Model(&model.Post{}).
			Where("id = ?", id).
			Updates(cols)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	// 评论由外键 ON DELETE CASCADE 一并删除
	result := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
