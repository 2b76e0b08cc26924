package repository

import (
	"context"

	"blog_api/internal/domain/comment/model"
	"blog_api/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// GetByID 带帖子摘要
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	GetOwner(ctx context.Context, id string) (string, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Comment, error)
	Update(ctx context.Context, id string, patch *model.CommentPatch) (*model.Comment, error)
	// DeleteSubtree 删除评论及其所有后代，返回删除条数
	DeleteSubtree(ctx context.Context, id string) (int64, error)

	// ListApprovedRoots 帖子下已通过的一级评论，新的在前
	ListApprovedRoots(ctx context.Context, postID string) ([]*model.Comment, error)
	// ListApprovedReplies 批量查询已通过的直接回复，旧的在前
	ListApprovedReplies(ctx context.Context, parentIDs []string) ([]*model.Comment, error)

	PostExists(ctx context.Context, postID string) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func withPostSummary(db *gorm.DB) *gorm.DB {
	return db.Preload("Post", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "title", "views")
	})
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := database.Conn(ctx, r.db).
		Scopes(withPostSummary).
		Where("id = ?", id).
		Take(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) GetOwner(ctx context.Context, id string) (string, error) {
	var comment model.Comment
	err := database.Conn(ctx, r.db).
		Select("id", "author_id").
		Where("id = ?", id).
		Take(&comment).Error
	if err != nil {
		return "", err
	}
	return comment.AuthorID, nil
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID string) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := database.Conn(ctx, r.db).
		Scopes(withPostSummary).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, id string, patch *model.CommentPatch) (*model.Comment, error) {
	if cols := patch.Columns(); len(cols) > 0 {
		result := database.Conn(ctx, r.db).
			Model(&model.Comment{}).
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

const deleteSubtreeSQL = `
WITH RECURSIVE subtree AS (
	SELECT id FROM comments WHERE id = ?
	UNION ALL
	SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
)
DELETE FROM comments WHERE id IN (SELECT id FROM subtree)`

func (r *commentRepository) DeleteSubtree(ctx context.Context, id string) (int64, error) {
	result := database.Conn(ctx, r.db).Exec(deleteSubtreeSQL, id)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return result.RowsAffected, nil
}

func (r *commentRepository) ListApprovedRoots(ctx context.Context, postID string) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := database.Conn(ctx, r.db).
		Where("post_id = ? AND parent_id IS NULL AND status = ?", postID, model.StatusApproved).
		Order("created_at desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListApprovedReplies(ctx context.Context, parentIDs []string) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var comments []*model.Comment
	err := database.Conn(ctx, r.db).
		Where("parent_id IN ? AND status = ?", parentIDs, model.StatusApproved).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) PostExists(ctx context.Context, postID string) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&model.PostSummary{}).
		Where("id = ?", postID).
		Count(&count).Error
	return count > 0, err
}
