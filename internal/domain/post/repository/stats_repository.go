package repository

import (
	"context"
	"database/sql"

	commentModel "blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/post/model"
	userModel "blog_api/internal/domain/user/model"
	"blog_api/internal/pkg/identity"

	"gorm.io/gorm"
)

type StatsRepository interface {
	// Snapshot 在同一个只读快照中读取所有统计项
	Snapshot(ctx context.Context) (*model.Stats, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Snapshot(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counts := []struct {
			query *gorm.DB
			dest  *int64
		}{
			{tx.Model(&model.Post{}), &stats.TotalPosts},
			{tx.Model(&model.Post{}).Where("status = ?", model.StatusPublished), &stats.PublishedPosts},
			{tx.Model(&model.Post{}).Where("status = ?", model.StatusDraft), &stats.DraftPosts},
			{tx.Model(&model.Post{}).Where("status = ?", model.StatusArchived), &stats.ArchivedPosts},
			{tx.Model(&commentModel.Comment{}), &stats.TotalComments},
			{tx.Model(&commentModel.Comment{}).Where("status = ?", commentModel.StatusApproved), &stats.ApprovedComments},
			{tx.Model(&commentModel.Comment{}).Where("status = ?", commentModel.StatusRejected), &stats.RejectedComments},
			{tx.Model(&userModel.User{}), &stats.TotalUsers},
			{tx.Model(&userModel.User{}).Where("role = ?", identity.RoleAdmin), &stats.AdminCount},
			{tx.Model(&userModel.User{}).Where("role = ?", identity.RoleUser), &stats.UserCount},
		}
		for _, c := range counts {
			if err := c.query.Count(c.dest).Error; err != nil {
				return err
			}
		}

		// 没有帖子时 SUM 为 NULL
		var views sql.NullInt64
		if err := tx.Model(&model.Post{}).Select("SUM(views)").Row().Scan(&views); err != nil {
			return err
		}
		stats.TotalViews = views.Int64
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
