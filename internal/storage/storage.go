// Package storage 按配置组装仓储实现
package storage

import (
	"context"
	"errors"
	"fmt"

	commentRepo "blog_api/internal/domain/comment/repository"
	postRepo "blog_api/internal/domain/post/repository"
	userModel "blog_api/internal/domain/user/model"
	userRepo "blog_api/internal/domain/user/repository"
	"blog_api/internal/pkg/config"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/storage/memory"
	"blog_api/pkg/database"

	"gorm.io/gorm"
)

// Backend 一组共享同一事务语义的仓储
type Backend struct {
	Users    userRepo.UserRepository
	Posts    postRepo.PostRepository
	Stats    postRepo.StatsRepository
	Comments commentRepo.CommentRepository
	Tx       database.Transactor

	// DB 内存模式下为 nil
	DB *gorm.DB
}

// NewGorm PostgreSQL 实现
func NewGorm(db *gorm.DB) *Backend {
	return &Backend{
		Users:    userRepo.NewUserRepository(db),
		Posts:    postRepo.NewPostRepository(db),
		Stats:    postRepo.NewStatsRepository(db),
		Comments: commentRepo.NewCommentRepository(db),
		Tx:       database.NewTransactor(db),
		DB:       db,
	}
}

// NewMemory 内存实现
func NewMemory() *Backend {
	store := memory.NewStore()
	return &Backend{
		Users:    store.Users(),
		Posts:    store.Posts(),
		Stats:    store.Stats(),
		Comments: store.Comments(),
		Tx:       store,
	}
}

// Open 按 database.driver 选择实现
func Open(cfg config.DatabaseConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverPostgres, "":
		db, err := database.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return NewGorm(db), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Close 释放连接
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedAdmin 创建管理员，邮箱已存在时返回已有用户
func SeedAdmin(ctx context.Context, users userRepo.UserRepository, name, email string) (*userModel.User, bool, error) {
	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	admin := &userModel.User{
		Name:          name,
		Email:         email,
		EmailVerified: true,
		Role:          identity.RoleAdmin,
		Status:        userModel.StatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}
