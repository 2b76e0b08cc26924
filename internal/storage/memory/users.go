package memory

import (
	"context"

	"blog_api/internal/domain/user/model"
	"blog_api/internal/domain/user/repository"
	"blog_api/internal/pkg/identity"

	"gorm.io/gorm"
)

type userRepo struct {
	s *Store
}

// Users 用户仓储
func (s *Store) Users() repository.UserRepository {
	return &userRepo{s: s}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	defer r.s.lock(ctx)()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}

	user.EnsureID()
	if _, exists := r.s.users[user.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if user.Role == "" {
		user.Role = identity.RoleUser
	}
	if user.Status == "" {
		user.Status = model.StatusActive
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now

	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	defer r.s.rlock(ctx)()

	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetActiveByID(ctx context.Context, id string) (*model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer r.s.rlock(ctx)()

	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
