package memory

import (
	"context"
	"sort"

	"blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/comment/repository"

	"gorm.io/gorm"
)

type commentRepo struct {
	s *Store
}

// Comments 评论仓储
func (s *Store) Comments() repository.CommentRepository {
	return &commentRepo{s: s}
}

func copyComment(c *model.Comment) *model.Comment {
	cp := *c
	cp.Replies = nil
	cp.Post = nil
	if c.ParentID != nil {
		parentID := *c.ParentID
		cp.ParentID = &parentID
	}
	return &cp
}

// withPost 附带帖子摘要；调用方需持有锁
func (s *Store) withPost(c *model.Comment) *model.Comment {
	cp := copyComment(c)
	if p, ok := s.posts[c.PostID]; ok {
		cp.Post = &model.PostSummary{ID: p.ID, Title: p.Title, Views: p.Views}
	}
	return cp
}

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.posts[comment.PostID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if _, ok := r.s.users[comment.AuthorID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if comment.ParentID != nil {
		if _, ok := r.s.comments[*comment.ParentID]; !ok {
			return gorm.ErrForeignKeyViolated
		}
	}

	comment.EnsureID()
	if _, exists := r.s.comments[comment.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if comment.Status == "" {
		comment.Status = model.StatusApproved
	}
	now := r.s.now()
	comment.CreatedAt, comment.UpdatedAt = now, now

	r.s.comments[comment.ID] = copyComment(comment)
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	defer r.s.rlock(ctx)()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.s.withPost(c), nil
}

func (r *commentRepo) GetOwner(ctx context.Context, id string) (string, error) {
	defer r.s.rlock(ctx)()

	c, ok := r.s.comments[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return c.AuthorID, nil
}

func (r *commentRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Comment, error) {
	defer r.s.rlock(ctx)()

	out := make([]*model.Comment, 0)
	for _, c := range r.s.comments {
		if c.AuthorID == authorID {
			out = append(out, r.s.withPost(c))
		}
	}
	sortComments(out, true)
	return out, nil
}

func (r *commentRepo) Update(ctx context.Context, id string, patch *model.CommentPatch) (*model.Comment, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !patch.Empty() {
		patch.Apply(c)
		c.UpdatedAt = r.s.now()
	}
	return r.s.withPost(c), nil
}

func (r *commentRepo) DeleteSubtree(ctx context.Context, id string) (int64, error) {
	defer r.s.lock(ctx)()

	if _, ok := r.s.comments[id]; !ok {
		return 0, gorm.ErrRecordNotFound
	}

	// 广度优先收集所有后代
	doomed := []string{id}
	for i := 0; i < len(doomed); i++ {
		for cid, c := range r.s.comments {
			if c.ParentID != nil && *c.ParentID == doomed[i] {
				doomed = append(doomed, cid)
			}
		}
	}
	for _, cid := range doomed {
		delete(r.s.comments, cid)
	}
	return int64(len(doomed)), nil
}

func (r *commentRepo) ListApprovedRoots(ctx context.Context, postID string) ([]*model.Comment, error) {
	defer r.s.rlock(ctx)()

	out := make([]*model.Comment, 0)
	for _, c := range r.s.comments {
		if c.PostID == postID && c.ParentID == nil && c.Status == model.StatusApproved {
			out = append(out, copyComment(c))
		}
	}
	sortComments(out, true)
	return out, nil
}

func (r *commentRepo) ListApprovedReplies(ctx context.Context, parentIDs []string) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	defer r.s.rlock(ctx)()

	parents := make(map[string]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = struct{}{}
	}

	out := make([]*model.Comment, 0)
	for _, c := range r.s.comments {
		if c.ParentID == nil || c.Status != model.StatusApproved {
			continue
		}
		if _, ok := parents[*c.ParentID]; ok {
			out = append(out, copyComment(c))
		}
	}
	sortComments(out, false)
	return out, nil
}

func (r *commentRepo) PostExists(ctx context.Context, postID string) (bool, error) {
	defer r.s.rlock(ctx)()

	_, ok := r.s.posts[postID]
	return ok, nil
}

func sortComments(list []*model.Comment, newestFirst bool) {
	sort.Slice(list, func(i, j int) bool {
		if newestFirst {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
