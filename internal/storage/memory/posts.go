package memory

import (
	"context"
	"sort"
	"strings"

	commentModel "blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/post/filter"
	"blog_api/internal/domain/post/model"
	"blog_api/internal/domain/post/repository"
	"blog_api/internal/pkg/identity"
	"blog_api/pkg/utils"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type postRepo struct {
	s *Store
}

// Posts 帖子仓储
func (s *Store) Posts() repository.PostRepository {
	return &postRepo{s: s}
}

// copyPost 返回副本并填充评论数；调用方需持有锁
func (s *Store) copyPost(p *model.Post) *model.Post {
	cp := *p
	cp.Tags = append(pq.StringArray{}, p.Tags...)
	cp.Comments = nil
	cp.CommentCount = 0
	for _, c := range s.comments {
		if c.PostID == p.ID {
			cp.CommentCount++
		}
	}
	return &cp
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.users[post.AuthorID]; !ok {
		return gorm.ErrForeignKeyViolated
	}

	post.EnsureID()
	if _, exists := r.s.posts[post.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if post.Status == "" {
		post.Status = model.StatusPublished
	}
	if post.Tags == nil {
		post.Tags = pq.StringArray{}
	}
	now := r.s.now()
	post.CreatedAt, post.UpdatedAt = now, now

	stored := *post
	stored.Tags = append(pq.StringArray{}, post.Tags...)
	stored.Comments = nil
	stored.CommentCount = 0
	r.s.posts[post.ID] = &stored
	return nil
}

func (r *postRepo) matching(clauses []filter.Clause) []*model.Post {
	out := make([]*model.Post, 0)
	for _, p := range r.s.posts {
		if filter.MatchAll(clauses, p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *postRepo) List(ctx context.Context, clauses []filter.Clause, opts utils.PageOptions) ([]*model.Post, error) {
	defer r.s.rlock(ctx)()

	matched := r.matching(clauses)
	less := postLess(repository.SortColumn(opts.SortBy))
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if c := less(a, b); c != 0 {
			if opts.Desc() {
				return c > 0
			}
			return c < 0
		}
		return a.ID < b.ID
	})

	out := make([]*model.Post, 0, opts.Limit)
	for i := opts.Skip; i < len(matched) && len(out) < opts.Limit; i++ {
		out = append(out, r.s.copyPost(matched[i]))
	}
	return out, nil
}

// postLess 按排序列比较，返回 -1/0/1
func postLess(column string) func(a, b *model.Post) int {
	switch column {
	case "posts.updated_at":
		return func(a, b *model.Post) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case "posts.title":
		return func(a, b *model.Post) int { return strings.Compare(a.Title, b.Title) }
	case "posts.views":
		return func(a, b *model.Post) int {
			switch {
			case a.Views < b.Views:
				return -1
			case a.Views > b.Views:
				return 1
			default:
				return 0
			}
		}
	default:
		return func(a, b *model.Post) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

func (r *postRepo) Count(ctx context.Context, clauses []filter.Clause) (int64, error) {
	defer r.s.rlock(ctx)()
	return int64(len(r.matching(clauses))), nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	defer r.s.rlock(ctx)()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.s.copyPost(p), nil
}

func (r *postRepo) GetOwner(ctx context.Context, id string) (string, error) {
	defer r.s.rlock(ctx)()

	p, ok := r.s.posts[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return p.AuthorID, nil
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	defer r.s.rlock(ctx)()

	out := make([]*model.Post, 0)
	for _, p := range r.s.posts {
		if p.AuthorID == authorID {
			out = append(out, r.s.copyPost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *postRepo) IncrementViews(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	p, ok := r.s.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Views++
	return nil
}

func (r *postRepo) Update(ctx context.Context, id string, patch *model.PostPatch) (*model.Post, error) {
	defer r.s.lock(ctx)()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if len(patch.Columns()) > 0 {
		patch.Apply(p)
		p.UpdatedAt = r.s.now()
	}
	return r.s.copyPost(p), nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.posts, id)
	// 级联删除评论
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type statsRepo struct {
	s *Store
}

// Stats 统计仓储
func (s *Store) Stats() repository.StatsRepository {
	return &statsRepo{s: s}
}

func (r *statsRepo) Snapshot(ctx context.Context) (*model.Stats, error) {
	defer r.s.rlock(ctx)()

	var st model.Stats
	for _, p := range r.s.posts {
		st.TotalPosts++
		st.TotalViews += p.Views
		switch p.Status {
		case model.StatusPublished:
			st.PublishedPosts++
		case model.StatusDraft:
			st.DraftPosts++
		case model.StatusArchived:
			st.ArchivedPosts++
		}
	}
	for _, c := range r.s.comments {
		st.TotalComments++
		switch c.Status {
		case commentModel.StatusApproved:
			st.ApprovedComments++
		case commentModel.StatusRejected:
			st.RejectedComments++
		}
	}
	for _, u := range r.s.users {
		st.TotalUsers++
		switch u.Role {
		case identity.RoleAdmin:
			st.AdminCount++
		case identity.RoleUser:
			st.UserCount++
		}
	}
	return &st, nil
}
