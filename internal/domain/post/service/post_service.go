package service

import (
	"context"
	"strings"

	commentModel "blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/post/filter"
	"blog_api/internal/domain/post/model"
	"blog_api/internal/domain/post/repository"
	userModel "blog_api/internal/domain/user/model"
	"blog_api/internal/pkg/apperror"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/pkg/moderation"
	"blog_api/pkg/database"
	"blog_api/pkg/logger"
	"blog_api/pkg/metrics"
	"blog_api/pkg/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// UserDirectory 查询作者状态
type UserDirectory interface {
	GetActiveByID(ctx context.Context, id string) (*userModel.User, error)
}

// ThreadLoader 加载帖子评论树
type ThreadLoader interface {
	Thread(ctx context.Context, postID string) ([]*commentModel.Comment, error)
}

type PostService interface {
	Create(ctx context.Context, principal identity.Principal, input *model.CreatePostInput) (*model.Post, error)
	List(ctx context.Context, params filter.Params, page utils.PageOptions) (*utils.PageResult, error)
	// GetByID 浏览量 +1 并返回帖子与评论树
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)
	GetMine(ctx context.Context, principal identity.Principal) ([]*model.Post, error)
	Update(ctx context.Context, id string, patch *model.PostPatch, principal identity.Principal) (*model.Post, error)
	Delete(ctx context.Context, id string, principal identity.Principal) error
	GetStats(ctx context.Context) (*model.Stats, error)
}

type postService struct {
	repo    repository.PostRepository
	stats   repository.StatsRepository
	users   UserDirectory
	threads ThreadLoader
	tx      database.Transactor
	events  metrics.Recorder
}

func NewPostService(
	repo repository.PostRepository,
	stats repository.StatsRepository,
	users UserDirectory,
	threads ThreadLoader,
	tx database.Transactor,
	events metrics.Recorder,
) PostService {
	if events == nil {
		events = metrics.Nop
	}
	return &postService{
		repo:    repo,
		stats:   stats,
		users:   users,
		threads: threads,
		tx:      tx,
		events:  events,
	}
}

const (
	msgPostNotFound = "Post not found"
	msgUserNotFound = "User not found or inactive"
)

func (s *postService) Create(ctx context.Context, principal identity.Principal, input *model.CreatePostInput) (*model.Post, error) {
	if _, err := s.users.GetActiveByID(ctx, principal.ID); err != nil {
		return nil, apperror.FromDB(err, msgUserNotFound)
	}

	moderation.Sanitize(principal, input)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.Validation("Post title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperror.Validation("Post content is required")
	}

	post := &model.Post{
		AuthorID:  principal.ID,
		Title:     title,
		Content:   input.Content,
		Thumbnail: input.Thumbnail,
		Tags:      append(pq.StringArray{}, input.Tags...),
		Status:    model.StatusPublished,
	}
	if input.Status != nil {
		status, ok := model.ParseStatus(string(*input.Status))
		if !ok {
			return nil, apperror.Validation("Invalid post status")
		}
		post.Status = status
	}
	if input.IsFeatured != nil {
		post.IsFeatured = *input.IsFeatured
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, apperror.FromDB(err, msgUserNotFound)
	}

	s.events.RecordContentEvent("post", "create")
	return post, nil
}

func (s *postService) List(ctx context.Context, params filter.Params, page utils.PageOptions) (*utils.PageResult, error) {
	clauses := filter.Build(params)

	// 分页数据与总数为两次独立查询
	posts, err := s.repo.List(ctx, clauses, page)
	if err != nil {
		return nil, apperror.FromDB(err, msgPostNotFound)
	}
	total, err := s.repo.Count(ctx, clauses)
	if err != nil {
		return nil, apperror.FromDB(err, msgPostNotFound)
	}

	if posts == nil {
		posts = []*model.Post{}
	}
	return utils.NewPageResult(posts, total, page), nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post *model.Post
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			return err
		}

		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		thread, err := s.threads.Thread(ctx, id)
		if err != nil {
			return err
		}
		p.Comments = thread
		post = p
		return nil
	})
	if err != nil {
		return nil, apperror.FromDB(err, msgPostNotFound)
	}
	return post, nil
}

func (s *postService) GetByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	if _, err := s.users.GetActiveByID(ctx, authorID); err != nil {
		return nil, apperror.FromDB(err, msgUserNotFound)
	}

	posts, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperror.FromDB(err, msgPostNotFound)
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

func (s *postService) GetMine(ctx context.Context, principal identity.Principal) ([]*model.Post, error) {
	return s.GetByAuthor(ctx, principal.ID)
}

func (s *postService) Update(ctx context.Context, id string, patch *model.PostPatch, principal identity.Principal) (*model.Post, error) {
	owner, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return nil, apperror.FromDB(err, msgPostNotFound)
	}
	if err := moderation.Authorize(principal, owner); err != nil {
		return nil, err
	}
	moderation.Sanitize(principal, patch)

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	post, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperror.FromDB(err, msgPostNotFound)
	}

	s.events.RecordContentEvent("post", "update")
	return post, nil
}

func validatePatch(patch *model.PostPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return apperror.Validation("Post title cannot be empty")
		}
		patch.Title = &title
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return apperror.Validation("Post content cannot be empty")
	}
	if patch.Status != nil {
		if _, ok := model.ParseStatus(string(*patch.Status)); !ok {
			return apperror.Validation("Invalid post status")
		}
	}
	return nil
}

func (s *postService) Delete(ctx context.Context, id string, principal identity.Principal) error {
	owner, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return apperror.FromDB(err, msgPostNotFound)
	}
	if err := moderation.Authorize(principal, owner); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.FromDB(err, msgPostNotFound)
	}

	logger.Log.Info("post deleted",
		zap.String("post_id", id),
		zap.String("by", principal.ID),
		zap.Bool("admin", principal.IsAdmin()),
	)
	s.events.RecordContentEvent("post", "delete")
	return nil
}

func (s *postService) GetStats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, apperror.FromDB(err, "Statistics unavailable")
	}
	return stats, nil
}
