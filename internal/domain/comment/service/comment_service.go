package service

import (
	"context"
	"fmt"
	"strings"

	"blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/comment/repository"
	userModel "blog_api/internal/domain/user/model"
	"blog_api/internal/pkg/apperror"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/pkg/moderation"
	"blog_api/pkg/logger"
	"blog_api/pkg/metrics"

	"go.uber.org/zap"
)

// UserDirectory 查询作者状态
type UserDirectory interface {
	GetActiveByID(ctx context.Context, id string) (*userModel.User, error)
}

type CommentService interface {
	Create(ctx context.Context, principal identity.Principal, input *model.CreateCommentInput) (*model.Comment, error)
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	GetByAuthor(ctx context.Context, authorID string) ([]*model.Comment, error)
	Update(ctx context.Context, id string, patch *model.CommentPatch, principal identity.Principal) (*model.Comment, error)
	Delete(ctx context.Context, id string, principal identity.Principal) error
	Moderate(ctx context.Context, id string, status string, principal identity.Principal) (*model.Comment, error)
}

type commentService struct {
	repo          repository.CommentRepository
	users         UserDirectory
	defaultStatus model.Status
	events        metrics.Recorder
}

func NewCommentService(repo repository.CommentRepository, users UserDirectory, defaultStatus model.Status, events metrics.Recorder) CommentService {
	if _, ok := model.ParseStatus(string(defaultStatus)); !ok {
		defaultStatus = model.StatusApproved
	}
	if events == nil {
		events = metrics.Nop
	}
	return &commentService{
		repo:          repo,
		users:         users,
		defaultStatus: defaultStatus,
		events:        events,
	}
}

const (
	msgCommentNotFound = "Comment not found"
	msgUserNotFound    = "User not found or inactive"
)

func (s *commentService) Create(ctx context.Context, principal identity.Principal, input *model.CreateCommentInput) (*model.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperror.Validation("Comment content is required")
	}

	if _, err := s.users.GetActiveByID(ctx, principal.ID); err != nil {
		return nil, apperror.FromDB(err, msgUserNotFound)
	}

	exists, err := s.repo.PostExists(ctx, input.PostID)
	if err != nil {
		return nil, apperror.FromDB(err, "Post not found")
	}
	if !exists {
		return nil, apperror.NotFound("Post not found")
	}

	var parentID *string
	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := s.repo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, apperror.FromDB(err, "Parent comment not found")
		}
		// 回复必须属于同一个帖子
		if parent.PostID != input.PostID {
			return nil, apperror.Validation("Parent comment does not belong to this post")
		}
		parentID = &parent.ID
	}

	comment := &model.Comment{
		PostID:   input.PostID,
		AuthorID: principal.ID,
		ParentID: parentID,
		Content:  content,
		Status:   s.defaultStatus,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, apperror.FromDB(err, "Post not found")
	}

	s.events.RecordContentEvent("comment", "create")
	return comment, nil
}

func (s *commentService) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.FromDB(err, msgCommentNotFound)
	}
	return comment, nil
}

func (s *commentService) GetByAuthor(ctx context.Context, authorID string) ([]*model.Comment, error) {
	comments, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperror.FromDB(err, msgUserNotFound)
	}
	return comments, nil
}

func (s *commentService) Update(ctx context.Context, id string, patch *model.CommentPatch, principal identity.Principal) (*model.Comment, error) {
	owner, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return nil, apperror.FromDB(err, msgCommentNotFound)
	}
	if err := moderation.Authorize(principal, owner); err != nil {
		return nil, err
	}
	moderation.Sanitize(principal, patch)

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	comment, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperror.FromDB(err, msgCommentNotFound)
	}

	s.events.RecordContentEvent("comment", "update")
	return comment, nil
}

func validatePatch(patch *model.CommentPatch) error {
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return apperror.Validation("Comment content cannot be empty")
		}
		patch.Content = &content
	}
	if patch.Status != nil {
		if _, ok := model.ParseStatus(string(*patch.Status)); !ok {
			return apperror.Validation("Invalid comment status")
		}
	}
	return nil
}

func (s *commentService) Delete(ctx context.Context, id string, principal identity.Principal) error {
	owner, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return apperror.FromDB(err, msgCommentNotFound)
	}
	if err := moderation.Authorize(principal, owner); err != nil {
		return err
	}

	removed, err := s.repo.DeleteSubtree(ctx, id)
	if err != nil {
		return apperror.FromDB(err, msgCommentNotFound)
	}

	logger.Log.Info("comment deleted",
		zap.String("comment_id", id),
		zap.String("by", principal.ID),
		zap.Int64("removed", removed),
	)
	s.events.RecordContentEvent("comment", "delete")
	return nil
}

func (s *commentService) Moderate(ctx context.Context, id string, status string, principal identity.Principal) (*model.Comment, error) {
	if err := moderation.RequireAdmin(principal); err != nil {
		return nil, err
	}

	next, ok := model.ParseStatus(status)
	if !ok {
		return nil, apperror.Validation("Invalid comment status")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.FromDB(err, msgCommentNotFound)
	}
	if current.Status == next {
		return nil, apperror.Validation(fmt.Sprintf("Your provided status (%s) is already up to date.", next))
	}

	comment, err := s.repo.Update(ctx, id, &model.CommentPatch{Status: &next})
	if err != nil {
		return nil, apperror.FromDB(err, msgCommentNotFound)
	}

	logger.Log.Info("comment moderated",
		zap.String("comment_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)),
		zap.String("by", principal.ID),
	)
	s.events.RecordContentEvent("comment", "moderate")
	return comment, nil
}
