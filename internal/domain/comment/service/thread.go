package service

import (
	"context"

	"blog_api/internal/domain/comment/model"
	"blog_api/internal/domain/comment/repository"
)

// ThreadLoader 组装帖子评论树：一级评论新的在前，下面展开两层回复，旧的在前
// 更深的回复仍然存在，但不在评论树中返回
type ThreadLoader struct {
	repo repository.CommentRepository
}

func NewThreadLoader(repo repository.CommentRepository) *ThreadLoader {
	return &ThreadLoader{repo: repo}
}

// replyDepth 展开的回复层数
const replyDepth = 2

func (l *ThreadLoader) Thread(ctx context.Context, postID string) ([]*model.Comment, error) {
	roots, err := l.repo.ListApprovedRoots(ctx, postID)
	if err != nil {
		return nil, err
	}
	if roots == nil {
		roots = []*model.Comment{}
	}

	level := roots
	for depth := 0; depth < replyDepth && len(level) > 0; depth++ {
		level, err = l.attachReplies(ctx, level)
		if err != nil {
			return nil, err
		}
	}
	return roots, nil
}

// attachReplies 批量查询 parents 的直接回复并挂载，返回下一层
func (l *ThreadLoader) attachReplies(ctx context.Context, parents []*model.Comment) ([]*model.Comment, error) {
	ids := make([]string, 0, len(parents))
	for _, p := range parents {
		ids = append(ids, p.ID)
	}

	children, err := l.repo.ListApprovedReplies(ctx, ids)
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]*model.Comment, len(parents))
	for _, c := range children {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}
	for _, p := range parents {
		p.Replies = byParent[p.ID]
		if p.Replies == nil {
			p.Replies = []*model.Comment{}
		}
	}
	return children, nil
}
