// Package memory 内存存储，用于测试与本地运行
// 行为与 PostgreSQL 实现保持一致：外键检查、级联删除、事务串行化
package memory

import (
	"context"
	"sync"
	"time"

	commentModel "blog_api/internal/domain/comment/model"
	postModel "blog_api/internal/domain/post/model"
	userModel "blog_api/internal/domain/user/model"
)

type txKey struct{}

// Store 所有仓储共享的数据
type Store struct {
	mu       sync.RWMutex
	users    map[string]*userModel.User
	posts    map[string]*postModel.Post
	comments map[string]*commentModel.Comment
	last     time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*userModel.User),
		posts:    make(map[string]*postModel.Post),
		comments: make(map[string]*commentModel.Comment),
	}
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(struct{})
	return ok
}

// lock 事务内已持有写锁，不再加锁
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// now 严格递增的时间戳，保证排序稳定；调用方需持有写锁
func (s *Store) now() time.Time {
	t := time.Now().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// RunInTransaction 持有写锁执行 fn，出错时恢复到执行前的数据
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users    map[string]userModel.User
	posts    map[string]postModel.Post
	comments map[string]commentModel.Comment
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		users:    make(map[string]userModel.User, len(s.users)),
		posts:    make(map[string]postModel.Post, len(s.posts)),
		comments: make(map[string]commentModel.Comment, len(s.comments)),
	}
	for id, u := range s.users {
		snap.users[id] = *u
	}
	for id, p := range s.posts {
		snap.posts[id] = *p
	}
	for id, c := range s.comments {
		snap.comments[id] = *c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.users = make(map[string]*userModel.User, len(snap.users))
	for id, u := range snap.users {
		u := u
		s.users[id] = &u
	}
	s.posts = make(map[string]*postModel.Post, len(snap.posts))
	for id, p := range snap.posts {
		p := p
		s.posts[id] = &p
	}
	s.comments = make(map[string]*commentModel.Comment, len(snap.comments))
	for id, c := range snap.comments {
		c := c
		s.comments[id] = &c
	}
}
