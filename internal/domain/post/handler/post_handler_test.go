package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog_api/internal/domain/post/filter"
	"blog_api/internal/domain/post/model"
	"blog_api/internal/domain/post/service"
	"blog_api/internal/pkg/identity"
	"blog_api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostService is a mock of PostService
type MockPostService struct {
	mock.Mock
}

var _ service.PostService = (*MockPostService)(nil)

func (m *MockPostService) Create(ctx context.Context, p identity.Principal, input *model.CreatePostInput) (*model.Post, error) {
	args := m.Called(ctx, p, input)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostService) List(ctx context.Context, params filter.Params, page utils.PageOptions) (*utils.PageResult, error) {
	args := m.Called(ctx, params, page)
	result, _ := args.Get(0).(*utils.PageResult)
	return result, args.Error(1)
}

func (m *MockPostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostService) GetByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	args := m.Called(ctx, authorID)
	posts, _ := args.Get(0).([]*model.Post)
	return posts, args.Error(1)
}

func (m *MockPostService) GetMine(ctx context.Context, p identity.Principal) ([]*model.Post, error) {
	args := m.Called(ctx, p)
	posts, _ := args.Get(0).([]*model.Post)
	return posts, args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, id string, patch *model.PostPatch, p identity.Principal) (*model.Post, error) {
	args := m.Called(ctx, id, patch, p)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, id string, p identity.Principal) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *MockPostService) GetStats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.Stats)
	return stats, args.Error(1)
}

func TestGetAllPosts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("query parsed and normalized", func(t *testing.T) {
		svc := new(MockPostService)
		r := gin.New()
		r.GET("/posts", NewPostHandler(svc, 100).GetAllPosts)

		svc.On("List", mock.Anything,
			mock.MatchedBy(func(p filter.Params) bool {
				return p.Search == "go" &&
					assert.ObjectsAreEqual([]string{"a", "b"}, p.Tags) &&
					p.IsFeatured != nil && *p.IsFeatured &&
					p.Status == "DRAFT" && p.AuthorID == "x"
			}),
			mock.MatchedBy(func(o utils.PageOptions) bool {
				return o.Page == 1 && o.Limit == 100 && o.SortBy == "title" && o.SortOrder == "asc"
			}),
		).Return(&utils.PageResult{Data: []*model.Post{}}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/posts?page=abc&limit=500&sortBy=title&sortOrder=ASC&search=go&tags=a,b&isFeatured=true&status=DRAFT&authorId=x", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("repeated and empty params", func(t *testing.T) {
		svc := new(MockPostService)
		r := gin.New()
		r.GET("/posts", NewPostHandler(svc, 100).GetAllPosts)

		svc.On("List", mock.Anything,
			mock.MatchedBy(func(p filter.Params) bool { return p.IsFeatured == nil && p.Tags == nil }),
			mock.MatchedBy(func(o utils.PageOptions) bool { return o.Page == 2 && o.Limit == 10 }),
		).Return(&utils.PageResult{Data: []*model.Post{}}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts?page=2&page=9&isFeatured=&tags=", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}
