package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userModel "blog_api/internal/domain/user/model"
	"blog_api/internal/pkg/config"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/storage"
	"blog_api/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	issuer identity.Issuer
	users  map[string]string // 名称 -> token
	ids    map[string]string // 名称 -> 用户 ID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database:   config.DatabaseConfig{Driver: config.DriverMemory},
		Pagination: config.PaginationConfig{MaxLimit: 100},
		Comment:    config.CommentConfig{DefaultStatus: "APPROVED"},
		CORS:       config.CORSConfig{AllowOrigins: []string{"*"}},
	}
	backend := storage.NewMemory()
	provider := identity.NewJWTProvider("0123456789abcdef0123456789abcdef", "blog-api", time.Hour)

	r, err := New(cfg, backend, provider, metrics.NewMetricsCollector())
	require.NoError(t, err)

	ts := &testServer{t: t, router: r, issuer: provider, users: map[string]string{}, ids: map[string]string{}}
	ts.addUser(backend, "alice", identity.RoleUser, true)
	ts.addUser(backend, "bob", identity.RoleUser, true)
	ts.addUser(backend, "carol", identity.RoleUser, false)
	ts.addUser(backend, "admin", identity.RoleAdmin, true)
	return ts
}

func (ts *testServer) addUser(backend *storage.Backend, name string, role identity.Role, verified bool) {
	ctx := context.Background()
	u := &userModel.User{Name: name, Email: name + "@example.com", Role: role, EmailVerified: verified}
	require.NoError(ts.t, backend.Users.Create(ctx, u))

	token, err := ts.issuer.Issue(ctx, u.Principal())
	require.NoError(ts.t, err)
	ts.users[name] = token
	ts.ids[name] = u.ID
}

func (ts *testServer) do(method, path, user string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+ts.users[user])
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type postView struct {
	ID           string `json:"id"`
	AuthorID     string `json:"authorId"`
	Title        string `json:"title"`
	Views        int64  `json:"views"`
	IsFeatured   bool   `json:"isFeatured"`
	CommentCount int64  `json:"commentCount"`
	Comments     []struct {
		ID      string `json:"id"`
		Replies []struct {
			ID string `json:"id"`
		} `json:"replies"`
	} `json:"comments"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestPostLifecycle(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(http.MethodPost, "/posts", "alice", gin.H{
		"title": "First", "content": "hello", "tags": []string{"go"}, "isFeatured": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[postView](t, env.Data)
	assert.Equal(t, ts.ids["alice"], post.AuthorID)
	assert.False(t, post.IsFeatured, "non-admin cannot feature posts")

	t.Run("public list", func(t *testing.T) {
		w, env := ts.do(http.MethodGet, "/posts?page=abc&limit=500&tags=go", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[struct {
			Data       []postView `json:"data"`
			Pagination struct {
				Total int64 `json:"total"`
				Page  int   `json:"page"`
				Limit int   `json:"limit"`
			} `json:"pagination"`
		}](t, env.Data)
		assert.Equal(t, int64(1), page.Pagination.Total)
		assert.Equal(t, 1, page.Pagination.Page)
		assert.Equal(t, 100, page.Pagination.Limit)
		require.Len(t, page.Data, 1)
	})

	t.Run("detail increments views", func(t *testing.T) {
		_, env := ts.do(http.MethodGet, "/posts/"+post.ID, "", nil)
		assert.Equal(t, int64(1), decode[postView](t, env.Data).Views)
		_, env = ts.do(http.MethodGet, "/posts/"+post.ID, "", nil)
		assert.Equal(t, int64(2), decode[postView](t, env.Data).Views)
	})

	t.Run("other user cannot update", func(t *testing.T) {
		w, _ := ts.do(http.MethodPatch, "/posts/"+post.ID, "bob", gin.H{"title": "hijack"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner updates", func(t *testing.T) {
		w, env := ts.do(http.MethodPatch, "/posts/"+post.ID, "alice", gin.H{"title": "Renamed"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Renamed", decode[postView](t, env.Data).Title)
	})

	t.Run("my posts", func(t *testing.T) {
		_, env := ts.do(http.MethodGet, "/posts/my-posts", "alice", nil)
		assert.Len(t, decode[[]postView](t, env.Data), 1)
		_, env = ts.do(http.MethodGet, "/posts/my-posts", "bob", nil)
		assert.Len(t, decode[[]postView](t, env.Data), 0)
	})

	t.Run("admin deletes", func(t *testing.T) {
		w, _ := ts.do(http.MethodDelete, "/posts/"+post.ID, "admin", nil)
		require.Equal(t, http.StatusOK, w.Code)
		w, _ = ts.do(http.MethodGet, "/posts/"+post.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAccessControl(t *testing.T) {
	ts := newTestServer(t)

	t.Run("anonymous create", func(t *testing.T) {
		w, _ := ts.do(http.MethodPost, "/posts", "", gin.H{"title": "t", "content": "c"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unverified email", func(t *testing.T) {
		w, _ := ts.do(http.MethodPost, "/posts", "carol", gin.H{"title": "t", "content": "c"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w, _ := ts.do(http.MethodPost, "/posts", "alice", gin.H{"title": "t"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stats admin only", func(t *testing.T) {
		w, _ := ts.do(http.MethodGet, "/posts/stats", "alice", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, env := ts.do(http.MethodGet, "/posts/stats", "admin", nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[map[string]int64](t, env.Data)
		assert.Equal(t, int64(4), stats["totalUsers"])
		assert.Equal(t, int64(1), stats["adminCount"])
	})

	t.Run("huge page", func(t *testing.T) {
		w, _ := ts.do(http.MethodGet, "/posts?page=100000000000000000&limit=100", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed ids", func(t *testing.T) {
		w, _ := ts.do(http.MethodGet, "/posts/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w, _ = ts.do(http.MethodGet, "/posts?authorId=not-a-uuid", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		w, _ := ts.do(http.MethodGet, "/posts/author/00000000-0000-0000-0000-000000000000", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCommentThread(t *testing.T) {
	ts := newTestServer(t)

	_, env := ts.do(http.MethodPost, "/posts", "alice", gin.H{"title": "t", "content": "c"})
	post := decode[postView](t, env.Data)

	w, env := ts.do(http.MethodPost, "/comments", "bob", gin.H{"postId": post.ID, "content": "nice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	root := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)

	w, env = ts.do(http.MethodPost, "/comments", "alice", gin.H{"postId": post.ID, "parentId": root.ID, "content": "thanks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reply := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)

	t.Run("thread on detail", func(t *testing.T) {
		_, env := ts.do(http.MethodGet, "/posts/"+post.ID, "", nil)
		detail := decode[postView](t, env.Data)
		assert.Equal(t, int64(2), detail.CommentCount)
		require.Len(t, detail.Comments, 1)
		require.Len(t, detail.Comments[0].Replies, 1)
		assert.Equal(t, reply.ID, detail.Comments[0].Replies[0].ID)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		w, _ := ts.do(http.MethodPost, "/comments", "bob", gin.H{"postId": "00000000-0000-0000-0000-000000000000", "content": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("moderation", func(t *testing.T) {
		w, _ := ts.do(http.MethodPatch, "/comments/"+root.ID+"/moderate", "bob", gin.H{"status": "REJECTED"})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, _ = ts.do(http.MethodPatch, "/comments/"+root.ID+"/moderate", "admin", gin.H{"status": "REJECTED"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, _ = ts.do(http.MethodPatch, "/comments/"+root.ID+"/moderate", "admin", gin.H{"status": "REJECTED"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		_, env := ts.do(http.MethodGet, "/posts/"+post.ID, "", nil)
		assert.Empty(t, decode[postView](t, env.Data).Comments)
	})

	t.Run("delete removes subtree", func(t *testing.T) {
		w, _ := ts.do(http.MethodDelete, "/comments/"+root.ID, "alice", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, _ = ts.do(http.MethodDelete, "/comments/"+root.ID, "bob", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = ts.do(http.MethodGet, "/comments/"+reply.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOperationalEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
