package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog_api/internal/pkg/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticProvider map[string]identity.Principal

func (s staticProvider) Resolve(_ context.Context, token string) (identity.Principal, error) {
	p, ok := s[token]
	if !ok {
		return identity.Principal{}, identity.ErrInvalidToken
	}
	return p, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	provider := staticProvider{
		"user":       {ID: "u1", Role: identity.RoleUser, EmailVerified: true},
		"unverified": {ID: "u2", Role: identity.RoleUser, EmailVerified: false},
		"admin":      {ID: "a1", Role: identity.RoleAdmin, EmailVerified: true},
	}

	r := gin.New()
	r.GET("/me", AuthMiddleware(provider), RequireRoles(identity.RoleUser, identity.RoleAdmin), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.String(http.StatusOK, p.ID)
	})
	r.GET("/admin", AuthMiddleware(provider), RequireRoles(identity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"bad scheme", "/me", "Basic user", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"user ok", "/me", "Bearer user", http.StatusOK},
		{"email not verified", "/me", "Bearer unverified", http.StatusForbidden},
		{"user on admin route", "/admin", "Bearer user", http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer admin", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(NewIPRateLimiter(1, 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestTraceMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(traceIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceIDHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Body.String())
	assert.Equal(t, "trace-123", w.Header().Get(traceIDHeader))
}

func TestHandlePanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.CustomRecovery(HandlePanics()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
