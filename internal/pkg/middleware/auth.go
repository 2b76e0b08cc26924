package middleware

import (
	"net/http"
	"strings"

	"blog_api/internal/pkg/identity"
	"blog_api/pkg/response"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthMiddleware 解析 Bearer 令牌并写入调用方
func AuthMiddleware(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthRequired, "Authorization header is required")
			c.Abort()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		principal, err := provider.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRoles 角色校验，同时要求邮箱已验证
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthRequired, "You are not authorized")
			c.Abort()
			return
		}

		if !hasRole(principal.Role, roles) {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "You don't have permission to access this resource")
			c.Abort()
			return
		}

		if !principal.EmailVerified {
			response.Error(c, http.StatusForbidden, response.ErrEmailUnverified, "Please verify your email first")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentPrincipal 取出当前调用方
func CurrentPrincipal(c *gin.Context) (identity.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return identity.Principal{}, false
	}
	p, ok := v.(identity.Principal)
	return p, ok
}

func hasRole(role identity.Role, allowed []identity.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
