package server

import (
	"context"
	"fmt"
	"time"

	"blog_api/internal/pkg/config"
	"blog_api/internal/pkg/identity"
	"blog_api/pkg/database"
)

// NewAuthority 按 auth.provider 创建令牌解析与签发实现
// 返回的 closer 用于释放 Redis 连接
func NewAuthority(ctx context.Context, cfg *config.Config) (identity.Authority, func() error, error) {
	switch cfg.Auth.Provider {
	case config.ProviderRedis:
		client, err := database.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		provider := identity.NewRedisSessionProvider(client, cfg.Auth.SessionPrefix, cfg.Auth.SessionTTL)
		return provider, client.Close, nil
	case config.ProviderJWT, "":
		ttl := time.Duration(cfg.JWT.Expire) * time.Hour
		return identity.NewJWTProvider(cfg.JWT.Secret, cfg.JWT.Issuer, ttl), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}
