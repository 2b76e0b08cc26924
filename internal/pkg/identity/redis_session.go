package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSessionProvider 不透明会话令牌，会话数据存放在 Redis
type RedisSessionProvider struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type sessionData struct {
	UserID        string    `json:"user_id"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewRedisSessionProvider(client *redis.Client, prefix string, ttl time.Duration) *RedisSessionProvider {
	if prefix == "" {
		prefix = "session:"
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisSessionProvider{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSessionProvider) key(token string) string {
	return s.prefix + token
}

// Issue 创建会话并返回令牌
func (s *RedisSessionProvider) Issue(ctx context.Context, p Principal) (string, error) {
	payload, err := json.Marshal(sessionData{
		UserID:        p.ID,
		Role:          p.Role,
		EmailVerified: p.EmailVerified,
		Status:        p.Status,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Resolve 查找会话
func (s *RedisSessionProvider) Resolve(ctx context.Context, token string) (Principal, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return Principal{}, ErrSessionNotFound
	}
	if err != nil {
		return Principal{}, fmt.Errorf("lookup session: %w", err)
	}

	var data sessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return Principal{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if !data.Role.Valid() {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		ID:            data.UserID,
		Role:          data.Role,
		EmailVerified: data.EmailVerified,
		Status:        data.Status,
	}, nil
}

// Revoke 删除会话
func (s *RedisSessionProvider) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
