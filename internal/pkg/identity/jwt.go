package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims JWT 载荷
type Claims struct {
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	Status        string `json:"status"`
	jwt.RegisteredClaims
}

// JWTProvider HS256 签名的无状态令牌
type JWTProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTProvider(secret, issuer string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue 生成令牌
func (p *JWTProvider) Issue(_ context.Context, principal Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:          principal.Role,
		EmailVerified: principal.EmailVerified,
		Status:        principal.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve 解析令牌
func (p *JWTProvider) Resolve(_ context.Context, tokenString string) (Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		ID:            claims.Subject,
		Role:          claims.Role,
		EmailVerified: claims.EmailVerified,
		Status:        claims.Status,
	}, nil
}
