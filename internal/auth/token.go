// Package auth issues and verifies the HS256 access and refresh tokens and
// keeps the revocation list for logged-out access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"threadline/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	Issuer   = "threadline-api"
	Audience = "threadline-client"

	TypeAccess  = "access"
	TypeRefresh = "refresh"

	revokedPrefix = "blacklist:"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrRevoked        = errors.New("token has been revoked")
)

// Claims carries the registered claims plus the token type.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// Manager signs and verifies tokens with a shared secret. A nil Redis client
// disables revocation.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	redis      *redis.Client
	now        func() time.Time
}

// NewManager creates a Manager.
func NewManager(secret string, accessTTL, refreshTTL time.Duration, rdb *redis.Client) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		redis:      rdb,
		now:        time.Now,
	}
}

// IssueAccess returns a signed access token for userID.
func (m *Manager) IssueAccess(userID uint) (string, error) {
	return m.issue(userID, TypeAccess, m.accessTTL)
}

// IssueRefresh returns a signed refresh token for userID.
func (m *Manager) IssueRefresh(userID uint) (string, error) {
	return m.issue(userID, TypeRefresh, m.refreshTTL)
}

// RefreshTTL is the lifetime of refresh tokens, used for the session cookie.
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *Manager) issue(userID uint, tokenType string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := m.now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies signature, issuer, audience, expiry and token type.
func (m *Manager) Parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// Authenticate parses an access token and rejects it when it was revoked.
func (m *Manager) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := m.Parse(tokenString, TypeAccess)
	if err != nil {
		return nil, err
	}
	if m.IsRevoked(ctx, claims.ID) {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke records the token id until the token would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(m.now())
	}
	if ttl <= 0 {
		return nil
	}
	return m.redis.Set(ctx, revokedPrefix+claims.ID, "1", ttl).Err()
}

// IsRevoked fails open: a Redis error is logged and the token is accepted.
func (m *Manager) IsRevoked(ctx context.Context, jti string) bool {
	if m.redis == nil || jti == "" {
		return false
	}
	n, err := m.redis.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "revocation check failed", "error", err)
		return false
	}
	return n > 0
}
