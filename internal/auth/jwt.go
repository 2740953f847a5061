package auth

import (
	"fmt"
	"time"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType selects which signing secret issues and verifies a token.
// Access and refresh tokens are signed with distinct keys, so a token of one
// type can never verify as the other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is the decoded payload of a verified token.
type Claims struct {
	UserID    int64
	Username  string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	UserID    int64  `json:"uid"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed expiring tokens. There is no
// revocation path: a token stays valid until its expiry.
type TokenManager struct {
	accessKey  []byte
	refreshKey []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	timeFunc   func() time.Time // injectable for expiry tests
}

// NewTokenManager builds a TokenManager for the given HMAC algorithm
// (HS256, HS384 or HS512). Both secrets must be at least 32 bytes.
func NewTokenManager(accessSecret, refreshSecret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if len(accessSecret) < 32 || len(refreshSecret) < 32 {
		return nil, fmt.Errorf("token secrets must be at least 32 characters")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("access and refresh secrets must differ")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenManager{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		timeFunc:   time.Now,
	}, nil
}

func (m *TokenManager) IssueAccessToken(userID int64, username string) (string, error) {
	return m.issue(TokenAccess, userID, username, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(userID int64, username string) (string, error) {
	return m.issue(TokenRefresh, userID, username, m.refreshTTL)
}

// IssuePair issues an access and refresh token for the same subject.
func (m *TokenManager) IssuePair(userID int64, username string) (*domain.TokenPair, error) {
	access, err := m.IssueAccessToken(userID, username)
	if err != nil {
		return nil, err
	}
	refresh, err := m.IssueRefreshToken(userID, username)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}, nil
}

func (m *TokenManager) issue(typ TokenType, userID int64, username string, ttl time.Duration) (string, error) {
	now := m.timeFunc()
	claims := tokenClaims{
		UserID:    userID,
		TokenType: string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.keyFor(typ))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and the embedded token type against
// expected. Every failure mode collapses to domain.ErrTokenInvalid so callers
// cannot tell why a token was rejected.
func (m *TokenManager) Verify(tokenString string, expected TokenType) (*Claims, error) {
	now := m.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.keyFor(expected), nil
	}, parserOpts...)
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || claims.TokenType != string(expected) {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" || claims.UserID == 0 || claims.ExpiresAt == nil {
		return nil, domain.ErrTokenInvalid
	}

	out := &Claims{
		UserID:    claims.UserID,
		Username:  claims.Subject,
		Type:      TokenType(claims.TokenType),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func (m *TokenManager) keyFor(typ TokenType) []byte {
	if typ == TokenRefresh {
		return m.refreshKey
	}
	return m.accessKey
}
