package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iho/gobank/internal/domain"
)

// Claims represents the JWT claims. The subject is the user's email.
type Claims struct {
	UserID    string           `json:"user_id"`
	Role      domain.Role      `json:"role"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	now             func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, accessDuration, refreshDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:       []byte(secretKey),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		now:             time.Now,
	}
}

// Generate signs a new token of the given type for a user.
func (m *JWTManager) Generate(user *domain.User, tokenType domain.TokenType) (string, *domain.TokenClaims, error) {
	duration := m.accessDuration
	if tokenType == domain.TokenTypeRefresh {
		duration = m.refreshDuration
	}

	now := m.now()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, claims.toDomain(), nil
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims.toDomain(), nil
}

func (c *Claims) toDomain() *domain.TokenClaims {
	out := &domain.TokenClaims{
		TokenID: c.ID,
		UserID:  c.UserID,
		Email:   c.Subject,
		Role:    c.Role,
		Type:    c.TokenType,
	}

	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}

	return out
}
