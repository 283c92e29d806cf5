package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobank/internal/domain"
)

// AuthUseCase handles user registration and token lifecycle.
type AuthUseCase struct {
	userRepo UserRepository
	tokens   TokenManager
	store    TokenStore
	idGen    IDGenerator
	metrics  MetricsRecorder
}

// NewAuthUseCase creates a new AuthUseCase.
func NewAuthUseCase(
	userRepo UserRepository,
	tokens TokenManager,
	store TokenStore,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *AuthUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}

	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		store:    store,
		idGen:    idGen,
		metrics:  metrics,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a user and returns a fresh token pair.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*domain.TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	_, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrUserExists
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           domain.RoleUser,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := uc.issue(ctx, user)
	uc.metrics.AuthAttempt("register", err == nil)

	return pair, err
}

// Authenticate checks credentials, revokes the user's previous access tokens
// and returns a fresh token pair.
func (uc *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	pair, err := uc.authenticate(ctx, email, password)
	uc.metrics.AuthAttempt("authenticate", err == nil)

	return pair, err
}

func (uc *AuthUseCase) authenticate(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	if err := verifyPassword(user.HashedPassword, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := uc.store.RevokeAllForUser(ctx, user.ID); err != nil {
		return nil, err
	}

	return uc.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := uc.tokens.Verify(refreshToken)
	if err != nil {
		uc.metrics.AuthAttempt("refresh", false)
		return nil, err
	}

	if claims.Type != domain.TokenTypeRefresh {
		uc.metrics.AuthAttempt("refresh", false)
		return nil, domain.ErrInvalidToken
	}

	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		uc.metrics.AuthAttempt("refresh", false)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	if !user.Active {
		uc.metrics.AuthAttempt("refresh", false)
		return nil, domain.ErrUserInactive
	}

	if err := uc.store.RevokeAllForUser(ctx, user.ID); err != nil {
		return nil, err
	}

	access, err := uc.issueAccess(ctx, user)
	if err != nil {
		return nil, err
	}

	uc.metrics.AuthAttempt("refresh", true)

	return &domain.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

// Logout revokes the presented access token.
func (uc *AuthUseCase) Logout(ctx context.Context, accessToken string) error {
	claims, err := uc.tokens.Verify(accessToken)
	if err != nil {
		return err
	}

	if claims.Type != domain.TokenTypeAccess {
		return domain.ErrInvalidToken
	}

	return uc.store.Revoke(ctx, claims.TokenID)
}

// ValidateAccessToken verifies an access token and checks it has not been
// revoked.
func (uc *AuthUseCase) ValidateAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if claims.Type != domain.TokenTypeAccess {
		return nil, domain.ErrInvalidToken
	}

	active, err := uc.store.IsActive(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}

	if !active {
		return nil, domain.ErrRevokedToken
	}

	return claims, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := uc.issueAccess(ctx, user)
	if err != nil {
		return nil, err
	}

	refresh, _, err := uc.tokens.Generate(user, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (uc *AuthUseCase) issueAccess(ctx context.Context, user *domain.User) (string, error) {
	token, claims, err := uc.tokens.Generate(user, domain.TokenTypeAccess)
	if err != nil {
		return "", err
	}

	if err := uc.store.Save(ctx, user.ID, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return "", err
	}

	return token, nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
