package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AuthService defines the behavior needed by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.TokenPair, error)
	Authenticate(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUC AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC AuthService) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

// Register creates an API user and returns its first token pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pair, err := h.authUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "registration failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokensFromDomain(pair))
}

// Authenticate exchanges credentials for a token pair.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthenticationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pair, err := h.authUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, "authentication failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokensFromDomain(pair))
}

// RefreshToken issues a new access token for the bearer refresh token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "")
		return
	}

	pair, err := h.authUC.Refresh(r.Context(), token)
	if err != nil {
		writeDomainError(w, r, "refresh failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokensFromDomain(pair))
}

// Logout revokes the bearer access token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "")
		return
	}

	if err := h.authUC.Logout(r.Context(), token); err != nil {
		writeDomainError(w, r, "logout failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
