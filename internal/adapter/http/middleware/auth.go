package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/iho/gobank/internal/domain"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ClaimsContextKey is the context key for the verified token claims
	ClaimsContextKey ContextKey = "claims"
)

// TokenValidator verifies an access token and checks it is still active.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer access
// token and stores its claims in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := validator.ValidateAccessToken(r.Context(), parts[1])
			if err != nil {
				if isTokenError(err) {
					writeError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}

				log.Ctx(r.Context()).Error().Err(err).Msg("token validation failed")
				writeError(w, http.StatusInternalServerError, "token validation failed")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the authenticated caller from context
func ClaimsFromContext(ctx context.Context) (*domain.TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*domain.TokenClaims)
	return claims, ok
}

func isTokenError(err error) bool {
	return errors.Is(err, domain.ErrInvalidToken) ||
		errors.Is(err, domain.ErrExpiredToken) ||
		errors.Is(err, domain.ErrRevokedToken)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
