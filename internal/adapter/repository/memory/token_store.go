package memory

import (
	"context"
	"sync"
	"time"
)

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

// TokenStore implements usecase.TokenStore for single-process deployments.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]tokenEntry
	now    func() time.Time
}

// NewTokenStore creates an empty TokenStore.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]tokenEntry),
		now:    time.Now,
	}
}

// Save registers a token until ttl elapses.
func (s *TokenStore) Save(_ context.Context, userID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[tokenID] = tokenEntry{userID: userID, expiresAt: s.now().Add(ttl)}

	return nil
}

// IsActive reports whether a token is registered and not expired.
func (s *TokenStore) IsActive(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[tokenID]
	if !ok {
		return false, nil
	}

	if !s.now().Before(entry.expiresAt) {
		delete(s.tokens, tokenID)
		return false, nil
	}

	return true, nil
}

// Revoke forgets a single token.
func (s *TokenStore) Revoke(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, tokenID)

	return nil
}

// RevokeAllForUser forgets every token issued to a user.
func (s *TokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.tokens {
		if entry.userID == userID {
			delete(s.tokens, id)
		}
	}

	return nil
}
