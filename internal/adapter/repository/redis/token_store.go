package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore implements usecase.TokenStore using Redis. Each active token is
// a key token:<jti> holding the user ID, and each user has a set of their
// token IDs so all of them can be revoked at once.
type TokenStore struct {
	client      redis.UniversalClient
	tokenPrefix string
	userPrefix  string
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(client redis.UniversalClient) *TokenStore {
	return &TokenStore{
		client:      client,
		tokenPrefix: "token:",
		userPrefix:  "user_tokens:",
	}
}

// Save registers a token for ttl.
func (s *TokenStore) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	userKey := s.userPrefix + userID

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenPrefix+tokenID, userID, ttl)
		pipe.SAdd(ctx, userKey, tokenID)
		// The set lives at least as long as its newest token.
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})

	return err
}

// IsActive reports whether the token is still registered.
func (s *TokenStore) IsActive(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.tokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// Revoke removes a single token.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string) error {
	key := s.tokenPrefix + tokenID

	userID, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, s.userPrefix+userID, tokenID)
		return nil
	})

	return err
}

// RevokeAllForUser removes every token registered for a user.
func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	userKey := s.userPrefix + userID

	tokenIDs, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, s.tokenPrefix+id)
	}
	keys = append(keys, userKey)

	return s.client.Del(ctx, keys...).Err()
}
