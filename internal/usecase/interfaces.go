package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]*domain.Client, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	ListByClient(ctx context.Context, clientID string) ([]*domain.Account, error)
}

// OperationRepository defines data access for the append-only account ledger.
type OperationRepository interface {
	Create(ctx context.Context, tx Transaction, operation *domain.Operation) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Operation, error)
}

// UserRepository defines data access for API users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenStore tracks issued access tokens so they can be revoked before expiry.
type TokenStore interface {
	Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// TokenManager signs and verifies bearer tokens.
type TokenManager interface {
	Generate(user *domain.User, tokenType domain.TokenType) (string, *domain.TokenClaims, error)
	Verify(token string) (*domain.TokenClaims, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key so the request can be retried.
	Delete(ctx context.Context, key string) error
}

// MetricsRecorder receives business events worth counting.
type MetricsRecorder interface {
	OperationRecorded(kind domain.OperationKind)
	OperationRejected(action string, err error)
	TransferCompleted(amount decimal.Decimal)
	ClientCreated()
	AuthAttempt(action string, success bool)
}

type noopRecorder struct{}

func (noopRecorder) OperationRecorded(domain.OperationKind) {}
func (noopRecorder) OperationRejected(string, error)        {}
func (noopRecorder) TransferCompleted(decimal.Decimal)      {}
func (noopRecorder) ClientCreated()                         {}
func (noopRecorder) AuthAttempt(string, bool)               {}

type directRetrier struct{}

func (directRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}
