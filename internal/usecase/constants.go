package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Metric labels for rejected operations.
const (
	ActionOpen     = "open"
	ActionClose    = "close"
	ActionInquire  = "inquire"
	ActionCredit   = "credit"
	ActionDebit    = "debit"
	ActionTransfer = "transfer"
)
