package domain

import "errors"

var (
	// Client errors
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidClientName = errors.New("invalid client name")

	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountClosed       = errors.New("account is closed")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOperationNotAllowed = errors.New("operation type not allowed")
)
