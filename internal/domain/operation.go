package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind identifies the action recorded by a ledger operation.
type OperationKind string

const (
	OperationOpen           OperationKind = "OPEN"
	OperationClose          OperationKind = "CLOSE"
	OperationDebit          OperationKind = "DEBIT"
	OperationCredit         OperationKind = "CREDIT"
	OperationTransferCredit OperationKind = "TRANSFER_CREDIT"
	OperationTransferDebit  OperationKind = "TRANSFER_DEBIT"
	OperationInquiry        OperationKind = "INQUIRY"
)

var validOperationKinds = map[OperationKind]bool{
	OperationOpen:           true,
	OperationClose:          true,
	OperationDebit:          true,
	OperationCredit:         true,
	OperationTransferCredit: true,
	OperationTransferDebit:  true,
	OperationInquiry:        true,
}

// IsValid reports whether k is a known operation kind.
func (k OperationKind) IsValid() bool {
	return validOperationKinds[k]
}

// Operation is an immutable ledger entry recorded against one account.
type Operation struct {
	ID        string
	AccountID string
	Kind      OperationKind
	Value     decimal.Decimal
	CreatedAt time.Time
}
