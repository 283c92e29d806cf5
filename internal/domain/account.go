package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a balance owned by a client. Closing is terminal.
type Account struct {
	ID            string
	ClientID      string
	Balance       decimal.Decimal
	Active        bool
	LastInquiryAt *time.Time
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EnsureActive returns ErrAccountClosed if the account has been closed.
func (a *Account) EnsureActive() error {
	if !a.Active {
		return fmt.Errorf("%w: account %s", ErrAccountClosed, a.ID)
	}
	return nil
}

// ValidateDebit checks that amount can leave the account without making the balance negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return fmt.Errorf("%w: account %s cannot cover a withdrawal of %s", ErrInsufficientBalance, a.ID, amount)
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Close deactivates the account.
func (a *Account) Close(at time.Time) {
	a.Active = false
	a.UpdatedAt = at
}

// Position is a point-in-time snapshot of an account balance.
type Position struct {
	Balance decimal.Decimal
	At      time.Time
}
