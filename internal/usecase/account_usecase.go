package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// AccountUseCase applies the account rules and records every accepted
// mutation in the operation ledger.
type AccountUseCase struct {
	txManager     TransactionManager
	clientRepo    ClientRepository
	accountRepo   AccountRepository
	operationRepo OperationRepository
	idGen         IDGenerator
	retrier       Retrier
	metrics       MetricsRecorder
	now           func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase. A nil retrier runs each
// transaction once; a nil recorder discards metrics.
func NewAccountUseCase(
	txManager TransactionManager,
	clientRepo ClientRepository,
	accountRepo AccountRepository,
	operationRepo OperationRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics MetricsRecorder,
) *AccountUseCase {
	if retrier == nil {
		retrier = directRetrier{}
	}

	if metrics == nil {
		metrics = noopRecorder{}
	}

	return &AccountUseCase{
		txManager:     txManager,
		clientRepo:    clientRepo,
		accountRepo:   accountRepo,
		operationRepo: operationRepo,
		idGen:         idGen,
		retrier:       retrier,
		metrics:       metrics,
		now:           func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Open creates an active account for an existing client with the given
// starting balance.
func (uc *AccountUseCase) Open(ctx context.Context, clientID string, initialBalance decimal.Decimal) (*domain.Account, error) {
	err := domain.ValidateAmount(initialBalance)
	if err != nil {
		return nil, uc.reject(ActionOpen, err)
	}

	_, err = uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, uc.reject(ActionOpen, clientNotFound(err, clientID))
	}

	var account *domain.Account

	err = uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		now := uc.now()
		account = &domain.Account{
			ID:        uc.idGen.Generate(),
			ClientID:  clientID,
			Balance:   initialBalance,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := uc.accountRepo.Create(ctx, tx, account)
		if err != nil {
			return err
		}

		_, err = uc.record(ctx, tx, account.ID, domain.OperationOpen, initialBalance, now)

		return err
	})
	if err != nil {
		return nil, uc.reject(ActionOpen, err)
	}

	uc.metrics.OperationRecorded(domain.OperationOpen)

	return account, nil
}

// Close deactivates an account. Closure is terminal.
func (uc *AccountUseCase) Close(ctx context.Context, accountID string) error {
	err := uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		account, err := uc.resolve(ctx, tx, accountID)
		if err != nil {
			return err
		}

		now := uc.now()
		account.Close(now)

		err = uc.save(ctx, tx, account)
		if err != nil {
			return err
		}

		_, err = uc.record(ctx, tx, account.ID, domain.OperationClose, decimal.Zero, now)

		return err
	})
	if err != nil {
		return uc.reject(ActionClose, err)
	}

	uc.metrics.OperationRecorded(domain.OperationClose)

	return nil
}

// Inquire reads the balance of an active account and records the inquiry.
func (uc *AccountUseCase) Inquire(ctx context.Context, accountID string) (*domain.Position, error) {
	var position *domain.Position

	err := uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		account, err := uc.resolve(ctx, tx, accountID)
		if err != nil {
			return err
		}

		now := uc.now()

		op, err := uc.record(ctx, tx, account.ID, domain.OperationInquiry, account.Balance, now)
		if err != nil {
			return err
		}

		account.LastInquiryAt = &op.CreatedAt
		account.UpdatedAt = now

		err = uc.save(ctx, tx, account)
		if err != nil {
			return err
		}

		position = &domain.Position{Balance: account.Balance, At: op.CreatedAt}

		return nil
	})
	if err != nil {
		return nil, uc.reject(ActionInquire, err)
	}

	uc.metrics.OperationRecorded(domain.OperationInquiry)

	return position, nil
}

// Credit adds amount to an active account.
func (uc *AccountUseCase) Credit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	err := domain.ValidateAmount(amount)
	if err != nil {
		return uc.reject(ActionCredit, err)
	}

	err = uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		account, err := uc.resolve(ctx, tx, accountID)
		if err != nil {
			return err
		}

		now := uc.now()
		account.Balance = account.ApplyCredit(amount)
		account.UpdatedAt = now

		err = uc.save(ctx, tx, account)
		if err != nil {
			return err
		}

		_, err = uc.record(ctx, tx, account.ID, domain.OperationCredit, amount, now)

		return err
	})
	if err != nil {
		return uc.reject(ActionCredit, err)
	}

	uc.metrics.OperationRecorded(domain.OperationCredit)

	return nil
}

// Debit removes amount from an active account without letting the balance
// go negative.
func (uc *AccountUseCase) Debit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	err := domain.ValidateAmount(amount)
	if err != nil {
		return uc.reject(ActionDebit, err)
	}

	err = uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		account, err := uc.resolve(ctx, tx, accountID)
		if err != nil {
			return err
		}

		err = account.ValidateDebit(amount)
		if err != nil {
			return err
		}

		now := uc.now()
		account.Balance = account.ApplyDebit(amount)
		account.UpdatedAt = now

		err = uc.save(ctx, tx, account)
		if err != nil {
			return err
		}

		_, err = uc.record(ctx, tx, account.ID, domain.OperationDebit, amount, now)

		return err
	})
	if err != nil {
		return uc.reject(ActionDebit, err)
	}

	uc.metrics.OperationRecorded(domain.OperationDebit)

	return nil
}

// Transfer moves amount from source to destination. Both balances and both
// ledger entries are written in one transaction or not at all.
func (uc *AccountUseCase) Transfer(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal) error {
	// Lock in sorted order (DEADLOCK PREVENTION)
	ids := []string{sourceID}
	if destinationID != sourceID {
		ids = append(ids, destinationID)
	}

	sort.Strings(ids)

	err := uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}

		byID := make(map[string]*domain.Account, len(accounts))
		for _, a := range accounts {
			byID[a.ID] = a
		}

		// Errors surface source first, then destination.
		source, err := activeAccount(byID, sourceID)
		if err != nil {
			return err
		}

		destination, err := activeAccount(byID, destinationID)
		if err != nil {
			return err
		}

		err = domain.ValidateAmount(amount)
		if err != nil {
			return err
		}

		err = source.ValidateDebit(amount)
		if err != nil {
			return err
		}

		now := uc.now()

		destination.Balance = destination.ApplyCredit(amount)
		destination.UpdatedAt = now

		err = uc.save(ctx, tx, destination)
		if err != nil {
			return err
		}

		_, err = uc.record(ctx, tx, destination.ID, domain.OperationTransferCredit, amount, now)
		if err != nil {
			return err
		}

		source.Balance = source.ApplyDebit(amount)
		source.UpdatedAt = now

		err = uc.save(ctx, tx, source)
		if err != nil {
			return err
		}

		_, err = uc.record(ctx, tx, source.ID, domain.OperationTransferDebit, amount, now)

		return err
	})
	if err != nil {
		return uc.reject(ActionTransfer, err)
	}

	uc.metrics.OperationRecorded(domain.OperationTransferCredit)
	uc.metrics.OperationRecorded(domain.OperationTransferDebit)
	uc.metrics.TransferCompleted(amount)

	return nil
}

// ListOperations returns the ledger of an account in creation order. Unknown
// accounts yield an empty list.
func (uc *AccountUseCase) ListOperations(ctx context.Context, accountID string) ([]*domain.Operation, error) {
	return uc.operationRepo.ListByAccount(ctx, accountID)
}

// ListClientAccounts returns every account owned by a client.
func (uc *AccountUseCase) ListClientAccounts(ctx context.Context, clientID string) ([]*domain.Account, error) {
	_, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, clientNotFound(err, clientID)
	}

	return uc.accountRepo.ListByClient(ctx, clientID)
}

// GetAccount reads an account without recording an inquiry.
func (uc *AccountUseCase) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, accountNotFound(err, accountID)
	}

	return account, nil
}

// inTx runs fn inside a transaction, retrying transient storage failures.
func (uc *AccountUseCase) inTx(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	return uc.retrier.Retry(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		err = fn(ctx, tx)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

func (uc *AccountUseCase) resolve(ctx context.Context, tx Transaction, accountID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, accountNotFound(err, accountID)
	}

	err = account.EnsureActive()
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *AccountUseCase) save(ctx context.Context, tx Transaction, account *domain.Account) error {
	account.Version++

	return uc.accountRepo.Update(ctx, tx, account)
}

func (uc *AccountUseCase) record(
	ctx context.Context,
	tx Transaction,
	accountID string,
	kind domain.OperationKind,
	value decimal.Decimal,
	at time.Time,
) (*domain.Operation, error) {
	op := &domain.Operation{
		ID:        uc.idGen.Generate(),
		AccountID: accountID,
		Kind:      kind,
		Value:     value,
		CreatedAt: at,
	}

	err := uc.operationRepo.Create(ctx, tx, op)
	if err != nil {
		return nil, err
	}

	return op, nil
}

func (uc *AccountUseCase) reject(action string, err error) error {
	uc.metrics.OperationRejected(action, err)

	return err
}

func activeAccount(byID map[string]*domain.Account, id string) (*domain.Account, error) {
	account, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	err := account.EnsureActive()
	if err != nil {
		return nil, err
	}

	return account, nil
}

func accountNotFound(err error, id string) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return err
}

func clientNotFound(err error, id string) error {
	if errors.Is(err, domain.ErrClientNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrClientNotFound, id)
	}

	return err
}
