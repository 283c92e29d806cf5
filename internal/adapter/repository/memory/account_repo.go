package memory

import (
	"context"
	"sort"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stores a new account within a transaction.
func (r *AccountRepository) Create(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	mtx, err := r.store.asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.accounts[account.ID] = copyAccount(account)
	r.store.accountSeq = append(r.store.accountSeq, account.ID)

	id := account.ID
	mtx.onRollback(func() {
		delete(r.store.accounts, id)
		r.store.accountSeq = r.store.accountSeq[:len(r.store.accountSeq)-1]
	})

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return copyAccount(a), nil
}

// GetByIDForUpdate retrieves an account within a transaction. The transaction
// lock already excludes other writers.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if _, err := r.store.asTx(tx); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// GetByIDsForUpdate retrieves the accounts that exist among ids, sorted by ID.
func (r *AccountRepository) GetByIDsForUpdate(_ context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if _, err := r.store.asTx(tx); err != nil {
		return nil, err
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var accounts []*domain.Account
	for _, id := range sorted {
		if a, ok := r.store.accounts[id]; ok {
			accounts = append(accounts, copyAccount(a))
		}
	}

	return accounts, nil
}

// Update overwrites the mutable fields of an account within a transaction.
func (r *AccountRepository) Update(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	mtx, err := r.store.asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	prev, ok := r.store.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}

	r.store.accounts[account.ID] = copyAccount(account)

	mtx.onRollback(func() {
		r.store.accounts[prev.ID] = prev
	})

	return nil
}

// ListByClient returns the accounts of a client, oldest first.
func (r *AccountRepository) ListByClient(_ context.Context, clientID string) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var accounts []*domain.Account
	for _, id := range r.store.accountSeq {
		a := r.store.accounts[id]
		if a.ClientID == clientID {
			accounts = append(accounts, copyAccount(a))
		}
	}

	return accounts, nil
}

func copyAccount(a *domain.Account) *domain.Account {
	out := *a
	if a.LastInquiryAt != nil {
		at := *a.LastInquiryAt
		out.LastInquiryAt = &at
	}

	return &out
}
