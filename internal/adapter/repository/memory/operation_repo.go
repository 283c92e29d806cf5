package memory

import (
	"context"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// OperationRepository implements usecase.OperationRepository.
type OperationRepository struct {
	store *Store
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(store *Store) *OperationRepository {
	return &OperationRepository{store: store}
}

// Create appends an operation within a transaction.
func (r *OperationRepository) Create(_ context.Context, tx usecase.Transaction, operation *domain.Operation) error {
	mtx, err := r.store.asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	op := *operation
	n := len(r.store.operations)
	r.store.operations = append(r.store.operations, &op)

	mtx.onRollback(func() {
		r.store.operations = r.store.operations[:n]
	})

	return nil
}

// ListByAccount returns the operations of an account in append order.
func (r *OperationRepository) ListByAccount(_ context.Context, accountID string) ([]*domain.Operation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	operations := make([]*domain.Operation, 0)
	for _, op := range r.store.operations {
		if op.AccountID == accountID {
			out := *op
			operations = append(operations, &out)
		}
	}

	return operations, nil
}
