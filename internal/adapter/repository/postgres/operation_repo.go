package postgres

import (
	"context"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// OperationRepository implements usecase.OperationRepository.
type OperationRepository struct {
	queries *generated.Queries
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(db generated.DBTX) *OperationRepository {
	return &OperationRepository{queries: generated.New(db)}
}

// Create appends an operation within a transaction.
func (r *OperationRepository) Create(ctx context.Context, tx usecase.Transaction, operation *domain.Operation) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateOperation(ctx, generated.CreateOperationParams{
		ID:        operation.ID,
		AccountID: operation.AccountID,
		Kind:      string(operation.Kind),
		Value:     decimalToNumeric(operation.Value),
		CreatedAt: timeToPgTimestamptz(operation.CreatedAt),
	})
}

// ListByAccount returns the ledger of an account in insertion order.
func (r *OperationRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Operation, error) {
	rows, err := r.queries.ListOperationsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	operations := make([]*domain.Operation, 0, len(rows))
	for _, row := range rows {
		operations = append(operations, &domain.Operation{
			ID:        row.ID,
			AccountID: row.AccountID,
			Kind:      domain.OperationKind(row.Kind),
			Value:     numericToDecimal(row.Value),
			CreatedAt: row.CreatedAt.Time,
		})
	}

	return operations, nil
}
