package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	queries *generated.Queries
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db generated.DBTX) *ClientRepository {
	return &ClientRepository{queries: generated.New(db)}
}

// Create inserts a client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.queries.CreateClient(ctx, generated.CreateClientParams{
		ID:        client.ID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		CreatedAt: timeToPgTimestamptz(client.CreatedAt),
	})
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row, err := r.queries.GetClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}

		return nil, err
	}

	return rowToClient(row), nil
}

// FindByName returns clients with exactly this name, oldest first.
func (r *ClientRepository) FindByName(ctx context.Context, firstName, lastName string) ([]*domain.Client, error) {
	rows, err := r.queries.FindClientsByName(ctx, generated.FindClientsByNameParams{
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, rowToClient(row))
	}

	return clients, nil
}

func rowToClient(row generated.Client) *domain.Client {
	return &domain.Client{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		CreatedAt: row.CreatedAt.Time,
	}
}
