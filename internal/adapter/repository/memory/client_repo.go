package memory

import (
	"context"

	"github.com/iho/gobank/internal/domain"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	store *Store
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

// Create stores a new client.
func (r *ClientRepository) Create(_ context.Context, client *domain.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *client
	r.store.clients[c.ID] = &c
	r.store.clientOrder = append(r.store.clientOrder, c.ID)

	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(_ context.Context, id string) (*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}

	out := *c

	return &out, nil
}

// FindByName returns clients with exactly this name, oldest first.
func (r *ClientRepository) FindByName(_ context.Context, firstName, lastName string) ([]*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var clients []*domain.Client
	for _, id := range r.store.clientOrder {
		c := r.store.clients[id]
		if c.FirstName == firstName && c.LastName == lastName {
			out := *c
			clients = append(clients, &out)
		}
	}

	return clients, nil
}
