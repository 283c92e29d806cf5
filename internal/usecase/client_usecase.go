package usecase

import (
	"context"
	"time"

	"github.com/iho/gobank/internal/domain"
)

// ClientUseCase handles client registration and lookup.
type ClientUseCase struct {
	clientRepo ClientRepository
	idGen      IDGenerator
	metrics    MetricsRecorder
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, idGen IDGenerator, metrics MetricsRecorder) *ClientUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}

	return &ClientUseCase{
		clientRepo: clientRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// CreateClient returns the first client registered under the same name, or
// creates a new one.
//
// The lookup and the insert are not atomic: two concurrent calls with the
// same name may both create a client.
func (uc *ClientUseCase) CreateClient(ctx context.Context, firstName, lastName string) (*domain.Client, error) {
	if err := domain.ValidateClientName("prenom", firstName); err != nil {
		return nil, err
	}

	if err := domain.ValidateClientName("nom", lastName); err != nil {
		return nil, err
	}

	existing, err := uc.clientRepo.FindByName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		return existing[0], nil
	}

	client := &domain.Client{
		ID:        uc.idGen.Generate(),
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	uc.metrics.ClientCreated()

	return client, nil
}

// GetClient retrieves a client by ID.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, clientNotFound(err, id)
	}

	return client, nil
}
