package postgres

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
	infrapg "github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/usecase"
)

// newIntegrationPool connects to DATABASE_URL and migrates it. Tests are
// skipped when no database is configured.
func newIntegrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, infrapg.RunMigrations(dbURL, "../../../../migrations"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPool(ctx, dbURL, 20, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE TABLE operations, accounts, clients CASCADE`)
	require.NoError(t, err)

	return pool
}

func newIntegrationUseCases(pool *pgxpool.Pool) (*usecase.AccountUseCase, *usecase.ClientUseCase) {
	idGen := NewULIDGenerator()
	clientRepo := NewClientRepository(pool)

	accountUC := usecase.NewAccountUseCase(
		NewTxManager(pool),
		clientRepo,
		NewAccountRepository(pool),
		NewOperationRepository(pool),
		idGen,
		NewRetrier(),
		nil,
	)

	return accountUC, usecase.NewClientUseCase(clientRepo, idGen, nil)
}

func TestIntegration_BankingFlow(t *testing.T) {
	pool := newIntegrationPool(t)
	accountUC, clientUC := newIntegrationUseCases(pool)
	ctx := context.Background()

	client, err := clientUC.CreateClient(ctx, "Jean", "Dupond")
	require.NoError(t, err)

	again, err := clientUC.CreateClient(ctx, "Jean", "Dupond")
	require.NoError(t, err)
	assert.Equal(t, client.ID, again.ID)

	source, err := accountUC.Open(ctx, client.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	dest, err := accountUC.Open(ctx, client.ID, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, accountUC.Credit(ctx, source.ID, decimal.RequireFromString("25.50")))
	require.NoError(t, accountUC.Debit(ctx, source.ID, decimal.NewFromInt(10)))
	require.NoError(t, accountUC.Transfer(ctx, source.ID, dest.ID, decimal.NewFromInt(40)))

	err = accountUC.Debit(ctx, source.ID, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	position, err := accountUC.Inquire(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, position.Balance.Equal(decimal.RequireFromString("75.50")), "got %s", position.Balance)

	ops, err := accountUC.ListOperations(ctx, source.ID)
	require.NoError(t, err)

	kinds := make([]domain.OperationKind, 0, len(ops))
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}
	assert.Equal(t, []domain.OperationKind{
		domain.OperationOpen,
		domain.OperationCredit,
		domain.OperationDebit,
		domain.OperationTransferDebit,
		domain.OperationInquiry,
	}, kinds)

	require.NoError(t, accountUC.Close(ctx, dest.ID))
	err = accountUC.Credit(ctx, dest.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrAccountClosed)

	accounts, err := accountUC.ListClientAccounts(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestIntegration_ConcurrentTransfers(t *testing.T) {
	pool := newIntegrationPool(t)
	accountUC, clientUC := newIntegrationUseCases(pool)
	ctx := context.Background()

	client, err := clientUC.CreateClient(ctx, "Marie", "Curie")
	require.NoError(t, err)

	a, err := accountUC.Open(ctx, client.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	b, err := accountUC.Open(ctx, client.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	const workers = 50

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)

	wg.Add(workers)

	// Opposite directions exercise lock ordering.
	for i := range workers {
		go func() {
			defer wg.Done()

			from, to := a.ID, b.ID
			if i%2 == 1 {
				from, to = b.ID, a.ID
			}

			if err := accountUC.Transfer(ctx, from, to, decimal.NewFromInt(10)); err == nil {
				succeeded.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(workers), succeeded.Load())

	accA, err := accountUC.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	accB, err := accountUC.GetAccount(ctx, b.ID)
	require.NoError(t, err)

	assert.True(t, accA.Balance.Add(accB.Balance).Equal(decimal.NewFromInt(2000)),
		"money must be conserved: %s + %s", accA.Balance, accB.Balance)
}

func TestIntegration_ConcurrentDebitsNoOverdraft(t *testing.T) {
	pool := newIntegrationPool(t)
	accountUC, clientUC := newIntegrationUseCases(pool)
	ctx := context.Background()

	client, err := clientUC.CreateClient(ctx, "Ada", "Lovelace")
	require.NoError(t, err)

	account, err := accountUC.Open(ctx, client.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	const workers = 20

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)

	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()

			if err := accountUC.Debit(ctx, account.ID, decimal.NewFromInt(10)); err == nil {
				succeeded.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())

	acc, err := accountUC.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero(), "got %s", acc.Balance)
}
