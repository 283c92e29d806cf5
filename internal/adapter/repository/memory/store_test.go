package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
)

func TestTx_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	accounts := NewAccountRepository(store)
	operations := NewOperationRepository(store)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "a1", ClientID: "c1", Balance: decimal.NewFromInt(10), Active: true}))
	require.NoError(t, operations.Create(ctx, tx, &domain.Operation{ID: "o1", AccountID: "a1", Kind: domain.OperationOpen, Value: decimal.NewFromInt(10)}))
	require.NoError(t, tx.Commit(ctx))

	tx, err = txm.Begin(ctx)
	require.NoError(t, err)

	acc, err := accounts.GetByIDForUpdate(ctx, tx, "a1")
	require.NoError(t, err)
	acc.Balance = decimal.NewFromInt(99)
	require.NoError(t, accounts.Update(ctx, tx, acc))
	require.NoError(t, operations.Create(ctx, tx, &domain.Operation{ID: "o2", AccountID: "a1", Kind: domain.OperationCredit, Value: decimal.NewFromInt(89)}))
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "a2", ClientID: "c1", Active: true}))
	require.NoError(t, tx.Rollback(ctx))

	got, err := accounts.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10)))

	_, err = accounts.GetByID(ctx, "a2")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	ops, err := operations.ListByAccount(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "o1", ops[0].ID)

	list, err := accounts.ListByClient(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTx_RollbackAfterCommit(t *testing.T) {
	ctx := context.Background()
	txm := NewTxManager(NewStore())

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.ErrorIs(t, tx.Rollback(ctx), ErrTxClosed)
	assert.ErrorIs(t, tx.Commit(ctx), ErrTxClosed)

	// The lock is released, so a new transaction can start.
	tx, err = txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
}

func TestAccountRepository_ForeignTx(t *testing.T) {
	ctx := context.Background()
	a := NewStore()
	b := NewStore()

	tx, err := NewTxManager(b).Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = NewAccountRepository(a).Create(ctx, tx, &domain.Account{ID: "x"})
	assert.Error(t, err)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := NewAccountRepository(store)

	tx, err := NewTxManager(store).Begin(ctx)
	require.NoError(t, err)
	at := time.Now()
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "a1", Balance: decimal.NewFromInt(5), LastInquiryAt: &at}))
	require.NoError(t, tx.Commit(ctx))

	got, err := accounts.GetByID(ctx, "a1")
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(500)
	*got.LastInquiryAt = at.Add(time.Hour)

	again, err := accounts.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(5)))
	assert.True(t, again.LastInquiryAt.Equal(at))
}

func TestAccountRepository_GetByIDsForUpdateSkipsMissing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := NewAccountRepository(store)
	txm := NewTxManager(store)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "b"}))
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "a"}))

	got, err := accounts.GetByIDsForUpdate(ctx, tx, []string{"b", "zz", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	require.NoError(t, tx.Commit(ctx))
}

func TestClientRepository_FindByNameOrder(t *testing.T) {
	ctx := context.Background()
	clients := NewClientRepository(NewStore())

	require.NoError(t, clients.Create(ctx, &domain.Client{ID: "2", FirstName: "Jean", LastName: "Dupond"}))
	require.NoError(t, clients.Create(ctx, &domain.Client{ID: "1", FirstName: "Jean", LastName: "Dupond"}))
	require.NoError(t, clients.Create(ctx, &domain.Client{ID: "3", FirstName: "Marie", LastName: "Dupond"}))

	found, err := clients.FindByName(ctx, "Jean", "Dupond")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "2", found[0].ID)

	_, err = clients.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(NewStore())

	require.NoError(t, users.Create(ctx, &domain.User{ID: "u1", Email: "a@b.io"}))
	assert.ErrorIs(t, users.Create(ctx, &domain.User{ID: "u2", Email: "a@b.io"}), domain.ErrUserExists)

	u, err := users.GetByEmail(ctx, "a@b.io")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = users.GetByID(ctx, "u2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "u1", "t1", time.Minute))
	require.NoError(t, store.Save(ctx, "u1", "t2", time.Minute))
	require.NoError(t, store.Save(ctx, "u2", "t3", time.Minute))

	active, err := store.IsActive(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Revoke(ctx, "t1"))
	active, _ = store.IsActive(ctx, "t1")
	assert.False(t, active)

	require.NoError(t, store.RevokeAllForUser(ctx, "u1"))
	active, _ = store.IsActive(ctx, "t2")
	assert.False(t, active)

	active, _ = store.IsActive(ctx, "t3")
	assert.True(t, active)

	now = now.Add(2 * time.Minute)
	active, _ = store.IsActive(ctx, "t3")
	assert.False(t, active)
}
