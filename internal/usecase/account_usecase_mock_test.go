package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

type accountMocks struct {
	txm      *mocks.MockTransactionManager
	tx       *mocks.MockTransaction
	clients  *mocks.MockClientRepository
	accounts *mocks.MockAccountRepository
	ops      *mocks.MockOperationRepository
	idGen    *mocks.MockIDGenerator
	retrier  *mocks.MockRetrier
	metrics  *mocks.MockMetricsRecorder
	uc       *usecase.AccountUseCase
}

func newAccountMocks(t *testing.T) *accountMocks {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &accountMocks{
		txm:      mocks.NewMockTransactionManager(ctrl),
		tx:       mocks.NewMockTransaction(ctrl),
		clients:  mocks.NewMockClientRepository(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
		ops:      mocks.NewMockOperationRepository(ctrl),
		idGen:    mocks.NewMockIDGenerator(ctrl),
		retrier:  mocks.NewMockRetrier(ctrl),
		metrics:  mocks.NewMockMetricsRecorder(ctrl),
	}
	m.uc = usecase.NewAccountUseCase(m.txm, m.clients, m.accounts, m.ops, m.idGen, m.retrier, m.metrics)

	m.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, op func() error) error { return op() }).AnyTimes()
	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).AnyTimes()
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	m.idGen.EXPECT().Generate().Return("op").AnyTimes()

	return m
}

func TestAccountUseCase_TransferLocksInSortedOrder(t *testing.T) {
	m := newAccountMocks(t)

	m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, []string{"a", "b"}).Return([]*domain.Account{
		{ID: "a", Balance: decimal.NewFromInt(10), Active: true},
		{ID: "b", Balance: decimal.NewFromInt(50), Active: true},
	}, nil)
	m.accounts.EXPECT().Update(gomock.Any(), m.tx, gomock.Any()).Times(2).Return(nil)
	m.ops.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Times(2).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	m.metrics.EXPECT().OperationRecorded(domain.OperationTransferCredit)
	m.metrics.EXPECT().OperationRecorded(domain.OperationTransferDebit)
	m.metrics.EXPECT().TransferCompleted(decimal.NewFromInt(20))

	require.NoError(t, m.uc.Transfer(context.Background(), "b", "a", decimal.NewFromInt(20)))
}

func TestAccountUseCase_CommitFailureIsReported(t *testing.T) {
	m := newAccountMocks(t)
	boom := errors.New("commit failed")

	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "a").
		Return(&domain.Account{ID: "a", Balance: decimal.NewFromInt(10), Active: true}, nil)
	m.accounts.EXPECT().Update(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.ops.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(boom)
	m.metrics.EXPECT().OperationRejected(usecase.ActionCredit, boom)

	err := m.uc.Credit(context.Background(), "a", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, boom)
}

func TestAccountUseCase_RejectedDebitNeverWrites(t *testing.T) {
	m := newAccountMocks(t)

	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "a").
		Return(&domain.Account{ID: "a", Balance: decimal.NewFromInt(10), Active: true}, nil)
	m.metrics.EXPECT().OperationRejected(usecase.ActionDebit, gomock.Any())

	err := m.uc.Debit(context.Background(), "a", decimal.NewFromInt(11))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestAccountUseCase_VersionIncrementsOnMutation(t *testing.T) {
	m := newAccountMocks(t)

	m.accounts.EXPECT().GetByIDForUpdate(gomock.Any(), m.tx, "a").
		Return(&domain.Account{ID: "a", Balance: decimal.NewFromInt(10), Active: true, Version: 4}, nil)
	m.accounts.EXPECT().Update(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, a *domain.Account) error {
			assert.Equal(t, int64(5), a.Version)
			assert.False(t, a.Active)
			return nil
		})
	m.ops.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, op *domain.Operation) error {
			assert.Equal(t, domain.OperationClose, op.Kind)
			assert.True(t, op.Value.IsZero())
			return nil
		})
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	m.metrics.EXPECT().OperationRecorded(domain.OperationClose)

	require.NoError(t, m.uc.Close(context.Background(), "a"))
}
