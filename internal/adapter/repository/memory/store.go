// Package memory provides in-process implementations of the repositories and
// the transaction manager. Writers are serialized by the transaction lock and
// every write inside a transaction is undone on rollback.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// ErrTxClosed is returned when a finished transaction is used again.
var ErrTxClosed = errors.New("memory: transaction already closed")

var errForeignTx = errors.New("memory: transaction not created by this store")

// Store holds all records of the in-memory backend.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	clients     map[string]*domain.Client
	clientOrder []string
	accounts    map[string]*domain.Account
	accountSeq  []string
	operations  []*domain.Operation
	users       map[string]*domain.User
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		clients:  make(map[string]*domain.Client),
		accounts: make(map[string]*domain.Account),
		users:    make(map[string]*domain.User),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction. Only one transaction is open at a time.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.store.txMu.Lock()

	return &Tx{store: m.store}, nil
}

// Tx records undo steps for the writes made through it.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

// Commit keeps the writes and releases the transaction lock.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxClosed
	}

	t.done = true
	t.undo = nil
	t.store.txMu.Unlock()

	return nil
}

// Rollback reverts the writes in reverse order and releases the transaction lock.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return ErrTxClosed
	}

	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()

	t.done = true
	t.undo = nil
	t.store.txMu.Unlock()

	return nil
}

func (t *Tx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func (s *Store) asTx(tx usecase.Transaction) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok || mtx.store != s {
		return nil, errForeignTx
	}

	if mtx.done {
		return nil, ErrTxClosed
	}

	return mtx, nil
}
