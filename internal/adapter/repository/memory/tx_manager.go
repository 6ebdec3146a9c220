package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iho/gobank/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction has already been committed or rolled back")

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store, held: make(map[string]bool)}, nil
}

// op is a staged write. It runs with the store mutex held and returns a
// function that undoes it.
type op func(s *Store) (undo func(), err error)

// Tx is an in-memory transaction.
type Tx struct {
	store *Store

	mu   sync.Mutex
	held map[string]bool
	ops  []op
	done bool
}

// lock takes the row lock for key for the rest of the transaction.
func (t *Tx) lock(ctx context.Context, key string) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return ErrTxDone
	}
	if t.held[key] {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.store.acquire(ctx, key); err != nil {
		return err
	}

	t.mu.Lock()
	t.held[key] = true
	t.mu.Unlock()
	return nil
}

func (t *Tx) stage(o op) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	t.ops = append(t.ops, o)
	return nil
}

// Commit applies all staged writes atomically. If any write fails the ones
// already applied are undone and the error is returned.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	t.done = true
	defer t.releaseLocked()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	undos := make([]func(), 0, len(t.ops))
	for _, o := range t.ops {
		undo, err := o(s)
		if err != nil {
			for i := len(undos) - 1; i >= 0; i-- {
				undos[i]()
			}
			return err
		}
		undos = append(undos, undo)
	}

	return nil
}

// Rollback discards staged writes and releases locks. Rolling back a
// finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true
	t.ops = nil
	t.releaseLocked()
	return nil
}

func (t *Tx) releaseLocked() {
	for key := range t.held {
		t.store.release(key)
	}
	t.held = map[string]bool{}
}

func txFrom(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unsupported transaction type %T", tx)
	}
	return t, nil
}
