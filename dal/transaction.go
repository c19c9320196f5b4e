package dal

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// TxState is the lifecycle state of a Transaction.
type TxState int

const (
	TxIdle TxState = iota
	TxActive
	TxCommitted
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxActive:
		return "active"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// Transaction is an explicit begin/commit/rollback wrapper. It is single-use:
// once committed or rolled back it cannot be started again.
type Transaction struct {
	mu    sync.Mutex
	db    *gorm.DB
	tx    *gorm.DB
	state TxState
}

// NewTransaction returns an idle transaction on db.
func NewTransaction(db *gorm.DB) *Transaction {
	return &Transaction{db: db}
}

// State returns the current lifecycle state.
func (t *Transaction) State() TxState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// DB returns the transaction handle, or nil when not active.
func (t *Transaction) DB() *gorm.DB {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxActive {
		return nil
	}
	return t.tx
}

// Begin starts the transaction.
func (t *Transaction) Begin(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case TxActive:
		return ErrTxAlreadyStarted
	case TxCommitted, TxRolledBack:
		return ErrTxFinished
	}
	tx := t.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	t.tx = tx
	t.state = TxActive
	return nil
}

// Commit commits the transaction. On a driver error the transaction stays
// active so that the caller can roll back.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxActive {
		return ErrNoActiveTx
	}
	if err := t.tx.Commit().Error; err != nil {
		return err
	}
	t.state = TxCommitted
	return nil
}

// Rollback aborts the transaction. The state becomes rolled back even if the
// driver reports an error, since the connection is no longer usable for it.
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxActive {
		return ErrNoActiveTx
	}
	t.state = TxRolledBack
	return t.tx.Rollback().Error
}

// Execute runs fn between Begin and Commit. If fn returns an error, panics,
// or Commit fails, the transaction is rolled back and the original error is
// returned (or the panic re-raised). The transaction is never left active.
func (t *Transaction) Execute(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	if err := t.Begin(ctx); err != nil {
		return err
	}
	tx := t.DB()

	defer func() {
		if p := recover(); p != nil {
			_ = t.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		_ = t.Rollback()
		return err
	}
	if err = t.Commit(); err != nil {
		_ = t.Rollback()
		return err
	}
	return nil
}
