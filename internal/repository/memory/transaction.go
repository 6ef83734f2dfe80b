package memory

import (
	"context"
	"sync"

	"waflens/internal/domain/repositories"
)

// TransactionManager serializes units of work. It gives isolation, not
// rollback: writes made before fn fails stay applied.
type TransactionManager struct {
	mu sync.Mutex
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return &TransactionManager{}
}

// ExecTx runs fn while holding the manager lock
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return fn(ctx)
}
