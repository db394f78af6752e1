package repository

import (
	"context"
	"sync"
	"time"

	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
)

type memoryRepo struct {
	mu           sync.RWMutex
	transactions map[string]*models.Transaction
	now          func() time.Time
}

// NewMemoryRepository creates an in-process transaction store
func NewMemoryRepository() transaction.TransactionRepo {
	return &memoryRepo{
		transactions: make(map[string]*models.Transaction),
		now:          time.Now,
	}
}

// Create inserts a new PENDING transaction
func (r *memoryRepo) Create(ctx context.Context, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[id]; exists {
		return nil, transaction.ErrDuplicateTransaction
	}

	tx := &models.Transaction{
		ID:        id,
		Status:    models.TransactionStatusPending,
		CreatedAt: r.now(),
	}
	r.transactions[id] = tx

	return copyTransaction(tx), nil
}

// Get returns a snapshot of the transaction
func (r *memoryRepo) Get(ctx context.Context, id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, exists := r.transactions[id]
	if !exists {
		return nil, transaction.ErrTransactionNotFound
	}
	return copyTransaction(tx), nil
}

// TryTransition moves a PENDING transaction to status
func (r *memoryRepo) TryTransition(ctx context.Context, id string, status models.TransactionStatus) (bool, error) {
	if !status.IsTerminal() {
		return false, transaction.ErrUnknownStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, exists := r.transactions[id]
	if !exists || tx.Status != models.TransactionStatusPending {
		return false, nil
	}

	now := r.now()
	tx.Status = status
	tx.UpdatedAt = &now
	return true, nil
}

// PurgeResolved removes terminal transactions resolved before the cutoff.
// Pending transactions are never removed.
func (r *memoryRepo) PurgeResolved(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, tx := range r.transactions {
		if tx.Status.IsTerminal() && tx.UpdatedAt != nil && tx.UpdatedAt.Before(before) {
			delete(r.transactions, id)
			purged++
		}
	}
	return purged, nil
}

func copyTransaction(tx *models.Transaction) *models.Transaction {
	cp := *tx
	if tx.UpdatedAt != nil {
		updatedAt := *tx.UpdatedAt
		cp.UpdatedAt = &updatedAt
	}
	return &cp
}
