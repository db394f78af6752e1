package transaction

import (
	"context"
	"time"

	"github.com/piresc/settlement/internal/pkg/models"
)

// TransactionRepo is the transaction store. It is the only owner of
// transaction records and TryTransition is the only way to change a status.
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/settlement/services/transaction TransactionRepo
type TransactionRepo interface {
	// Create inserts a PENDING record, failing with ErrDuplicateTransaction if id exists
	Create(ctx context.Context, id string) (*models.Transaction, error)
	// Get returns a copy of the record or ErrTransactionNotFound
	Get(ctx context.Context, id string) (*models.Transaction, error)
	// TryTransition sets status only when the record is PENDING and reports whether it did
	TryTransition(ctx context.Context, id string, status models.TransactionStatus) (bool, error)
	// PurgeResolved drops terminal records resolved before the cutoff
	PurgeResolved(ctx context.Context, before time.Time) (int, error)
}
