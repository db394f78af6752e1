package transaction

import (
	"context"

	"github.com/piresc/settlement/internal/pkg/models"
)

// TransactionUC defines the interface for settlement business logic
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/settlement/services/transaction TransactionUC
type TransactionUC interface {
	Create(ctx context.Context, id string) (*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	ApplyWebhook(ctx context.Context, id string, status string) error
}
