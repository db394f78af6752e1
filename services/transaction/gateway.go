package transaction

import (
	"context"

	"github.com/piresc/settlement/internal/pkg/models"
)

// ProcessorGW talks to the third-party processor
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/settlement/services/transaction ProcessorGW,ClientGW,EventGW
type ProcessorGW interface {
	// Submit sends the transaction and returns the processor's status label
	Submit(ctx context.Context, id, webhookURL string) (string, error)
	// FetchStatus queries the processor for the current status label
	FetchStatus(ctx context.Context, id string) (string, error)
}

// ClientGW pushes status transitions to the downstream client
type ClientGW interface {
	NotifyStatus(ctx context.Context, id string, status models.TransactionStatus) error
}

// EventGW publishes transaction lifecycle events
type EventGW interface {
	PublishTransactionEvent(ctx context.Context, event models.TransactionEvent) error
}
