package gateway_http

import (
	"context"
	"fmt"

	"github.com/piresc/settlement/internal/pkg/circuitbreaker"
	httpclient "github.com/piresc/settlement/internal/pkg/http"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
)

// ClientNotifier pushes final statuses to the downstream client endpoint
type ClientNotifier struct {
	client  *httpclient.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewClientNotifier creates a notifier for clientURL guarded by a circuit breaker
func NewClientNotifier(clientURL string) *ClientNotifier {
	return &ClientNotifier{
		client:  httpclient.NewClient("client", clientURL, 0),
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig("client-notifier")),
	}
}

// NotifyStatus sends a single PUT with the transaction's final status.
// There is no retry; callers log the error and move on. While the breaker is
// open no PUT is made and the returned error also matches
// circuitbreaker.ErrCircuitBreakerOpen.
func (n *ClientNotifier) NotifyStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	body := models.ClientNotification{
		Status: models.ClientStatus{
			ID:     id,
			Status: status,
		},
	}

	err := n.breaker.Execute(ctx, func(ctx context.Context) error {
		return n.client.PutJSON(ctx, "", body, nil)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", transaction.ErrNotificationFailed, err)
	}
	return nil
}
