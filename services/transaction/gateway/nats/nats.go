package gateway_nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/piresc/settlement/internal/pkg/constants"
	"github.com/piresc/settlement/internal/pkg/logger"
	"github.com/piresc/settlement/internal/pkg/models"
)

// Publisher is the subset of the NATS client the gateway needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSGateway publishes transaction lifecycle events
type NATSGateway struct {
	client Publisher
}

// NewNATSGateway creates a new NATS gateway. A nil client disables publishing.
func NewNATSGateway(client Publisher) *NATSGateway {
	return &NATSGateway{
		client: client,
	}
}

// PublishTransactionEvent publishes the event on the subject for its status
func (g *NATSGateway) PublishTransactionEvent(ctx context.Context, event models.TransactionEvent) error {
	if g.client == nil {
		return nil
	}

	subject, err := subjectFor(event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	if err := g.client.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish transaction event on %s: %w", subject, err)
	}

	logger.Debug("Published transaction event",
		logger.String("transaction_id", event.ID),
		logger.String("subject", subject))

	return nil
}

func subjectFor(event models.TransactionEvent) (string, error) {
	if event.Reason != "" {
		return constants.SubjectTransactionAbandoned, nil
	}

	switch event.Status {
	case models.TransactionStatusPending:
		return constants.SubjectTransactionCreated, nil
	case models.TransactionStatusCompleted:
		return constants.SubjectTransactionCompleted, nil
	case models.TransactionStatusDeclined:
		return constants.SubjectTransactionDeclined, nil
	default:
		return "", fmt.Errorf("no subject for transaction status %q", event.Status)
	}
}
