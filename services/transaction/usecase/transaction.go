package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/piresc/settlement/internal/pkg/circuitbreaker"
	"github.com/piresc/settlement/internal/pkg/logger"
	"github.com/piresc/settlement/internal/pkg/metrics"
	"github.com/piresc/settlement/internal/pkg/models"
	nr "github.com/piresc/settlement/internal/pkg/newrelic"
	"github.com/piresc/settlement/services/transaction"
)

// Create registers a new transaction and makes one synchronous attempt at the
// processor. A timeout or 504 hands the transaction over to the poller and
// returns it as PENDING; any other processor failure also returns PENDING
// but nothing follows it up except a webhook.
func (uc *TransactionUC) Create(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := uc.repo.Create(ctx, id)
	if err != nil {
		if !errors.Is(err, transaction.ErrDuplicateTransaction) {
			logger.ErrorCtx(ctx, "Failed to store transaction",
				logger.String("transaction_id", id),
				logger.Err(err))
		}
		return nil, err
	}

	metrics.TransactionsCreated.Inc()
	uc.publish(ctx, models.TransactionEvent{
		ID:      tx.ID,
		Status:  tx.Status,
		Channel: models.ChannelSync,
	})

	return uc.attemptSync(ctx, tx), nil
}

// attemptSync is bounded only by the processor timeout. A caller that hangs
// up must not turn a slow processor into an unrecoverable pending state.
func (uc *TransactionUC) attemptSync(reqCtx context.Context, tx *models.Transaction) *models.Transaction {
	ctx := context.WithoutCancel(reqCtx)

	start := time.Now()
	syncCtx, cancel := context.WithTimeout(ctx, uc.cfg.TimeOut)
	var label string
	err := nr.WithSegment(syncCtx, "processor.submit", func() (err error) {
		label, err = uc.processorGW.Submit(syncCtx, tx.ID, uc.cfg.WebhookURL)
		return err
	})
	cancel()
	metrics.SyncAttemptDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if isDeferral(err) {
			logger.InfoCtx(ctx, "Processor did not settle in time, polling for status",
				logger.String("transaction_id", tx.ID),
				logger.Err(err))
			metrics.ProcessorErrors.WithLabelValues("submit", errorKind(err)).Inc()
			uc.schedulePoll(tx.ID)
			return tx
		}

		logger.ErrorCtx(ctx, "Processor call failed, transaction left pending",
			logger.String("transaction_id", tx.ID),
			logger.Err(err))
		metrics.ProcessorErrors.WithLabelValues("submit", errorKind(err)).Inc()
		return tx
	}

	status, ok := models.ParseProcessorStatus(label)
	if !ok {
		logger.ErrorCtx(ctx, "Processor replied with an unrecognized status, transaction left pending",
			logger.String("transaction_id", tx.ID),
			logger.String("processor_status", label))
		metrics.ProcessorErrors.WithLabelValues("submit", "unknown_status").Inc()
		return tx
	}

	applied, err := uc.repo.TryTransition(ctx, tx.ID, status)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to apply processor status",
			logger.String("transaction_id", tx.ID),
			logger.String("status", string(status)),
			logger.Err(err))
		return tx
	}
	if applied {
		uc.resolved(ctx, tx.ID, status, models.ChannelSync)
	}

	// a webhook may have settled it first; either way report what is stored
	current, err := uc.repo.Get(ctx, tx.ID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to reload transaction",
			logger.String("transaction_id", tx.ID),
			logger.Err(err))
		return tx
	}
	return current
}

// Get returns the stored transaction
func (uc *TransactionUC) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return uc.repo.Get(ctx, id)
}

// ApplyWebhook settles a pending transaction from a processor push. Unknown
// ids and transactions that are already final are ignored, so repeated or
// late pushes are harmless.
func (uc *TransactionUC) ApplyWebhook(ctx context.Context, id string, label string) error {
	status, ok := models.ParseProcessorStatus(label)
	if !ok {
		return fmt.Errorf("%w: %q", transaction.ErrUnknownStatus, label)
	}

	applied, err := uc.repo.TryTransition(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to apply webhook: %w", err)
	}
	if !applied {
		logger.InfoCtx(ctx, "Webhook ignored, transaction unknown or already settled",
			logger.String("transaction_id", id),
			logger.String("status", string(status)))
		return nil
	}

	uc.resolved(ctx, id, status, models.ChannelWebhook)

	started := uc.goBackground(func(bgCtx context.Context) {
		uc.notify(bgCtx, id, status)
	})
	if !started {
		logger.WarnCtx(ctx, "Shutting down, client notification skipped",
			logger.String("transaction_id", id))
	}
	return nil
}

// resolved records a transition that this process applied
func (uc *TransactionUC) resolved(ctx context.Context, id string, status models.TransactionStatus, channel string) {
	metrics.TransactionsResolved.WithLabelValues(channel, string(status)).Inc()
	logger.InfoCtx(ctx, "Transaction settled",
		logger.String("transaction_id", id),
		logger.String("status", string(status)),
		logger.String("channel", channel))

	uc.publish(ctx, models.TransactionEvent{
		ID:      id,
		Status:  status,
		Channel: channel,
	})
}

// notify makes one delivery attempt to the client; failures are only logged
func (uc *TransactionUC) notify(ctx context.Context, id string, status models.TransactionStatus) {
	err := uc.clientGW.NotifyStatus(ctx, id, status)
	if err == nil {
		return
	}

	if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		metrics.NotificationFailures.WithLabelValues("circuit_open").Inc()
		logger.WarnCtx(ctx, "Client notification not sent, circuit breaker open",
			logger.String("transaction_id", id),
			logger.String("status", string(status)))
		return
	}

	metrics.NotificationFailures.WithLabelValues("error").Inc()
	logger.WarnCtx(ctx, "Client notification failed",
		logger.String("transaction_id", id),
		logger.String("status", string(status)),
		logger.Err(err))
}

func (uc *TransactionUC) publish(ctx context.Context, event models.TransactionEvent) {
	if uc.eventGW == nil {
		return
	}
	event.Timestamp = uc.now()
	if err := uc.eventGW.PublishTransactionEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish transaction event",
			logger.String("transaction_id", event.ID),
			logger.Err(err))
	}
}

// isDeferral reports whether the processor may still settle the transaction
// and polling should take over
func isDeferral(err error) bool {
	return errors.Is(err, transaction.ErrProcessorTimeout) ||
		errors.Is(err, transaction.ErrProcessorGateway) ||
		errors.Is(err, context.DeadlineExceeded)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, transaction.ErrProcessorTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, transaction.ErrProcessorGateway):
		return "gateway_timeout"
	case errors.Is(err, transaction.ErrProcessorRateLimited):
		return "rate_limited"
	default:
		return "failure"
	}
}
