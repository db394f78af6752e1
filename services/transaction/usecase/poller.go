package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/piresc/settlement/internal/pkg/logger"
	"github.com/piresc/settlement/internal/pkg/metrics"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
)

// schedulePoll starts the poll loop for id unless one is already running
func (uc *TransactionUC) schedulePoll(id string) {
	uc.mu.Lock()
	if _, running := uc.polling[id]; running {
		uc.mu.Unlock()
		return
	}
	uc.polling[id] = struct{}{}
	uc.mu.Unlock()

	started := uc.goBackground(func(ctx context.Context) {
		metrics.ActivePollers.Inc()
		defer metrics.ActivePollers.Dec()
		defer uc.releasePoll(id)

		uc.poll(ctx, id)
	})
	if !started {
		uc.releasePoll(id)
		logger.Warn("Shutting down, poll not started",
			logger.String("transaction_id", id))
	}
}

func (uc *TransactionUC) releasePoll(id string) {
	uc.mu.Lock()
	delete(uc.polling, id)
	uc.mu.Unlock()
}

// poll queries the processor every interval until the transaction is final,
// the processor rate limits us, or the maximum wait time runs out. It holds
// only the id and re-reads the store each round, so a webhook that settles
// the transaction stops the loop at the next iteration.
func (uc *TransactionUC) poll(ctx context.Context, id string) {
	interval := uc.cfg.Interval
	maxWait := uc.cfg.MaxWaitTime

	for retry := 0; time.Duration(retry)*interval < maxWait; retry++ {
		if !sleep(ctx, interval) {
			logger.Info("Poll cancelled by shutdown",
				logger.String("transaction_id", id),
				logger.Int("attempt", retry+1))
			return
		}

		tx, err := uc.repo.Get(ctx, id)
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return
		}
		if err != nil {
			logger.Warn("Failed to read transaction during poll",
				logger.String("transaction_id", id),
				logger.Err(err))
			continue
		}
		if tx.Status != models.TransactionStatusPending {
			return
		}

		metrics.PollAttempts.Inc()
		label, err := uc.fetchStatus(ctx, id)
		if err != nil {
			if errors.Is(err, transaction.ErrProcessorRateLimited) {
				logger.Warn("Processor rate limit reached, polling stopped",
					logger.String("transaction_id", id),
					logger.Int("attempt", retry+1))
				uc.abandon(ctx, id, models.AbandonRateLimited)
				return
			}
			if ctx.Err() != nil {
				return
			}
			logger.Warn("Status check failed",
				logger.String("transaction_id", id),
				logger.Int("attempt", retry+1),
				logger.Err(err))
			metrics.ProcessorErrors.WithLabelValues("fetch_status", errorKind(err)).Inc()
			continue
		}

		status, ok := models.ParseProcessorStatus(label)
		if !ok {
			logger.Debug("Transaction not settled yet",
				logger.String("transaction_id", id),
				logger.String("processor_status", label),
				logger.Int("attempt", retry+1))
			continue
		}

		applied, err := uc.repo.TryTransition(ctx, id, status)
		if err != nil {
			logger.Error("Failed to apply polled status",
				logger.String("transaction_id", id),
				logger.String("status", string(status)),
				logger.Err(err))
			continue
		}
		if applied {
			uc.resolved(ctx, id, status, models.ChannelPoll)
			uc.notify(ctx, id, status)
		}
		return
	}

	logger.Warn("Transaction could not be confirmed, left pending",
		logger.String("transaction_id", id),
		logger.Duration("max_wait_time", maxWait))
	uc.abandon(ctx, id, models.AbandonMaxWait)
}

// fetchStatus bounds a single status query by the synchronous timeout
func (uc *TransactionUC) fetchStatus(ctx context.Context, id string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.TimeOut)
	defer cancel()
	return uc.processorGW.FetchStatus(callCtx, id)
}

func (uc *TransactionUC) abandon(ctx context.Context, id string, reason string) {
	metrics.PollsAbandoned.WithLabelValues(reason).Inc()
	uc.publish(ctx, models.TransactionEvent{
		ID:      id,
		Status:  models.TransactionStatusPending,
		Channel: models.ChannelPoll,
		Reason:  reason,
	})
}

// sleep waits for d and reports false if ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
