package usecase

import (
	"context"
	"time"

	"github.com/piresc/settlement/internal/pkg/logger"
)

// runRetention evicts settled transactions older than the retention TTL.
// Pending transactions are never evicted.
func (uc *TransactionUC) runRetention(ctx context.Context) {
	period := uc.cfg.RetentionTTL / 2
	if period <= 0 {
		period = uc.cfg.RetentionTTL
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.purgeResolved(ctx)
		}
	}
}

func (uc *TransactionUC) purgeResolved(ctx context.Context) int {
	cutoff := uc.now().Add(-uc.cfg.RetentionTTL)

	purged, err := uc.repo.PurgeResolved(ctx, cutoff)
	if err != nil {
		logger.Warn("Failed to purge settled transactions", logger.Err(err))
		return 0
	}
	if purged > 0 {
		logger.Info("Purged settled transactions",
			logger.Int("count", purged),
			logger.String("cutoff", cutoff.Format(time.RFC3339)))
	}
	return purged
}
