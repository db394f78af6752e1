package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/piresc/settlement/internal/pkg/config"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
)

// TransactionUC implements the settlement use case
type TransactionUC struct {
	cfg         models.TransactionConfig
	repo        transaction.TransactionRepo
	processorGW transaction.ProcessorGW
	clientGW    transaction.ClientGW
	eventGW     transaction.EventGW

	// background work outlives requests and stops only on Close
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	polling map[string]struct{}

	now func() time.Time
}

// NewTransactionUC creates a new transaction use case. When a retention TTL
// is configured the purge loop starts immediately.
func NewTransactionUC(
	cfg *models.Config,
	repo transaction.TransactionRepo,
	processorGW transaction.ProcessorGW,
	clientGW transaction.ClientGW,
	eventGW transaction.EventGW,
) *TransactionUC {
	txCfg := cfg.Transaction
	if txCfg.TimeOut <= 0 {
		txCfg.TimeOut = config.DefaultTimeOutMs * time.Millisecond
	}
	if txCfg.Interval <= 0 {
		txCfg.Interval = config.DefaultIntervalMs * time.Millisecond
	}
	if txCfg.MaxWaitTime <= 0 {
		txCfg.MaxWaitTime = config.DefaultMaxWaitTimeMs * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	uc := &TransactionUC{
		cfg:         txCfg,
		repo:        repo,
		processorGW: processorGW,
		clientGW:    clientGW,
		eventGW:     eventGW,
		ctx:         ctx,
		cancel:      cancel,
		polling:     make(map[string]struct{}),
		now:         time.Now,
	}

	if txCfg.RetentionTTL > 0 {
		uc.goBackground(uc.runRetention)
	}

	return uc
}

// Close stops pollers and pending notifications and waits for them to exit.
// Transactions still pending stay pending.
func (uc *TransactionUC) Close() {
	uc.mu.Lock()
	uc.closed = true
	uc.mu.Unlock()

	uc.cancel()
	uc.wg.Wait()
}

// goBackground runs fn on the use case context unless Close was called
func (uc *TransactionUC) goBackground(fn func(ctx context.Context)) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.closed {
		return false
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		fn(uc.ctx)
	}()
	return true
}
