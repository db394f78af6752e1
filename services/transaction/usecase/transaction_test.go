package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/piresc/settlement/internal/pkg/circuitbreaker"
	"github.com/piresc/settlement/internal/pkg/metrics"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
	"github.com/piresc/settlement/services/transaction/mocks"
	"github.com/piresc/settlement/services/transaction/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookURL = "http://settlement.local/transaction/webhook"

type testDeps struct {
	repo      transaction.TransactionRepo
	processor *mocks.MockProcessorGW
	client    *mocks.MockClientGW
	events    *mocks.MockEventGW
}

func testConfig(timeOut, interval, maxWait time.Duration) *models.Config {
	return &models.Config{
		Transaction: models.TransactionConfig{
			WebhookURL:  webhookURL,
			TimeOut:     timeOut,
			Interval:    interval,
			MaxWaitTime: maxWait,
		},
	}
}

// newTestUC wires the use case to an in-memory store and gomock gateways.
// Close runs before the controller finishes so background calls are checked.
func newTestUC(t *testing.T, cfg *models.Config) (*TransactionUC, testDeps) {
	ctrl := gomock.NewController(t)

	deps := testDeps{
		repo:      repository.NewMemoryRepository(),
		processor: mocks.NewMockProcessorGW(ctrl),
		client:    mocks.NewMockClientGW(ctrl),
		events:    mocks.NewMockEventGW(ctrl),
	}

	uc := NewTransactionUC(cfg, deps.repo, deps.processor, deps.client, deps.events)
	t.Cleanup(uc.Close)

	return uc, deps
}

func allowEvents(deps testDeps) {
	deps.events.EXPECT().
		PublishTransactionEvent(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
}

func waitForPollers(t *testing.T, uc *TransactionUC) {
	require.Eventually(t, func() bool {
		uc.mu.Lock()
		defer uc.mu.Unlock()
		return len(uc.polling) == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func isPolling(uc *TransactionUC, id string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, ok := uc.polling[id]
	return ok
}

func TestCreate_AcceptsOpaqueID(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	allowEvents(deps)

	deps.processor.EXPECT().
		Submit(gomock.Any(), "t1", webhookURL).
		Return("completed", nil).
		Times(1)

	tx, err := uc.Create(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "t1", tx.ID)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
}

func TestCreate_CallerCancelStillDefersToPolling(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(50*time.Millisecond, 10*time.Millisecond, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()

	reqCtx, cancelReq := context.WithCancel(context.Background())
	defer cancelReq()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		DoAndReturn(func(ctx context.Context, _, _ string) (string, error) {
			// the caller hangs up while the processor is slow
			cancelReq()
			assert.NoError(t, ctx.Err())
			<-ctx.Done()
			return "", ctx.Err()
		})
	deps.processor.EXPECT().
		FetchStatus(gomock.Any(), id).
		Return("completed", nil).
		Times(1)

	notified := make(chan struct{})
	deps.client.EXPECT().
		NotifyStatus(gomock.Any(), id, models.TransactionStatusCompleted).
		DoAndReturn(func(context.Context, string, models.TransactionStatus) error {
			close(notified)
			return nil
		})

	tx, err := uc.Create(reqCtx, id)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not settle the transaction")
	}

	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, stored.Status)
}

func TestCreate_SyncCompleted(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		Return("completed", nil).
		Times(1)

	tx, err := uc.Create(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.False(t, isPolling(uc, id))

	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, stored.Status)
}

func TestCreate_SyncDeclinedAnyCase(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		Return("Declined", nil)

	tx, err := uc.Create(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusDeclined, tx.Status)
}

func TestCreate_Duplicate(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		Return("completed", nil).
		Times(1)

	first, err := uc.Create(context.Background(), id)
	require.NoError(t, err)

	second, err := uc.Create(context.Background(), id)

	assert.Nil(t, second)
	assert.ErrorIs(t, err, transaction.ErrDuplicateTransaction)

	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestCreate_SyncLosesToWebhook(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		DoAndReturn(func(ctx context.Context, id, _ string) (string, error) {
			applied, err := deps.repo.TryTransition(ctx, id, models.TransactionStatusDeclined)
			require.NoError(t, err)
			require.True(t, applied)
			return "completed", nil
		})

	tx, err := uc.Create(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusDeclined, tx.Status)
}

// Scenario B: the processor misses the deadline, the create call returns
// PENDING right away and a later webhook settles it with one notification.
func TestCreate_TimeoutThenWebhookDeclined(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(20*time.Millisecond, time.Hour, 2*time.Hour))
	allowEvents(deps)
	id := uuid.New().String()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		DoAndReturn(func(ctx context.Context, _, _ string) (string, error) {
			<-ctx.Done()
			return "", fmt.Errorf("submit: %w", transaction.ErrProcessorTimeout)
		})

	notified := make(chan models.TransactionStatus, 2)
	deps.client.EXPECT().
		NotifyStatus(gomock.Any(), id, models.TransactionStatusDeclined).
		DoAndReturn(func(_ context.Context, _ string, status models.TransactionStatus) error {
			notified <- status
			return nil
		}).
		Times(1)

	start := time.Now()
	tx, err := uc.Create(context.Background(), id)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.True(t, isPolling(uc, id))

	require.NoError(t, uc.ApplyWebhook(context.Background(), id, "declined"))

	select {
	case status := <-notified:
		assert.Equal(t, models.TransactionStatusDeclined, status)
	case <-time.After(2 * time.Second):
		t.Fatal("client was not notified")
	}

	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusDeclined, stored.Status)
}

// Scenario C: a 504 starts polling and the first 429 stops it for good
func TestCreate_GatewayTimeoutThenRateLimited(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, 10*time.Millisecond, time.Minute))
	id := uuid.New().String()

	deps.events.EXPECT().
		PublishTransactionEvent(gomock.Any(), abandonedEvent(models.AbandonRateLimited)).
		Return(nil).
		Times(1)
	allowEvents(deps)

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		Return("", fmt.Errorf("submit: %w", transaction.ErrProcessorGateway))
	deps.processor.EXPECT().
		FetchStatus(gomock.Any(), id).
		Return("", fmt.Errorf("fetch status: %w", transaction.ErrProcessorRateLimited)).
		Times(1)

	tx, err := uc.Create(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)

	waitForPollers(t, uc)

	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, stored.Status)
}

func TestCreate_ProcessorFailureLeavesPendingWithoutPolling(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, 5*time.Millisecond, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		Return("", fmt.Errorf("submit: %w: HTTP error: 500", transaction.ErrProcessorFailure))

	tx, err := uc.Create(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.False(t, isPolling(uc, id))

	// FetchStatus has no expectation: any poll would fail the test
	time.Sleep(30 * time.Millisecond)
	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, stored.Status)
}

func TestCreate_UnrecognizedLabelLeavesPending(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, 5*time.Millisecond, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()

	deps.processor.EXPECT().
		Submit(gomock.Any(), id, webhookURL).
		Return("processing", nil)

	tx, err := uc.Create(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.False(t, isPolling(uc, id))
}

func TestCreate_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTransactionRepo(ctrl)
	uc := NewTransactionUC(testConfig(time.Second, time.Second, time.Minute),
		repo, mocks.NewMockProcessorGW(ctrl), mocks.NewMockClientGW(ctrl), mocks.NewMockEventGW(ctrl))
	defer uc.Close()

	id := uuid.New().String()
	storeErr := errors.New("connection refused")
	repo.EXPECT().Create(gomock.Any(), id).Return(nil, storeErr)

	tx, err := uc.Create(context.Background(), id)

	assert.Nil(t, tx)
	assert.ErrorIs(t, err, storeErr)
}

func TestApplyWebhook_Idempotent(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()
	_, err := deps.repo.Create(context.Background(), id)
	require.NoError(t, err)

	var notifications int32
	deps.client.EXPECT().
		NotifyStatus(gomock.Any(), id, models.TransactionStatusCompleted).
		DoAndReturn(func(context.Context, string, models.TransactionStatus) error {
			atomic.AddInt32(&notifications, 1)
			return nil
		}).
		Times(1)

	require.NoError(t, uc.ApplyWebhook(context.Background(), id, "completed"))
	require.NoError(t, uc.ApplyWebhook(context.Background(), id, "completed"))
	require.NoError(t, uc.ApplyWebhook(context.Background(), id, "declined"))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&notifications) == 1
	}, time.Second, 5*time.Millisecond)

	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, stored.Status)
}

func TestApplyWebhook_UnknownTransaction(t *testing.T) {
	uc, _ := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))

	err := uc.ApplyWebhook(context.Background(), uuid.New().String(), "completed")

	assert.NoError(t, err)
}

func TestApplyWebhook_UnknownStatus(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	id := uuid.New().String()
	_, err := deps.repo.Create(context.Background(), id)
	require.NoError(t, err)

	err = uc.ApplyWebhook(context.Background(), id, "refunded")

	assert.ErrorIs(t, err, transaction.ErrUnknownStatus)
	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, stored.Status)
}

func TestApplyWebhook_NotificationFailureIsSwallowed(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	allowEvents(deps)
	id := uuid.New().String()
	_, err := deps.repo.Create(context.Background(), id)
	require.NoError(t, err)

	done := make(chan struct{})
	deps.client.EXPECT().
		NotifyStatus(gomock.Any(), id, models.TransactionStatusDeclined).
		DoAndReturn(func(context.Context, string, models.TransactionStatus) error {
			close(done)
			return transaction.ErrNotificationFailed
		}).
		Times(1)

	err = uc.ApplyWebhook(context.Background(), id, "declined")
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification not attempted")
	}

	stored, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusDeclined, stored.Status)
}

func TestNotify_OpenCircuitCountsAsFailure(t *testing.T) {
	uc, deps := newTestUC(t, testConfig(time.Second, time.Second, time.Minute))
	id := uuid.New().String()

	deps.client.EXPECT().
		NotifyStatus(gomock.Any(), id, models.TransactionStatusCompleted).
		Return(fmt.Errorf("%w: %w", transaction.ErrNotificationFailed, circuitbreaker.ErrCircuitBreakerOpen))
	deps.client.EXPECT().
		NotifyStatus(gomock.Any(), id, models.TransactionStatusDeclined).
		Return(fmt.Errorf("%w: connection refused", transaction.ErrNotificationFailed))

	circuitOpen := testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues("circuit_open"))
	failed := testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues("error"))

	uc.notify(context.Background(), id, models.TransactionStatusCompleted)
	uc.notify(context.Background(), id, models.TransactionStatusDeclined)

	assert.Equal(t, circuitOpen+1, testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues("circuit_open")))
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues("error")))
}

// abandonedEvent matches the event published when polling gives up
type abandonedEvent string

func (m abandonedEvent) Matches(x interface{}) bool {
	event, ok := x.(models.TransactionEvent)
	return ok && event.Reason == string(m) && event.Status == models.TransactionStatusPending
}

func (m abandonedEvent) String() string {
	return fmt.Sprintf("is an abandoned event with reason %s", string(m))
}
