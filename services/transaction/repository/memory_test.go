package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_Create(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New().String()

	tx, err := repo.Create(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.Nil(t, tx.UpdatedAt)
}

func TestMemoryRepo_CreateDuplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New().String()

	first, err := repo.Create(ctx, id)
	require.NoError(t, err)

	_, err = repo.Create(ctx, id)
	assert.ErrorIs(t, err, transaction.ErrDuplicateTransaction)

	stored, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestMemoryRepo_GetNotFound(t *testing.T) {
	repo := NewMemoryRepository()

	tx, err := repo.Get(context.Background(), "missing")

	assert.Nil(t, tx)
	assert.ErrorIs(t, err, transaction.ErrTransactionNotFound)
}

func TestMemoryRepo_GetReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New().String()
	_, err := repo.Create(ctx, id)
	require.NoError(t, err)

	tx, err := repo.Get(ctx, id)
	require.NoError(t, err)
	tx.Status = models.TransactionStatusCompleted

	stored, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, stored.Status)
}

func TestMemoryRepo_TryTransition(t *testing.T) {
	tests := []struct {
		name   string
		status models.TransactionStatus
	}{
		{name: "completed", status: models.TransactionStatusCompleted},
		{name: "declined", status: models.TransactionStatusDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryRepository()
			ctx := context.Background()
			id := uuid.New().String()
			_, err := repo.Create(ctx, id)
			require.NoError(t, err)

			applied, err := repo.TryTransition(ctx, id, tt.status)
			require.NoError(t, err)
			assert.True(t, applied)

			tx, err := repo.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.status, tx.Status)
			assert.NotNil(t, tx.UpdatedAt)
		})
	}
}

func TestMemoryRepo_TryTransitionIsAbsorbing(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New().String()
	_, err := repo.Create(ctx, id)
	require.NoError(t, err)

	applied, err := repo.TryTransition(ctx, id, models.TransactionStatusCompleted)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = repo.TryTransition(ctx, id, models.TransactionStatusDeclined)
	require.NoError(t, err)
	assert.False(t, applied)

	tx, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
}

func TestMemoryRepo_TryTransitionUnknownID(t *testing.T) {
	repo := NewMemoryRepository()

	applied, err := repo.TryTransition(context.Background(), "missing", models.TransactionStatusCompleted)

	assert.NoError(t, err)
	assert.False(t, applied)
}

func TestMemoryRepo_TryTransitionRejectsPending(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New().String()
	_, err := repo.Create(ctx, id)
	require.NoError(t, err)

	applied, err := repo.TryTransition(ctx, id, models.TransactionStatusPending)

	assert.ErrorIs(t, err, transaction.ErrUnknownStatus)
	assert.False(t, applied)
}

func TestMemoryRepo_ConcurrentTransitionsApplyOnce(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New().String()
	_, err := repo.Create(ctx, id)
	require.NoError(t, err)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		status := models.TransactionStatusCompleted
		if i%2 == 0 {
			status = models.TransactionStatusDeclined
		}
		wg.Add(1)
		go func(status models.TransactionStatus) {
			defer wg.Done()
			applied, err := repo.TryTransition(ctx, id, status)
			assert.NoError(t, err)
			if applied {
				atomic.AddInt32(&wins, 1)
			}
		}(status)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestMemoryRepo_ConcurrentCreatesSucceedOnce(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := uuid.New().String()

	var created int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(ctx, id); err == nil {
				atomic.AddInt32(&created, 1)
			} else {
				assert.ErrorIs(t, err, transaction.ErrDuplicateTransaction)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created)
}

func TestMemoryRepo_PurgeResolved(t *testing.T) {
	repo := NewMemoryRepository().(*memoryRepo)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	oldResolved := uuid.New().String()
	pending := uuid.New().String()
	_, _ = repo.Create(ctx, oldResolved)
	_, _ = repo.Create(ctx, pending)
	_, err := repo.TryTransition(ctx, oldResolved, models.TransactionStatusDeclined)
	require.NoError(t, err)

	repo.now = func() time.Time { return base.Add(time.Hour) }
	recentResolved := uuid.New().String()
	_, _ = repo.Create(ctx, recentResolved)
	_, err = repo.TryTransition(ctx, recentResolved, models.TransactionStatusCompleted)
	require.NoError(t, err)

	purged, err := repo.PurgeResolved(ctx, base.Add(30*time.Minute))

	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = repo.Get(ctx, oldResolved)
	assert.ErrorIs(t, err, transaction.ErrTransactionNotFound)
	_, err = repo.Get(ctx, pending)
	assert.NoError(t, err)
	_, err = repo.Get(ctx, recentResolved)
	assert.NoError(t, err)
}
