package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/settlement/internal/pkg/constants"
	"github.com/piresc/settlement/internal/pkg/database"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
)

// KEYS[1] transaction key; ARGV: id, status, created_at
var createScript = redis.NewScript(fmt.Sprintf(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], '%s', ARGV[1], '%s', ARGV[2], '%s', ARGV[3])
return 1
`, constants.FieldID, constants.FieldStatus, constants.FieldCreatedAt))

// KEYS[1] transaction key; ARGV: expected status, new status, updated_at, ttl in ms (0 keeps the key)
var transitionScript = redis.NewScript(fmt.Sprintf(`
if redis.call('HGET', KEYS[1], '%s') ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], '%s', ARGV[2], '%s', ARGV[3])
local ttl = tonumber(ARGV[4])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
end
return 1
`, constants.FieldStatus, constants.FieldStatus, constants.FieldUpdatedAt))

type redisRepo struct {
	redisClient *database.RedisClient
	retention   time.Duration
	now         func() time.Time
}

// NewRedisRepository creates a transaction store backed by Redis hashes.
// With a positive retention, resolved transactions expire that long after
// their transition.
func NewRedisRepository(redisClient *database.RedisClient, retention time.Duration) transaction.TransactionRepo {
	return &redisRepo{
		redisClient: redisClient,
		retention:   retention,
		now:         time.Now,
	}
}

// Create inserts a new PENDING transaction
func (r *redisRepo) Create(ctx context.Context, id string) (*models.Transaction, error) {
	createdAt := r.now().UTC()

	res, err := r.redisClient.RunScript(ctx, createScript,
		[]string{transactionKey(id)},
		id, string(models.TransactionStatusPending), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if created, _ := res.(int64); created == 0 {
		return nil, transaction.ErrDuplicateTransaction
	}

	return &models.Transaction{
		ID:        id,
		Status:    models.TransactionStatusPending,
		CreatedAt: createdAt,
	}, nil
}

// Get reads the transaction hash
func (r *redisRepo) Get(ctx context.Context, id string) (*models.Transaction, error) {
	fields, err := r.redisClient.HGetAll(ctx, transactionKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if len(fields) == 0 {
		return nil, transaction.ErrTransactionNotFound
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields[constants.FieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for transaction %s: %w", id, err)
	}

	tx := &models.Transaction{
		ID:        fields[constants.FieldID],
		Status:    models.TransactionStatus(fields[constants.FieldStatus]),
		CreatedAt: createdAt,
	}

	if raw, ok := fields[constants.FieldUpdatedAt]; ok && raw != "" {
		updatedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid updated_at for transaction %s: %w", id, err)
		}
		tx.UpdatedAt = &updatedAt
	}

	return tx, nil
}

// TryTransition runs the compare-and-set script
func (r *redisRepo) TryTransition(ctx context.Context, id string, status models.TransactionStatus) (bool, error) {
	if !status.IsTerminal() {
		return false, transaction.ErrUnknownStatus
	}

	res, err := r.redisClient.RunScript(ctx, transitionScript,
		[]string{transactionKey(id)},
		string(models.TransactionStatusPending),
		string(status),
		r.now().UTC().Format(time.RFC3339Nano),
		r.retention.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("failed to transition transaction: %w", err)
	}

	applied, _ := res.(int64)
	return applied == 1, nil
}

// PurgeResolved is a no-op: resolved keys expire on their own when a
// retention is configured.
func (r *redisRepo) PurgeResolved(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

func transactionKey(id string) string {
	return fmt.Sprintf(constants.KeyTransaction, id)
}
