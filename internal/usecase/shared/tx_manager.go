package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"featured-slots/internal/domain/slot"
	"featured-slots/internal/infra/db"
	"featured-slots/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// Advisory lock keys serializing mutations per pool. Spotlight and
// promoted hold distinct keys so the pools never block each other.
const (
	lockNamespace    = int64(0x51_07)
	lockKeySpotlight = lockNamespace<<32 | 1
	lockKeyPromoted  = lockNamespace<<32 | 2
)

func poolLockKey(tier slot.Tier) int64 {
	if tier == slot.TierPromoted {
		return lockKeyPromoted
	}
	return lockKeySpotlight
}

func RunInTx[T any](ctx context.Context, pool *pgxpool.Pool, fn func(tx db.DBTX) (T, error)) (T, error) {
	var zero T

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, errs.Mark(err, ErrTransactionBegin)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			// Only log rollback errors for uncommitted transactions
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err = tx.Commit(ctx); err != nil {
		return zero, errs.Mark(err, ErrTransactionCommit)
	}

	return result, nil
}

// RunInPoolTx serializes the transaction against all other mutations of
// the same pool with a transaction-scoped advisory lock. The lock releases
// on commit or rollback, so the read-plan-write cycle inside fn always
// sees the latest committed live set.
func RunInPoolTx[T any](ctx context.Context, pool *pgxpool.Pool, tier slot.Tier, fn func(tx db.DBTX) (T, error)) (T, error) {
	return RunInTx(ctx, pool, func(tx db.DBTX) (T, error) {
		var zero T
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, poolLockKey(tier)); err != nil {
			return zero, errs.Wrap(err, "failed to acquire pool lock")
		}
		return fn(tx)
	})
}

// RunInPoolTxWithRetry is RunInPoolTx plus the retry loop; deadlocks and
// serialization failures between pools re-run the whole mutation.
func RunInPoolTxWithRetry[T any](ctx context.Context, pool *pgxpool.Pool, tier slot.Tier, fn func(tx db.DBTX) (T, error)) (T, error) {
	return RunInTxWithRetry(ctx, pool, 3, func(tx db.DBTX) (T, error) {
		var zero T
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, poolLockKey(tier)); err != nil {
			return zero, errs.Wrap(err, "failed to acquire pool lock")
		}
		return fn(tx)
	})
}

func RunInTxWithRetry[T any](ctx context.Context, pool *pgxpool.Pool, maxRetries int, fn func(tx db.DBTX) (T, error)) (T, error) {
	var zero T

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err := RunInTx(ctx, pool, fn)
		if err == nil {
			return result, nil
		}

		if !isRetryableError(err) {
			return zero, err
		}

		if attempt == maxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err)
			return zero, errs.Mark(err, ErrMaxRetriesExceeded)
		}

		waitTime := time.Duration(attempt+1) * 100 * time.Millisecond
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_time", waitTime,
			"error", err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return zero, ErrMaxRetriesExceeded
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	// PostgreSQL error codes for retryable conditions:
	// 40001: serialization_failure
	// 40P01: deadlock_detected
	switch pgErr.Code {
	case "40001", "40P01":
		return true
	default:
		return false
	}
}
