package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

// RetryPolicy bounds how statements are repeated after a connection fault.
// Attempt n (zero based) is followed by a wait of 2^n * Unit.
type RetryPolicy struct {
	MaxAttempts int
	Unit        time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Unit: time.Second}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * p.Unit
}

// IsTransient reports whether err is a dropped or closed connection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return true
	}
	return strings.Contains(err.Error(), "connection is closed")
}

// withRetry runs fn until it succeeds, fails with a non-transient error, or
// the policy is exhausted. Exhaustion yields apperror.ErrStoreUnavailable.
func withRetry[T any](ctx context.Context, policy RetryPolicy, log logger.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}

		wait := policy.backoff(attempt)
		log.Warn(ctx, "Transient database error, retrying", map[string]interface{}{
			"operation": op,
			"attempt":   attempt + 1,
			"max":       attempts,
			"wait_ms":   wait.Milliseconds(),
			"error":     err.Error(),
		})

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	log.Error(ctx, "Database retries exhausted", lastErr, map[string]interface{}{
		"operation": op,
		"attempts":  attempts,
	})
	return zero, apperror.StoreUnavailable(op, lastErr)
}
