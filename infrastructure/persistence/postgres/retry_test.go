package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

var fastPolicy = RetryPolicy{MaxAttempts: 3, Unit: time.Millisecond}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"conn done", sql.ErrConnDone, true},
		{"wrapped bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), true},
		{"pq connection failure", &pq.Error{Code: "08006"}, true},
		{"pq unique violation", &pq.Error{Code: "23505"}, false},
		{"closed message", errors.New("connection is closed"), true},
		{"no rows", sql.ErrNoRows, false},
		{"other", errors.New("syntax error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestBackoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Unit: time.Second}
	assert.Equal(t, time.Second, p.backoff(0))
	assert.Equal(t, 2*time.Second, p.backoff(1))
	assert.Equal(t, 4*time.Second, p.backoff(2))
}

func TestWithRetry_SucceedsAfterTransientFaults(t *testing.T) {
	calls := 0
	got, err := withRetry(context.Background(), fastPolicy, logger.NewNop(), "op", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", driver.ErrBadConn
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsAfterExactlyMaxAttempts(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastPolicy, logger.NewNop(), "op", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("connection is closed")
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
	assert.Equal(t, 503, apperror.HTTPStatus(err))
}

func TestWithRetry_NonTransientFailsImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("permission denied for table users")
	_, err := withRetry(context.Background(), fastPolicy, logger.NewNop(), "op", func(context.Context) (int, error) {
		calls++
		return 0, boom
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperror.ErrStoreUnavailable)
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	slow := RetryPolicy{MaxAttempts: 3, Unit: time.Hour}

	_, err := withRetry(ctx, slow, logger.NewNop(), "op", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, driver.ErrBadConn
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), RetryPolicy{}, logger.NewNop(), "op", func(context.Context) (int, error) {
		calls++
		return 0, driver.ErrBadConn
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
}
