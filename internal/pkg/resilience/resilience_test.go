package resilience_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/pkg/resilience"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 2,
		Retryable:     func(err error) bool { return errors.Is(err, errTransient) },
	}
}

func TestRetryWithResult(t *testing.T) {
	ctx := context.Background()

	t.Run("should retry transient errors until success", func(t *testing.T) {
		calls := 0
		result, err := resilience.RetryWithResult(ctx, fastRetry(), func() (string, error) {
			calls++
			if calls < 3 {
				return "", errTransient
			}
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("should not retry fatal errors", func(t *testing.T) {
		calls := 0
		_, err := resilience.RetryWithResult(ctx, fastRetry(), func() (int, error) {
			calls++
			return 0, errFatal
		})

		require.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("should wrap the last error when attempts run out", func(t *testing.T) {
		calls := 0
		_, err := resilience.RetryWithResult(ctx, fastRetry(), func() (int, error) {
			calls++
			return 0, errTransient
		})

		require.ErrorIs(t, err, errTransient)
		assert.Contains(t, err.Error(), "max retries (3) exceeded")
		assert.Equal(t, 3, calls)
	})

	t.Run("should stop on a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := resilience.RetryWithResult(cancelled, fastRetry(), func() (int, error) {
			t.Fatal("fn must not be called")
			return 0, nil
		})

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	config := resilience.DefaultCircuitBreakerConfig("carrier")
	config.FailureThreshold = 2
	config.Timeout = time.Hour

	t.Run("should open after consecutive failures", func(t *testing.T) {
		cb := resilience.NewCircuitBreaker(config, nil, logger)

		for range 2 {
			_, err := resilience.Call(ctx, cb, func() (int, error) { return 0, errTransient })
			require.ErrorIs(t, err, errTransient)
		}

		calls := 0
		_, err := resilience.Call(ctx, cb, func() (int, error) { calls++; return 1, nil })

		require.ErrorIs(t, err, resilience.ErrCircuitOpen)
		assert.Equal(t, 0, calls)
		assert.Equal(t, gobreaker.StateOpen, cb.State())
	})

	t.Run("should ignore errors that are not failures", func(t *testing.T) {
		cb := resilience.NewCircuitBreaker(config, func(err error) bool { return errors.Is(err, errTransient) }, logger)

		for range 5 {
			_, err := resilience.Call(ctx, cb, func() (int, error) { return 0, errFatal })
			require.ErrorIs(t, err, errFatal)
		}

		assert.Equal(t, gobreaker.StateClosed, cb.State())
	})

	t.Run("should return typed results", func(t *testing.T) {
		cb := resilience.NewCircuitBreaker(config, nil, logger)

		got, err := resilience.Call(ctx, cb, func() ([]string, error) { return []string{"a"}, nil })

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got)
		assert.Equal(t, "carrier", cb.Name())
	})
}
