package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryReturnsMaxRetriesExceededAfterExhaustingAttempts(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), &RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}, func() error {
		attempts++
		return errors.New("always fails")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Equal(t, 2, attempts)
}

func TestRetryStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Retry(ctx, DefaultRetryConfig(), func() error {
		attempts++
		return errors.New("never runs long")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
}

func TestRetryWithCircuitBreakerShortCircuitsWhenBreakerOpen(t *testing.T) {
	cb := NewCircuitBreaker("peer", CircuitBreakerConfig{Threshold: 1, Timeout: time.Hour, HalfOpenRequests: 1})
	cb.RecordFailure()

	calls := 0
	err := RetryWithCircuitBreaker(context.Background(), &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}, cb, func() error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, 0, calls, "an already-open breaker should reject every attempt without calling fn")
}

func TestRetryWithCircuitBreakerRecordsSuccessAndClosesBreaker(t *testing.T) {
	cb := NewCircuitBreaker("peer", DefaultCircuitBreakerConfig())
	cb.RecordFailure()
	cb.Reset()

	err := RetryWithCircuitBreaker(context.Background(), DefaultRetryConfig(), cb, func() error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, string(StateClosed), cb.GetState())
}
