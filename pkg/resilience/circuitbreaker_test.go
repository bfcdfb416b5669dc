package resilience

import (
	"errors"
	"io"
	"testing"
	"time"

	"realtime-chat/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreaker(failureThreshold uint, retryTimeout time.Duration) *CircuitBreaker {
	log := logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
	return NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: failureThreshold,
		SuccessThreshold: 1,
		RetryTimeout:     retryTimeout,
	}, log)
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	cb := testBreaker(3, time.Minute)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return boom })
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, StateOpen, cb.GetState())

	// Short-circuited: the function is not invoked.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := testBreaker(1, 10*time.Millisecond)

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := testBreaker(2, time.Minute)

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))

	assert.Equal(t, StateClosed, cb.GetState())
}
