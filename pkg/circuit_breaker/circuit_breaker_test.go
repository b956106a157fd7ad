package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campuslib/circulation-service/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()

	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	t.Run("opens after failure percentile exceeded", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, time.Minute, 0.30, 2)

		for i := 0; i < 10; i++ {
			require.NoError(t, cb.Call(successfulService))
		}
		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(failingService))
		}
		// breaker is open now, calls are rejected without invoking the service
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)
	})

	t.Run("half-open recovers after consecutive successes", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, 50*time.Millisecond, 0.30, 2)

		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(failingService))
		}
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)

		time.Sleep(100 * time.Millisecond)

		for i := 0; i < 5; i++ {
			require.NoError(t, cb.Call(successfulService))
		}
		require.NoError(t, cb.Call(successfulService))
	})

	t.Run("half-open trips back open on failure", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, 50*time.Millisecond, 0.30, 2)

		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(failingService))
		}
		time.Sleep(100 * time.Millisecond)

		require.Error(t, cb.Call(failingService))
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)
	})
}
