package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker(t *testing.T) {
	boom := errors.New("boom")

	t.Run("stays closed on success", func(t *testing.T) {
		cb := New(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})
		for i := 0; i < 5; i++ {
			assert.NoError(t, cb.Execute(func() error { return nil }))
		}
	})

	t.Run("opens after max failures", func(t *testing.T) {
		cb := New(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)

		err := cb.Execute(func() error { return nil })
		assert.ErrorIs(t, err, ErrOpen)
	})

	t.Run("half-open probe closes on success", func(t *testing.T) {
		cb := New(Settings{Name: "test", MaxFailures: 1, Timeout: 10 * time.Millisecond})
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
		require.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)

		time.Sleep(20 * time.Millisecond)
		assert.NoError(t, cb.Execute(func() error { return nil }))
		assert.NoError(t, cb.Execute(func() error { return nil }))
	})

	t.Run("half-open probe failure reopens", func(t *testing.T) {
		cb := New(Settings{Name: "test", MaxFailures: 3, Timeout: 10 * time.Millisecond})
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)

		time.Sleep(20 * time.Millisecond)
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
		assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)
	})
}
