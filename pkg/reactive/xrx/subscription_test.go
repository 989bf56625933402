package xrx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription_Dispose(t *testing.T) {
	t.Run("callbacks in order then context cancelled", func(t *testing.T) {
		s := newSubscription(context.Background())
		var order []string
		s.OnDispose(func() {
			order = append(order, "first")
			assert.NoError(t, s.Context().Err(), "context should still be live inside callbacks")
		})
		s.OnDispose(func() { order = append(order, "second") })

		s.Dispose()

		assert.Equal(t, []string{"first", "second"}, order)
		assert.True(t, s.IsDisposed())
		assert.ErrorIs(t, s.Context().Err(), context.Canceled)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := newSubscription(context.Background())
		calls := 0
		s.OnDispose(func() { calls++ })
		s.Dispose()
		s.Dispose()
		assert.Equal(t, 1, calls)
	})

	t.Run("register after dispose runs immediately", func(t *testing.T) {
		s := newSubscription(context.Background())
		s.Dispose()
		called := false
		s.OnDispose(func() { called = true })
		assert.True(t, called)
	})

	t.Run("nil callback ignored", func(t *testing.T) {
		s := newSubscription(context.Background())
		s.OnDispose(nil)
		assert.NotPanics(t, s.Dispose)
	})

	t.Run("nil parent", func(t *testing.T) {
		//nolint:staticcheck // 验证 nil context 兜底
		s := newSubscription(nil)
		require.NotNil(t, s.Context())
		s.Dispose()
	})
}

func TestSubscription_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSubscription(ctx)
	disposed := make(chan struct{})
	s.OnDispose(func() { close(disposed) })

	cancel()

	<-disposed
	assert.True(t, s.IsDisposed())
}

func TestSubscription_Release(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newSubscription(ctx)
	called := false
	s.OnDispose(func() { called = true })

	s.release()
	cancel()

	assert.False(t, called, "released subscription must not fire dispose callbacks")
	assert.False(t, s.IsDisposed())
	assert.Error(t, s.Context().Err())
}
