package xrx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// recorder 按顺序记录钩子与下游回调。
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnSubscribe: func() { r.add("hook:subscribe") },
		OnNext:      func(v any) { r.add("hook:next") },
		OnSuccess:   func(v any) { r.add("hook:success") },
		OnComplete:  func() { r.add("hook:complete") },
		OnError:     func(error) { r.add("hook:error") },
		OnDispose:   func() { r.add("hook:dispose") },
		Finally:     func() { r.add("hook:finally") },
	}
}

func observerOf[T any](r *recorder) Observer[T] {
	return Observer[T]{
		OnNext:     func(T) { r.add("next") },
		OnSuccess:  func(T) { r.add("success") },
		OnComplete: func() { r.add("complete") },
		OnError:    func(error) { r.add("error") },
	}
}

// ============================================================================
// 钩子顺序
// ============================================================================

func TestHooks_Order(t *testing.T) {
	t.Run("flowable complete", func(t *testing.T) {
		r := &recorder{}
		FromSlice(1, 2).DoOnLifecycle(r.hooks()).Subscribe(context.Background(), observerOf[int](r))
		assert.Equal(t, []string{
			"hook:subscribe",
			"hook:next", "next",
			"hook:next", "next",
			"hook:complete", "complete",
			"hook:finally",
		}, r.list())
	})

	t.Run("single success", func(t *testing.T) {
		r := &recorder{}
		SingleJust("x").DoOnLifecycle(r.hooks()).Subscribe(context.Background(), observerOf[string](r))
		assert.Equal(t, []string{"hook:subscribe", "hook:success", "success", "hook:finally"}, r.list())
	})

	t.Run("error", func(t *testing.T) {
		r := &recorder{}
		SingleError[int](errBoom).DoOnLifecycle(r.hooks()).Subscribe(context.Background(), observerOf[int](r))
		assert.Equal(t, []string{"hook:subscribe", "hook:error", "error", "hook:finally"}, r.list())
	})

	t.Run("dispose before terminal", func(t *testing.T) {
		r := &recorder{}
		var sub *Subscription
		f := FlowableFrom(func(s *Subscription, o Observer[int]) {
			sub = s
			o.OnNext(1)
		})
		f.DoOnLifecycle(r.hooks()).Subscribe(context.Background(), observerOf[int](r))
		require.NotNil(t, sub)
		sub.Dispose()
		sub.Dispose()

		assert.Equal(t, []string{"hook:subscribe", "hook:next", "next", "hook:dispose", "hook:finally"}, r.list())
	})

	t.Run("dispose after terminal does not fire", func(t *testing.T) {
		r := &recorder{}
		var sub *Subscription
		f := FlowableFrom(func(s *Subscription, o Observer[int]) {
			sub = s
			o.OnComplete()
		})
		f.DoOnLifecycle(r.hooks()).Subscribe(context.Background(), observerOf[int](r))
		sub.Dispose()

		assert.Equal(t, []string{"hook:subscribe", "hook:complete", "complete", "hook:finally"}, r.list())
	})
}

func TestHooks_SignalsAfterTerminalStillFlow(t *testing.T) {
	r := &recorder{}
	f := FlowableFrom(func(s *Subscription, o Observer[int]) {
		o.OnError(errBoom)
		o.OnNext(7)
	})
	var got []int
	f.DoOnLifecycle(r.hooks()).Subscribe(context.Background(), Observer[int]{
		OnNext:  func(v int) { got = append(got, v) },
		OnError: func(err error) { r.add("error") },
	})

	assert.Equal(t, []int{7}, got, "hooks observe but never gate signals")
	assert.Equal(t, []string{"hook:subscribe", "hook:error", "error", "hook:finally", "hook:next"}, r.list())
}

func TestObserveEach_FreshHooksPerSubscription(t *testing.T) {
	calls := 0
	p := FromSlice(1, 2, 3).ObserveEach(func() Hooks {
		calls++
		return Hooks{}
	})
	f, ok := p.(Flowable[int])
	require.True(t, ok)

	_, err := f.Collect(context.Background())
	require.NoError(t, err)
	_, err = f.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestObserveEach_NilFactory(t *testing.T) {
	p := SingleJust(1).ObserveEach(nil)
	v, err := p.(Single[int]).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

// ============================================================================
// emitter 契约
// ============================================================================

func TestEmitter_Contract(t *testing.T) {
	t.Run("terminates at most once", func(t *testing.T) {
		r := &recorder{}
		s := newSubscription(context.Background())
		e := newEmitter(s, observerOf[int](r))
		e.success(1)
		e.error(errBoom)
		e.complete()
		assert.False(t, e.next(2))
		assert.Equal(t, []string{"success"}, r.list())
	})

	t.Run("drops after dispose", func(t *testing.T) {
		r := &recorder{}
		s := newSubscription(context.Background())
		e := newEmitter(s, observerOf[int](r))
		s.Dispose()
		assert.False(t, e.next(1))
		e.complete()
		assert.Empty(t, r.list())
	})
}

func TestSubscribe_RawSourceWithoutOnNext(t *testing.T) {
	src := func(_ *Subscription, o Observer[int]) {
		o.OnNext(1)
		o.OnComplete()
	}
	for name, f := range map[string]Flowable[int]{
		"plain":   FlowableFrom(src),
		"wrapped": FlowableFrom(src).DoOnLifecycle(Hooks{}),
	} {
		t.Run(name, func(t *testing.T) {
			done := false
			assert.NotPanics(t, func() {
				f.Subscribe(context.Background(), Observer[int]{OnComplete: func() { done = true }})
			})
			assert.True(t, done)
		})
	}
}
