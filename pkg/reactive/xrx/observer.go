package xrx

import (
	"context"
	"sync/atomic"
)

// Observer 接收生产者信号。未设置的回调被忽略。
//
// 四种生产者共用同一个 Observer 形状，各类型只会调用其契约内的回调：
// Single 调用 OnSuccess/OnError，Maybe 额外调用 OnComplete，
// Flowable 调用 OnNext/OnComplete/OnError，Completable 调用 OnComplete/OnError。
type Observer[T any] struct {
	OnNext     func(T)
	OnSuccess  func(T)
	OnComplete func()
	OnError    func(error)
}

func (o Observer[T]) next(v T) {
	if o.OnNext != nil {
		o.OnNext(v)
	}
}

func (o Observer[T]) success(v T) {
	if o.OnSuccess != nil {
		o.OnSuccess(v)
	}
}

func (o Observer[T]) complete() {
	if o.OnComplete != nil {
		o.OnComplete()
	}
}

func (o Observer[T]) error(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

// Source 是原始生产函数。
//
// Source 直接驱动 Observer，不做任何契约校验：可以在终止后继续发射，
// 也可以忽略 Dispose。需要校验的场景请使用 NewSingle/NewFlowable 等构造函数。
type Source[T any] func(s *Subscription, o Observer[T])

// Hooks 生命周期观察钩子。未设置的钩子被忽略。
//
// 顺序约定：
//   - OnSubscribe 先于任何信号
//   - OnNext/OnSuccess/OnComplete/OnError 在下游回调之前执行
//   - Finally 在下游终止回调之后，或在先于终止发生的 Dispose 之后执行，每次订阅恰好一次
//   - 终止之后的 Dispose 不触发 OnDispose
type Hooks struct {
	OnSubscribe func()
	OnNext      func(v any)
	OnSuccess   func(v any)
	OnComplete  func()
	OnError     func(err error)
	OnDispose   func()
	Finally     func()
}

// subscribe 创建订阅并驱动 src。下游终止后释放订阅资源。
func subscribe[T any](ctx context.Context, src Source[T], o Observer[T]) *Subscription {
	s := newSubscription(ctx)
	src(s, Observer[T]{
		OnNext: o.next,
		OnSuccess: func(v T) {
			o.success(v)
			s.release()
		},
		OnComplete: func() {
			o.complete()
			s.release()
		},
		OnError: func(err error) {
			o.error(err)
			s.release()
		},
	})
	return s
}

// observeEach 在 src 外层挂载钩子。
func observeEach[T any](src Source[T], newHooks func() Hooks) Source[T] {
	if newHooks == nil {
		return src
	}
	return func(s *Subscription, o Observer[T]) {
		h := newHooks()

		var terminated, finalized atomic.Bool
		finally := func() {
			if finalized.CompareAndSwap(false, true) && h.Finally != nil {
				h.Finally()
			}
		}

		if h.OnSubscribe != nil {
			h.OnSubscribe()
		}
		s.OnDispose(func() {
			if terminated.Load() {
				return
			}
			if h.OnDispose != nil {
				h.OnDispose()
			}
			finally()
		})

		src(s, Observer[T]{
			OnNext: func(v T) {
				if h.OnNext != nil {
					h.OnNext(v)
				}
				o.next(v)
			},
			OnSuccess: func(v T) {
				terminated.Store(true)
				if h.OnSuccess != nil {
					h.OnSuccess(v)
				}
				o.success(v)
				finally()
			},
			OnComplete: func() {
				terminated.Store(true)
				if h.OnComplete != nil {
					h.OnComplete()
				}
				o.complete()
				finally()
			},
			OnError: func(err error) {
				terminated.Store(true)
				if h.OnError != nil {
					h.OnError(err)
				}
				o.error(err)
				finally()
			},
		})
	}
}

// emitter 为构造函数提供契约保证：终止至多一次，释放后丢弃信号。
type emitter[T any] struct {
	s    *Subscription
	o    Observer[T]
	done atomic.Bool
}

func newEmitter[T any](s *Subscription, o Observer[T]) *emitter[T] {
	return &emitter[T]{s: s, o: o}
}

func (e *emitter[T]) next(v T) bool {
	if e.done.Load() || e.s.IsDisposed() {
		return false
	}
	e.o.next(v)
	return true
}

func (e *emitter[T]) terminate() bool {
	if e.s.IsDisposed() {
		return false
	}
	return e.done.CompareAndSwap(false, true)
}

func (e *emitter[T]) success(v T) {
	if e.terminate() {
		e.o.success(v)
	}
}

func (e *emitter[T]) complete() {
	if e.terminate() {
		e.o.complete()
	}
}

func (e *emitter[T]) error(err error) {
	if e.terminate() {
		e.o.error(err)
	}
}

func errorSource[T any](err error) Source[T] {
	return func(s *Subscription, o Observer[T]) {
		newEmitter(s, o).error(err)
	}
}

// await 阻塞等待 ch 的结果，ctx 结束时释放订阅。
func await[R any](ctx context.Context, s *Subscription, ch <-chan R) (R, error) {
	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		s.Dispose()
		var zero R
		return zero, ctx.Err()
	}
}

func normalize(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
