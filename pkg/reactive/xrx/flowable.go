package xrx

import (
	"context"
	"sync"
)

// Flowable 发射任意多个值，随后完成或错误。
type Flowable[T any] struct {
	src Source[T]
}

var _ Producer = Flowable[int]{}

// NewFlowable 以 fn 构造 Flowable。
//
// fn 在订阅时执行，通过 emit 发射元素；emit 返回 false 表示订阅已释放，fn 应尽快返回。
// fn 返回 nil 时完成，否则以返回的错误终止。
func NewFlowable[T any](fn func(ctx context.Context, emit func(T) bool) error) Flowable[T] {
	if fn == nil {
		return FlowableError[T](ErrNilSource)
	}
	return Flowable[T]{src: func(s *Subscription, o Observer[T]) {
		e := newEmitter(s, o)
		if err := fn(s.Context(), e.next); err != nil {
			e.error(err)
			return
		}
		e.complete()
	}}
}

// FromSlice 依次发射 items 后完成。
func FromSlice[T any](items ...T) Flowable[T] {
	return NewFlowable(func(_ context.Context, emit func(T) bool) error {
		for _, v := range items {
			if !emit(v) {
				return nil
			}
		}
		return nil
	})
}

// FromChannel 转发 ch 的元素，ch 关闭时完成。
func FromChannel[T any](ch <-chan T) Flowable[T] {
	if ch == nil {
		return FlowableError[T](ErrNilSource)
	}
	return NewFlowable(func(ctx context.Context, emit func(T) bool) error {
		for {
			select {
			case v, ok := <-ch:
				if !ok || !emit(v) {
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// FlowableError 发射 err。
func FlowableError[T any](err error) Flowable[T] {
	return Flowable[T]{src: errorSource[T](err)}
}

// FlowableFrom 以原始生产函数构造 Flowable。
func FlowableFrom[T any](src Source[T]) Flowable[T] {
	if src == nil {
		return FlowableError[T](ErrNilSource)
	}
	return Flowable[T]{src: src}
}

func (f Flowable[T]) source() Source[T] {
	if f.src == nil {
		return errorSource[T](ErrNilSource)
	}
	return f.src
}

// Kind 返回 KindFlowable。
func (Flowable[T]) Kind() Kind { return KindFlowable }

// Subscribe 订阅。
func (f Flowable[T]) Subscribe(ctx context.Context, o Observer[T]) *Subscription {
	return subscribe(ctx, f.source(), o)
}

// SubscribeOn 在 sch 上执行订阅。
func (f Flowable[T]) SubscribeOn(sch Scheduler) Flowable[T] {
	return Flowable[T]{src: subscribeOn(f.source(), sch)}
}

// ObserveOn 在 sch 上投递信号。
func (f Flowable[T]) ObserveOn(sch Scheduler) Flowable[T] {
	return Flowable[T]{src: observeOn(f.source(), sch)}
}

// DoOnLifecycle 为每次订阅挂载同一组钩子。
func (f Flowable[T]) DoOnLifecycle(h Hooks) Flowable[T] {
	return Flowable[T]{src: observeEach(f.source(), func() Hooks { return h })}
}

// ObserveEach 实现 Producer。
func (f Flowable[T]) ObserveEach(newHooks func() Hooks) Producer {
	return Flowable[T]{src: observeEach(f.source(), newHooks)}
}

// Collect 订阅并收集全部元素，直到完成或错误。
// 出错时返回错误前已收到的元素。
func (f Flowable[T]) Collect(ctx context.Context) ([]T, error) {
	type result struct {
		items []T
		err   error
	}
	ctx = normalize(ctx)
	var (
		mu    sync.Mutex
		items []T
	)
	snapshot := func() []T {
		mu.Lock()
		defer mu.Unlock()
		return append([]T(nil), items...)
	}
	ch := make(chan result, 1)
	put := func(r result) {
		select {
		case ch <- r:
		default:
		}
	}
	sub := f.Subscribe(ctx, Observer[T]{
		OnNext: func(v T) {
			mu.Lock()
			items = append(items, v)
			mu.Unlock()
		},
		OnComplete: func() { put(result{items: snapshot()}) },
		OnError:    func(err error) { put(result{items: snapshot(), err: err}) },
	})
	r, err := await(ctx, sub, ch)
	if err != nil {
		return nil, err
	}
	return r.items, r.err
}
