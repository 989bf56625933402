package xrx

import "context"

// Maybe 发射零或一个值，或一个错误。
type Maybe[T any] struct {
	src Source[T]
}

var _ Producer = Maybe[int]{}

// NewMaybe 以 fn 的返回值构造 Maybe：err 非空发射错误，ok 为 false 时空完成。
func NewMaybe[T any](fn func(ctx context.Context) (T, bool, error)) Maybe[T] {
	if fn == nil {
		return MaybeError[T](ErrNilSource)
	}
	return Maybe[T]{src: func(s *Subscription, o Observer[T]) {
		e := newEmitter(s, o)
		v, ok, err := fn(s.Context())
		switch {
		case err != nil:
			e.error(err)
		case ok:
			e.success(v)
		default:
			e.complete()
		}
	}}
}

// MaybeJust 发射 v。
func MaybeJust[T any](v T) Maybe[T] {
	return Maybe[T]{src: func(s *Subscription, o Observer[T]) {
		newEmitter(s, o).success(v)
	}}
}

// MaybeEmpty 不发射值直接完成。
func MaybeEmpty[T any]() Maybe[T] {
	return Maybe[T]{src: func(s *Subscription, o Observer[T]) {
		newEmitter(s, o).complete()
	}}
}

// MaybeError 发射 err。
func MaybeError[T any](err error) Maybe[T] {
	return Maybe[T]{src: errorSource[T](err)}
}

// MaybeFrom 以原始生产函数构造 Maybe。
func MaybeFrom[T any](src Source[T]) Maybe[T] {
	if src == nil {
		return MaybeError[T](ErrNilSource)
	}
	return Maybe[T]{src: src}
}

func (m Maybe[T]) source() Source[T] {
	if m.src == nil {
		return errorSource[T](ErrNilSource)
	}
	return m.src
}

// Kind 返回 KindMaybe。
func (Maybe[T]) Kind() Kind { return KindMaybe }

// Subscribe 订阅。
func (m Maybe[T]) Subscribe(ctx context.Context, o Observer[T]) *Subscription {
	return subscribe(ctx, m.source(), o)
}

// SubscribeOn 在 sch 上执行订阅。
func (m Maybe[T]) SubscribeOn(sch Scheduler) Maybe[T] {
	return Maybe[T]{src: subscribeOn(m.source(), sch)}
}

// ObserveOn 在 sch 上投递信号。
func (m Maybe[T]) ObserveOn(sch Scheduler) Maybe[T] {
	return Maybe[T]{src: observeOn(m.source(), sch)}
}

// DoOnLifecycle 为每次订阅挂载同一组钩子。
func (m Maybe[T]) DoOnLifecycle(h Hooks) Maybe[T] {
	return Maybe[T]{src: observeEach(m.source(), func() Hooks { return h })}
}

// ObserveEach 实现 Producer。
func (m Maybe[T]) ObserveEach(newHooks func() Hooks) Producer {
	return Maybe[T]{src: observeEach(m.source(), newHooks)}
}

// Get 订阅并阻塞等待结果。空完成时 ok 为 false。
func (m Maybe[T]) Get(ctx context.Context) (v T, ok bool, err error) {
	type result struct {
		v   T
		ok  bool
		err error
	}
	ctx = normalize(ctx)
	ch := make(chan result, 1)
	put := func(r result) {
		select {
		case ch <- r:
		default:
		}
	}
	sub := m.Subscribe(ctx, Observer[T]{
		OnSuccess:  func(v T) { put(result{v: v, ok: true}) },
		OnComplete: func() { put(result{}) },
		OnError:    func(err error) { put(result{err: err}) },
	})
	r, err := await(ctx, sub, ch)
	if err != nil {
		return v, false, err
	}
	return r.v, r.ok, r.err
}
