package xrx

import "context"

// Single 恰好发射一个值或一个错误。零值订阅时发射 [ErrNilSource]。
type Single[T any] struct {
	src Source[T]
}

var _ Producer = Single[int]{}

// NewSingle 以 fn 的返回值构造 Single。fn 在订阅时执行，ctx 为订阅 context。
func NewSingle[T any](fn func(ctx context.Context) (T, error)) Single[T] {
	if fn == nil {
		return SingleError[T](ErrNilSource)
	}
	return Single[T]{src: func(s *Subscription, o Observer[T]) {
		e := newEmitter(s, o)
		v, err := fn(s.Context())
		if err != nil {
			e.error(err)
			return
		}
		e.success(v)
	}}
}

// SingleJust 发射 v。
func SingleJust[T any](v T) Single[T] {
	return Single[T]{src: func(s *Subscription, o Observer[T]) {
		newEmitter(s, o).success(v)
	}}
}

// SingleError 发射 err。
func SingleError[T any](err error) Single[T] {
	return Single[T]{src: errorSource[T](err)}
}

// SingleFrom 以原始生产函数构造 Single。
func SingleFrom[T any](src Source[T]) Single[T] {
	if src == nil {
		return SingleError[T](ErrNilSource)
	}
	return Single[T]{src: src}
}

func (s Single[T]) source() Source[T] {
	if s.src == nil {
		return errorSource[T](ErrNilSource)
	}
	return s.src
}

// Kind 返回 KindSingle。
func (Single[T]) Kind() Kind { return KindSingle }

// Subscribe 订阅。
func (s Single[T]) Subscribe(ctx context.Context, o Observer[T]) *Subscription {
	return subscribe(ctx, s.source(), o)
}

// SubscribeOn 在 sch 上执行订阅。
func (s Single[T]) SubscribeOn(sch Scheduler) Single[T] {
	return Single[T]{src: subscribeOn(s.source(), sch)}
}

// ObserveOn 在 sch 上投递信号。
func (s Single[T]) ObserveOn(sch Scheduler) Single[T] {
	return Single[T]{src: observeOn(s.source(), sch)}
}

// DoOnLifecycle 为每次订阅挂载同一组钩子。
func (s Single[T]) DoOnLifecycle(h Hooks) Single[T] {
	return Single[T]{src: observeEach(s.source(), func() Hooks { return h })}
}

// ObserveEach 实现 Producer。
func (s Single[T]) ObserveEach(newHooks func() Hooks) Producer {
	return Single[T]{src: observeEach(s.source(), newHooks)}
}

// Get 订阅并阻塞等待结果。ctx 结束时释放订阅并返回 ctx.Err()。
func (s Single[T]) Get(ctx context.Context) (T, error) {
	type result struct {
		v   T
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
	sub := s.Subscribe(ctx, Observer[T]{
		OnSuccess:  func(v T) { put(result{v: v}) },
		OnComplete: func() { put(result{err: ErrNoValue}) },
		OnError:    func(err error) { put(result{err: err}) },
	})
	r, err := await(ctx, sub, ch)
	if err != nil {
		return r.v, err
	}
	return r.v, r.err
}
