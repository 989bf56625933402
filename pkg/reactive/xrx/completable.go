package xrx

import "context"

// Unit 是 Completable 的占位元素类型。
type Unit = struct{}

// Completable 无值，完成或错误。
type Completable struct {
	src Source[Unit]
}

var _ Producer = Completable{}

// NewCompletable 以 fn 构造 Completable：fn 返回 nil 时完成，否则以错误终止。
func NewCompletable(fn func(ctx context.Context) error) Completable {
	if fn == nil {
		return CompletableError(ErrNilSource)
	}
	return Completable{src: func(s *Subscription, o Observer[Unit]) {
		e := newEmitter(s, o)
		if err := fn(s.Context()); err != nil {
			e.error(err)
			return
		}
		e.complete()
	}}
}

// Complete 立即完成。
func Complete() Completable {
	return Completable{src: func(s *Subscription, o Observer[Unit]) {
		newEmitter(s, o).complete()
	}}
}

// CompletableError 发射 err。
func CompletableError(err error) Completable {
	return Completable{src: errorSource[Unit](err)}
}

// CompletableFrom 以原始生产函数构造 Completable。
func CompletableFrom(src Source[Unit]) Completable {
	if src == nil {
		return CompletableError(ErrNilSource)
	}
	return Completable{src: src}
}

func (c Completable) source() Source[Unit] {
	if c.src == nil {
		return errorSource[Unit](ErrNilSource)
	}
	return c.src
}

// Kind 返回 KindCompletable。
func (Completable) Kind() Kind { return KindCompletable }

// Subscribe 订阅。
func (c Completable) Subscribe(ctx context.Context, o Observer[Unit]) *Subscription {
	return subscribe(ctx, c.source(), o)
}

// SubscribeOn 在 sch 上执行订阅。
func (c Completable) SubscribeOn(sch Scheduler) Completable {
	return Completable{src: subscribeOn(c.source(), sch)}
}

// ObserveOn 在 sch 上投递信号。
func (c Completable) ObserveOn(sch Scheduler) Completable {
	return Completable{src: observeOn(c.source(), sch)}
}

// DoOnLifecycle 为每次订阅挂载同一组钩子。
func (c Completable) DoOnLifecycle(h Hooks) Completable {
	return Completable{src: observeEach(c.source(), func() Hooks { return h })}
}

// ObserveEach 实现 Producer。
func (c Completable) ObserveEach(newHooks func() Hooks) Producer {
	return Completable{src: observeEach(c.source(), newHooks)}
}

// Await 订阅并阻塞等待完成。
func (c Completable) Await(ctx context.Context) error {
	ctx = normalize(ctx)
	ch := make(chan error, 1)
	put := func(err error) {
		select {
		case ch <- err:
		default:
		}
	}
	sub := c.Subscribe(ctx, Observer[Unit]{
		OnComplete: func() { put(nil) },
		OnError:    put,
	})
	r, err := await(ctx, sub, ch)
	if err != nil {
		return err
	}
	return r
}
