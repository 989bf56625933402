package xrx

import (
	"context"
	"sync"
)

// Disposable 可释放的订阅。
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

var _ Disposable = (*Subscription)(nil)

// Subscription 表示一次订阅。
//
// 父 context 取消等价于 Dispose。订阅正常终止后，与父 context 的关联被解除，
// 之后父 context 取消不再触发释放回调。
type Subscription struct {
	ctx    context.Context
	cancel context.CancelFunc
	detach func() bool // 解除父 context 的 AfterFunc 关联

	mu        sync.Mutex
	disposed  bool
	onDispose []func()
}

func newSubscription(parent context.Context) *Subscription {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Subscription{ctx: ctx, cancel: cancel}
	s.detach = context.AfterFunc(parent, s.Dispose)
	return s
}

// Context 返回订阅 context，Dispose 后被取消。
func (s *Subscription) Context() context.Context {
	return s.ctx
}

// Dispose 释放订阅。幂等。
//
// 释放回调按注册顺序在调用方 goroutine 上同步执行，随后取消订阅 context。
func (s *Subscription) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	fns := s.onDispose
	s.onDispose = nil
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	s.cancel()
}

// IsDisposed 报告订阅是否已释放。
func (s *Subscription) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// OnDispose 注册释放回调。订阅已释放时立即执行。
func (s *Subscription) OnDispose(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return
	}
	s.onDispose = append(s.onDispose, fn)
	s.mu.Unlock()
}

// release 在订阅正常终止后调用：解除父 context 关联并释放 context 资源。
// 不触发释放回调。
func (s *Subscription) release() {
	if s.detach != nil {
		s.detach()
	}
	s.mu.Lock()
	s.onDispose = nil
	s.mu.Unlock()
	s.cancel()
}
