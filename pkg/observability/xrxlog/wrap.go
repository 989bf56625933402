package xrxlog

import (
	"context"
	"fmt"

	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

// WrapSingle 分发返回 Single[T] 的调用，返回挂载了埋点的 Single[T]。
func WrapSingle[T any](ctx context.Context, d *Dispatcher, site CallSite, proceed func() xrx.Single[T]) (xrx.Single[T], error) {
	return dispatchAs[xrx.Single[T]](ctx, d, SingleCall(site, proceed))
}

// WrapMaybe 分发返回 Maybe[T] 的调用。
func WrapMaybe[T any](ctx context.Context, d *Dispatcher, site CallSite, proceed func() xrx.Maybe[T]) (xrx.Maybe[T], error) {
	return dispatchAs[xrx.Maybe[T]](ctx, d, MaybeCall(site, proceed))
}

// WrapFlowable 分发返回 Flowable[T] 的调用。
func WrapFlowable[T any](ctx context.Context, d *Dispatcher, site CallSite, proceed func() xrx.Flowable[T]) (xrx.Flowable[T], error) {
	return dispatchAs[xrx.Flowable[T]](ctx, d, FlowableCall(site, proceed))
}

// WrapCompletable 分发返回 Completable 的调用。
func WrapCompletable(ctx context.Context, d *Dispatcher, site CallSite, proceed func() xrx.Completable) (xrx.Completable, error) {
	return dispatchAs[xrx.Completable](ctx, d, CompletableCall(site, proceed))
}

func dispatchAs[P xrx.Producer](ctx context.Context, d *Dispatcher, h CallHandle) (P, error) {
	var zero P
	if d == nil {
		return zero, ErrNilDispatcher
	}
	p, err := d.Dispatch(ctx, h)
	if err != nil {
		return zero, err
	}
	typed, ok := p.(P)
	if !ok {
		return zero, fmt.Errorf("%w: got %T", ErrKindMismatch, p)
	}
	return typed, nil
}
