package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xrxtrace/pkg/lifecycle/xrun"
	"github.com/omeyang/xrxtrace/pkg/observability/xrxlog"
	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

// errGatewayTimeout 示例管道中预期的失败。
var errGatewayTimeout = errors.New("gateway timeout")

type demoOptions struct {
	items    int
	rounds   int
	interval time.Duration
}

type demoSummary struct {
	Pipelines int
	Failed    int
	Disposed  int
}

type user struct {
	ID   int
	Name string
}

func (u user) String() string { return fmt.Sprintf("user#%d(%s)", u.ID, u.Name) }

// runDemo 并发运行一轮示例管道，返回前所有 worker 已排空。
//
// 每条管道在以 pipeline-N 命名的 goroutine 上订阅，生产者运行在 io/compute worker 上，
// 日志中的 @SubscribeOn 与 @ObserveOn 因此不同。
func runDemo(ctx context.Context, d *xrxlog.Dispatcher, opts demoOptions) (demoSummary, error) {
	ioWorker := xrx.NewWorker("io")
	compute := xrx.NewWorker("compute")
	defer compute.Close()
	defer ioWorker.Close()

	var failed, disposed atomic.Int64
	pipelines := []func(context.Context) error{
		func(ctx context.Context) error {
			f, err := xrxlog.WrapFlowable(ctx, d, xrxlog.CallSite{
				Component: "UserRepo",
				Method:    "List",
				Params:    []xrxlog.Param{{Name: "limit", Value: opts.items}},
			}, func() xrx.Flowable[user] {
				return listUsers(opts.items).SubscribeOn(ioWorker)
			})
			if err != nil {
				return err
			}
			_, err = f.Collect(ctx)
			return err
		},
		func(ctx context.Context) error {
			s, err := xrxlog.WrapSingle(ctx, d, xrxlog.CallSite{
				Component: "UserRepo",
				Method:    "Get",
				Params:    []xrxlog.Param{{Name: "id", Value: 1}},
			}, func() xrx.Single[user] {
				return xrx.SingleJust(user{ID: 1, Name: "ada"}).SubscribeOn(ioWorker)
			})
			if err != nil {
				return err
			}
			_, err = s.Get(ctx)
			return err
		},
		func(ctx context.Context) error {
			s, err := xrxlog.WrapSingle(ctx, d, xrxlog.CallSite{Component: "Gateway", Method: "Call"}, func() xrx.Single[string] {
				return xrx.NewSingle(func(context.Context) (string, error) {
					return "", errGatewayTimeout
				}).SubscribeOn(compute)
			})
			if err != nil {
				return err
			}
			if _, err = s.Get(ctx); errors.Is(err, errGatewayTimeout) {
				failed.Add(1)
				return nil
			}
			return err
		},
		func(ctx context.Context) error {
			m, err := xrxlog.WrapMaybe(ctx, d, xrxlog.CallSite{
				Component: "Cache",
				Method:    "Lookup",
				Params:    []xrxlog.Param{{Name: "key", Value: "user:42"}},
			}, func() xrx.Maybe[string] {
				return xrx.MaybeEmpty[string]()
			})
			if err != nil {
				return err
			}
			_, _, err = m.Get(ctx)
			return err
		},
		func(ctx context.Context) error {
			c, err := xrxlog.WrapCompletable(ctx, d, xrxlog.CallSite{Component: "Cache", Method: "Flush"}, func() xrx.Completable {
				return xrx.NewCompletable(func(context.Context) error { return nil }).SubscribeOn(compute)
			})
			if err != nil {
				return err
			}
			return c.Await(ctx)
		},
		func(ctx context.Context) error {
			f, err := xrxlog.WrapFlowable(ctx, d, xrxlog.CallSite{Component: "Feed", Method: "Tail"}, func() xrx.Flowable[int] {
				return tick(time.Millisecond).SubscribeOn(ioWorker)
			})
			if err != nil {
				return err
			}
			if takeFirstThenDispose(ctx, f) {
				disposed.Add(1)
			}
			return nil
		},
	}

	g, _ := xrun.NewGroup(ctx, xrun.WithName("demo"))
	for i, p := range pipelines {
		g.GoOn(fmt.Sprintf("pipeline-%d", i+1), p)
	}
	if err := g.Wait(); err != nil {
		return demoSummary{}, err
	}
	return demoSummary{
		Pipelines: len(pipelines),
		Failed:    int(failed.Load()),
		Disposed:  int(disposed.Load()),
	}, nil
}

func listUsers(n int) xrx.Flowable[user] {
	return xrx.NewFlowable(func(_ context.Context, emit func(user) bool) error {
		for i := 1; i <= n; i++ {
			if !emit(user{ID: i, Name: fmt.Sprintf("u%d", i)}) {
				return nil
			}
		}
		return nil
	})
}

// tick 每隔 every 发射一个递增整数，直到订阅释放。
func tick(every time.Duration) xrx.Flowable[int] {
	return xrx.NewFlowable(func(ctx context.Context, emit func(int) bool) error {
		t := time.NewTicker(every)
		defer t.Stop()
		for i := 0; ; i++ {
			if !emit(i) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
		}
	})
}

// takeFirstThenDispose 收到第一个元素后释放订阅。ctx 先结束时返回 false。
func takeFirstThenDispose[T any](ctx context.Context, f xrx.Flowable[T]) bool {
	first := make(chan struct{})
	var once sync.Once
	sub := f.Subscribe(ctx, xrx.Observer[T]{
		OnNext: func(T) { once.Do(func() { close(first) }) },
	})
	defer sub.Dispose()

	select {
	case <-first:
		return true
	case <-ctx.Done():
		return false
	}
}
