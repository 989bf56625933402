package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

// Group 一组共享 context 的服务。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group，返回的 context 在任一服务出错、Cancel 或 Wait 结束时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     options,
	}, egCtx
}

// Go 启动一个服务。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		err := fn(g.ctx)
		g.exited()
		return err
	})
}

// GoOn 以 name 作为 xrx 执行体名称启动服务，并记录启停日志。
func (g *Group) GoOn(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		logger := g.opts.log()
		logger.Debug(g.ctx, "service starting", g.attrs(name)...)

		var err error
		xrx.RunOn(name, func() { err = fn(g.ctx) })

		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn(g.ctx, "service exited with error", append(g.attrs(name), xlog.Err(err))...)
		} else {
			logger.Debug(g.ctx, "service stopped", g.attrs(name)...)
		}
		g.exited()
		return err
	})
}

func (g *Group) attrs(service string) []slog.Attr {
	return []slog.Attr{slog.String("group", g.opts.name), slog.String("service", service)}
}

func (g *Group) exited() {
	if g.opts.cancelOnExit {
		g.cancel(nil)
	}
}

// Wait 等待所有服务退出。
//
// 因 Cancel(cause) 或信号退出时返回取消原因；原因为 nil 或 context.Canceled 时返回 nil。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	if g.causeCtx.Err() != nil {
		cause := context.Cause(g.causeCtx)
		if cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
	}
	return err
}

// Cancel 以 cause 取消所有服务。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回组 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// Run 运行 services 并监听终止信号，直到全部退出。
func Run(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)

	if !g.opts.noSignalHandler {
		signals := g.opts.signals
		if len(signals) == 0 {
			signals = DefaultSignals()
		}
		g.eg.Go(func() error {
			return g.watchSignals(signals)
		})
	}

	for _, svc := range services {
		g.Go(svc)
	}
	return g.Wait()
}

func (g *Group) watchSignals(signals []os.Signal) error {
	ctx := g.ctx
	testc := testSigChan(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-testc:
	case sig = <-sigCh:
	case <-ctx.Done():
		return nil
	}
	g.opts.log().Info(ctx, "received signal",
		slog.String("group", g.opts.name), slog.String("signal", sig.String()))
	g.cancel(&SignalError{Signal: sig})
	return nil
}
