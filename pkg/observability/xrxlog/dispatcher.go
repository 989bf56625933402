package xrxlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"
	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
	"github.com/omeyang/xrxtrace/pkg/observability/xmetrics"
	"github.com/omeyang/xrxtrace/pkg/observability/xsampling"
	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

// Dispatcher 按声明的生产者类型选择埋点策略。并发安全，可在多个调用点间共享。
type Dispatcher struct {
	logger          Logger
	observer        xmetrics.Observer
	sampler         xsampling.Sampler
	maxValueLen     int
	onInternalError func(error)
	finalizeHook    func(Snapshot)
	clock           func() time.Time
	threadName      func() string
	strictStopWatch bool

	disabled atomic.Bool
	mm       *MessageManager
}

// NewDispatcher 创建 Dispatcher。
func NewDispatcher(logger Logger, opts ...Option) (*Dispatcher, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	d := &Dispatcher{
		logger:          logger,
		observer:        xmetrics.NoopObserver{},
		sampler:         xsampling.Always(),
		maxValueLen:     DefaultMaxValueLen,
		onInternalError: defaultInternalErrorHandler,
		clock:           time.Now,
		threadName:      xrx.CurrentThreadName,
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(d)
	}
	d.mm = NewMessageManager(d.logger, d.maxValueLen, func(err error) { d.report("log", err) })
	return d, nil
}

func defaultInternalErrorHandler(err error) {
	xlog.Warn(context.Background(), "xrxlog: internal failure", xlog.Err(err), slog.Bool("rx_internal", true))
}

// SetEnabled 运行时开关埋点。关闭时 Dispatch 直接返回原始生产者。
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.disabled.Store(!enabled)
}

// Enabled 返回埋点是否开启。
func (d *Dispatcher) Enabled() bool {
	return !d.disabled.Load()
}

// Dispatch 执行 h 的原始调用，并为返回的生产者挂载与其类型匹配的生命周期钩子。
//
// 声明类型无法识别时返回 ErrUnsupportedKind，此时不执行 Proceed、不输出日志。
// 生产者实际类型与声明不一致时返回 ErrKindMismatch。
// 返回的生产者与原始生产者类型相同，发射的值与错误不变。
func (d *Dispatcher) Dispatch(ctx context.Context, h CallHandle) (xrx.Producer, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	kind := h.Kind()
	ts, ok := strategyFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	site := h.Site()

	if !d.traced(ctx, site) {
		return proceedChecked(h, kind)
	}

	p := &pass{
		d:        d,
		kind:     kind,
		site:     site,
		typeArgs: h.TypeArgs(),
		id:       newPassID(),
		ts:       ts,
		mm:       d.mm,
	}
	p.ctx = ctx
	if enriched, err := xctx.WithRx(ctx, xctx.Rx{PassID: p.id, CallSite: site.Name(), Kind: kind.String()}); err == nil {
		p.ctx = enriched
	}

	d.guard("component info", func() {
		d.mm.PrintComponentInfo(p.ctx, NewComponentInfo(kind, site, p.typeArgs, p.id, 0).Snapshot())
	})

	producer, err := proceedChecked(h, kind)
	if err != nil {
		return nil, err
	}
	return producer.ObserveEach(p.newHooks), nil
}

func (d *Dispatcher) traced(ctx context.Context, site CallSite) bool {
	if d.disabled.Load() {
		return false
	}
	sampleCtx := ctx
	if c, err := xctx.WithCallSite(ctx, site.Name()); err == nil {
		sampleCtx = c
	}
	sampled := true
	d.guard("sample", func() {
		sampled = d.sampler.ShouldSample(sampleCtx)
	})
	return sampled
}

func proceedChecked(h CallHandle, kind xrx.Kind) (xrx.Producer, error) {
	producer, err := h.Proceed()
	if err != nil {
		return nil, err
	}
	if got := producer.Kind(); got != kind {
		return nil, fmt.Errorf("%w: declared %s, got %s", ErrKindMismatch, kind, got)
	}
	return producer, nil
}

func (d *Dispatcher) newStopWatch() *StopWatch {
	opts := []StopWatchOption{WithClock(d.clock)}
	if d.strictStopWatch {
		opts = append(opts, WithStrictStart())
	}
	return NewStopWatch(opts...)
}

// guard 执行钩子逻辑，panic 转为 *InternalError 上报，不进入生产者。
func (d *Dispatcher) guard(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.report(op, panicError(r))
		}
	}()
	fn()
}

// report 上报内部故障。已是 *InternalError 的不再包装。
func (d *Dispatcher) report(op string, err error) {
	ie, ok := err.(*InternalError)
	if !ok {
		ie = &InternalError{Op: op, Err: err}
	}
	defer func() { _ = recover() }()
	d.onInternalError(ie)
}

func newPassID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Wrap 以 logger 和 opts 创建一次性的 Dispatcher 并分发 h。
func Wrap(ctx context.Context, h CallHandle, logger Logger, opts ...Option) (xrx.Producer, error) {
	d, err := NewDispatcher(logger, opts...)
	if err != nil {
		return nil, err
	}
	return d.Dispatch(ctx, h)
}
