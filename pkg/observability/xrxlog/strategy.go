package xrxlog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xrxtrace/pkg/observability/xmetrics"
	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

// transitions 某一生产者类型可达的值转换。subscribe/error/dispose/finally 对所有类型可达。
type transitions struct {
	next     bool
	success  bool
	complete bool
}

var strategies = map[xrx.Kind]transitions{
	xrx.KindSingle:      {success: true},
	xrx.KindMaybe:       {success: true, complete: true},
	xrx.KindFlowable:    {next: true, complete: true},
	xrx.KindCompletable: {complete: true},
}

func strategyFor(kind xrx.Kind) (transitions, bool) {
	t, ok := strategies[kind]
	return t, ok
}

// pass 一次 Proceed 对应的埋点，生产者每被订阅一次创建一个 lifecycle。
type pass struct {
	d        *Dispatcher
	ctx      context.Context
	kind     xrx.Kind
	site     CallSite
	typeArgs []string
	id       string
	ts       transitions
	mm       *MessageManager

	subs atomic.Uint64
}

func (p *pass) newHooks() xrx.Hooks {
	lc := &lifecycle{
		p:     p,
		d:     p.d,
		mm:    p.mm,
		info:  NewComponentInfo(p.kind, p.site, p.typeArgs, p.id, p.subs.Add(1)),
		watch: p.d.newStopWatch(),
		ctx:   p.ctx,
		span:  xmetrics.NoopSpan{},
	}
	return lc.hooks()
}

// lifecycle 一次订阅的状态：ComponentInfo、StopWatch 与观测跨度。
//
// 钩子可能在不同 goroutine 上执行（subscribeOn/observeOn、从外部 Dispose），
// ctx/span/outcome 由 mu 保护。
type lifecycle struct {
	p     *pass
	d     *Dispatcher
	mm    *MessageManager
	info  *ComponentInfo
	watch *StopWatch

	mu      sync.Mutex
	ctx     context.Context
	span    xmetrics.Span
	outcome xmetrics.Outcome
	err     error
}

func (l *lifecycle) hooks() xrx.Hooks {
	h := xrx.Hooks{
		OnSubscribe: l.onSubscribe,
		OnError:     l.onError,
		OnDispose:   l.onDispose,
		Finally:     l.finally,
	}
	if l.p.ts.next {
		h.OnNext = l.onNext
	}
	if l.p.ts.success {
		h.OnSuccess = l.onSuccess
	}
	if l.p.ts.complete {
		h.OnComplete = l.onComplete
	}
	return h
}

func (l *lifecycle) context() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctx
}

func (l *lifecycle) onSubscribe() {
	l.d.guard("subscribe", func() {
		l.info.SetSubscribeOnThread(l.d.threadName())

		snap := l.info.Snapshot()
		ctx, span := xmetrics.Start(l.context(), l.d.observer, xmetrics.SpanOptions{
			CallSite:     snap.Site.Name(),
			ProducerKind: snap.Kind.String(),
			Attrs:        xmetrics.SubscriptionAttrs(snap.PassID, snap.Subscription, snap.TypeArgs),
		})
		l.mu.Lock()
		l.ctx, l.span = ctx, span
		l.mu.Unlock()

		if err := l.watch.Start(); err != nil {
			l.d.report("stopwatch start", err)
		}
		l.mm.PrintOnSubscribe(ctx, snap)
	})
}

func (l *lifecycle) observeThread() {
	l.info.SetObserveOnThread(l.d.threadName())
}

func (l *lifecycle) onNext(v any) {
	l.d.guard("next", func() {
		l.info.IncEmittedItems()
		l.observeThread()
		l.mm.PrintOnNext(l.context(), l.info.Snapshot(), v)
	})
}

func (l *lifecycle) onSuccess(v any) {
	l.d.guard("success", func() {
		l.observeThread()
		l.info.SetTotalEmittedItems(1)
		l.setOutcome(xmetrics.OutcomeCompleted, nil)
		l.mm.PrintOnSuccessWithValue(l.context(), l.info.Snapshot(), v)
	})
}

func (l *lifecycle) onComplete() {
	l.d.guard("complete", func() {
		l.observeThread()
		l.setOutcome(xmetrics.OutcomeCompleted, nil)
		l.mm.PrintOnComplete(l.context(), l.info.Snapshot())
	})
}

func (l *lifecycle) onError(err error) {
	l.d.guard("error", func() {
		l.observeThread()
		l.setOutcome(xmetrics.OutcomeFailed, err)
		l.mm.PrintOnError(l.context(), l.info.Snapshot(), err)
	})
}

func (l *lifecycle) onDispose() {
	l.d.guard("dispose", func() {
		l.setOutcome(xmetrics.OutcomeDisposed, nil)
		l.mm.PrintOnDispose(l.context(), l.info.Snapshot())
	})
}

func (l *lifecycle) finally() {
	l.d.guard("finally", func() {
		elapsed, err := l.watch.Stop()
		if err != nil {
			l.d.report("stopwatch stop", err)
		}
		l.info.SetTotalExecutionTime(elapsed)

		snap := l.info.Snapshot()
		ctx := l.context()
		l.mm.PrintItemTimeInfo(ctx, snap)
		l.mm.PrintThreadInfo(ctx, snap)

		l.mu.Lock()
		span, outcome, cause := l.span, l.outcome, l.err
		l.mu.Unlock()
		span.End(xmetrics.Result{
			Outcome: outcome,
			Err:     cause,
			Items:   snap.EmittedItems,
			Attrs:   xmetrics.FinalAttrs(snap.SubscribeThread, snap.ObserveThread, snap.ExecutionTime),
		})

		if l.d.finalizeHook != nil {
			l.d.finalizeHook(snap)
		}
	})
}

// setOutcome 记录第一个终止信号；终止与释放竞争时先到者生效。
func (l *lifecycle) setOutcome(o xmetrics.Outcome, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.outcome != "" {
		return
	}
	l.outcome, l.err = o, err
}
