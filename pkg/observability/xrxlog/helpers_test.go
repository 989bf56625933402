package xrxlog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xrxtrace/pkg/observability/xmetrics"
)

// recorder 记录日志行与对应的 context。
type recorder struct {
	mu    sync.Mutex
	lines []string
	ctxs  []context.Context
	err   error
	panic any
}

func (r *recorder) Log(ctx context.Context, line string) error {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.ctxs = append(r.ctxs, ctx)
	err, p := r.err, r.panic
	r.mu.Unlock()
	if p != nil {
		panic(p)
	}
	return err
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *recorder) Contexts() []context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]context.Context(nil), r.ctxs...)
}

// stepClock 每次调用前进 5ms。
func stepClock() func() time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var n atomic.Int64
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * 5 * time.Millisecond)
	}
}

type fakeObserver struct {
	mu      sync.Mutex
	starts  []xmetrics.SpanOptions
	results []xmetrics.Result
}

func (f *fakeObserver) Start(ctx context.Context, opts xmetrics.SpanOptions) (context.Context, xmetrics.Span) {
	f.mu.Lock()
	f.starts = append(f.starts, opts)
	f.mu.Unlock()
	return ctx, fakeSpan{f}
}

func (f *fakeObserver) Results() []xmetrics.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]xmetrics.Result(nil), f.results...)
}

type fakeSpan struct{ f *fakeObserver }

func (s fakeSpan) End(r xmetrics.Result) {
	s.f.mu.Lock()
	s.f.results = append(s.f.results, r)
	s.f.mu.Unlock()
}

// harness 组装 Dispatcher 与观测点。
type harness struct {
	d        *Dispatcher
	rec      *recorder
	obs      *fakeObserver
	finals   chan Snapshot
	mu       sync.Mutex
	internal []error
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		rec:    &recorder{},
		obs:    &fakeObserver{},
		finals: make(chan Snapshot, 16),
	}
	base := []Option{
		WithTimeSource(stepClock()),
		WithObserver(h.obs),
		WithFinalizeHook(func(s Snapshot) { h.finals <- s }),
		WithOnInternalError(func(err error) {
			h.mu.Lock()
			h.internal = append(h.internal, err)
			h.mu.Unlock()
		}),
	}
	d, err := NewDispatcher(h.rec, append(base, opts...)...)
	require.NoError(t, err)
	h.d = d
	return h
}

func (h *harness) Internal() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.internal...)
}

// final 等待一次订阅的 finally。
func (h *harness) final(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-h.finals:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("finally did not run")
		return Snapshot{}
	}
}

type timeoutError struct{}

func (timeoutError) Error() string { return "timeout" }
