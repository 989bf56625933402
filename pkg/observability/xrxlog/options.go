package xrxlog

import (
	"time"

	"github.com/omeyang/xrxtrace/pkg/observability/xmetrics"
	"github.com/omeyang/xrxtrace/pkg/observability/xsampling"
)

// Option 配置 Dispatcher
type Option func(*Dispatcher)

// WithObserver 为每次订阅开启一个观测跨度。默认 xmetrics.NoopObserver。
func WithObserver(obs xmetrics.Observer) Option {
	return func(d *Dispatcher) {
		if obs != nil {
			d.observer = obs
		}
	}
}

// WithSampler 决定每次 Dispatch 是否埋点。未采样的调用直接返回原始生产者。默认全采样。
func WithSampler(s xsampling.Sampler) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sampler = s
		}
	}
}

// WithMaxValueLen 值渲染的最大 rune 数，<= 0 表示不截断。默认 DefaultMaxValueLen。
func WithMaxValueLen(n int) Option {
	return func(d *Dispatcher) {
		d.maxValueLen = n
	}
}

// WithOnInternalError 引擎内部故障回调，在触发故障的 goroutine 上同步执行。
//
// 默认以 Warn 级别写入 xlog 全局 Logger。
func WithOnInternalError(fn func(error)) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.onInternalError = fn
		}
	}
}

// WithFinalizeHook 每次订阅 finally 之后以最终 Snapshot 调用 fn。
func WithFinalizeHook(fn func(Snapshot)) Option {
	return func(d *Dispatcher) {
		d.finalizeHook = fn
	}
}

// WithTimeSource 设置 StopWatch 使用的时钟。
func WithTimeSource(clock func() time.Time) Option {
	return func(d *Dispatcher) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithThreadNamer 设置执行体名称来源。默认 xrx.CurrentThreadName。
func WithThreadNamer(fn func() string) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.threadName = fn
		}
	}
}

// WithStrictStopWatch 订阅的 StopWatch 使用严格模式。
func WithStrictStopWatch() Option {
	return func(d *Dispatcher) {
		d.strictStopWatch = true
	}
}
