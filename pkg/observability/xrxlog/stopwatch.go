package xrxlog

import (
	"sync"
	"time"
)

// StopWatch 计量一次订阅从 subscribe 到 finally 的耗时。
//
// 默认重复 Start 会重置起点；WithStrictStart 下运行中的 Start 返回 ErrStopWatchRunning。
// 订阅与终止可能发生在不同 goroutine 上，内部以互斥锁保护。
type StopWatch struct {
	mu      sync.Mutex
	clock   func() time.Time
	strict  bool
	started time.Time
	running bool
	stopped bool
	elapsed time.Duration
}

// StopWatchOption 配置 StopWatch
type StopWatchOption func(*StopWatch)

// WithClock 设置时钟，nil 被忽略。
func WithClock(clock func() time.Time) StopWatchOption {
	return func(w *StopWatch) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithStrictStart 运行中再次 Start 返回错误而不是重置。
func WithStrictStart() StopWatchOption {
	return func(w *StopWatch) {
		w.strict = true
	}
}

// NewStopWatch 创建 StopWatch。
func NewStopWatch(opts ...StopWatchOption) *StopWatch {
	w := &StopWatch{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Start 记录起点。
func (w *StopWatch) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running && w.strict {
		return ErrStopWatchRunning
	}
	w.started = w.clock()
	w.running = true
	w.stopped = false
	w.elapsed = 0
	return nil
}

// Stop 计算自 Start 以来的耗时并返回。未运行时返回 ErrStopWatchNotStarted。
func (w *StopWatch) Stop() (time.Duration, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return 0, ErrStopWatchNotStarted
	}
	w.elapsed = max(w.clock().Sub(w.started), 0)
	w.running = false
	w.stopped = true
	return w.elapsed, nil
}

// Elapsed 返回最近一次 Stop 得到的耗时，Stop 之前为 0。
func (w *StopWatch) Elapsed() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elapsed
}

// ElapsedMillis 以毫秒返回 Elapsed。
func (w *StopWatch) ElapsedMillis() int64 {
	return w.Elapsed().Milliseconds()
}

// Running 是否已 Start 且未 Stop。
func (w *StopWatch) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Stopped 是否已 Stop。
func (w *StopWatch) Stopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}
