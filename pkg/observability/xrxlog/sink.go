package xrxlog

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
)

// Logger 日志行输出能力。必须支持并发调用，不应无限阻塞。
type Logger interface {
	Log(ctx context.Context, line string) error
}

// LoggerFunc 函数适配器。
type LoggerFunc func(ctx context.Context, line string) error

// Log 实现 Logger。
func (f LoggerFunc) Log(ctx context.Context, line string) error {
	return f(ctx, line)
}

// ErrSinkWrite 表示底层 xlog 写入失败。
var ErrSinkWrite = errors.New("xrxlog: sink write failed")

type xlogSink struct {
	logger xlog.Logger
	level  xlog.Level
}

// NewXLogSink 将日志行以 level 级别写入 xlog。
//
// 行作为 msg 输出，rx_pass_id 等字段由 xlog 的 EnrichHandler 从 context 注入。
// logger 实现了 xlog.ErrorCounter 时，写入期间错误计数增加即返回 ErrSinkWrite；
// 并发写入时错误可能被计到相邻的调用上。
func NewXLogSink(logger xlog.Logger, level xlog.Level) Logger {
	if logger == nil {
		logger = xlog.Default()
	}
	return &xlogSink{logger: logger, level: level}
}

func (s *xlogSink) Log(ctx context.Context, line string) error {
	counter, counted := s.logger.(xlog.ErrorCounter)
	var before uint64
	if counted {
		before = counter.ErrorCount()
	}

	switch {
	case s.level < xlog.LevelInfo:
		s.logger.Debug(ctx, line)
	case s.level < xlog.LevelWarn:
		s.logger.Info(ctx, line)
	case s.level < xlog.LevelError:
		s.logger.Warn(ctx, line)
	default:
		s.logger.Error(ctx, line)
	}

	if counted && counter.ErrorCount() > before {
		return ErrSinkWrite
	}
	return nil
}

// =============================================================================
// 熔断
// =============================================================================

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
)

// BreakerOption 配置 BreakerLogger
type BreakerOption func(*breakerConfig)

type breakerConfig struct {
	name          string
	threshold     uint32
	openTimeout   time.Duration
	onStateChange func(from, to string)
}

// WithFailureThreshold 连续失败多少次后断开，默认 5。
func WithFailureThreshold(n uint32) BreakerOption {
	return func(c *breakerConfig) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithOpenTimeout 断开后多久进入半开试探，默认 30s。
func WithOpenTimeout(d time.Duration) BreakerOption {
	return func(c *breakerConfig) {
		if d > 0 {
			c.openTimeout = d
		}
	}
}

// WithBreakerName 设置熔断器名称，默认 "xrxlog-sink"。
func WithBreakerName(name string) BreakerOption {
	return func(c *breakerConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithOnStateChange 状态变化回调，参数为 "closed"/"open"/"half-open"。
func WithOnStateChange(fn func(from, to string)) BreakerOption {
	return func(c *breakerConfig) {
		c.onStateChange = fn
	}
}

// BreakerLogger 在下游 Logger 连续失败时停止调用它。
//
// 断开期间的日志行被丢弃并计入 Dropped，Log 返回 nil，避免每一行都触发内部错误回调。
type BreakerLogger struct {
	next    Logger
	cb      *gobreaker.CircuitBreaker[struct{}]
	dropped atomic.Uint64
}

// NewBreakerLogger 用熔断器包装 next。
func NewBreakerLogger(next Logger, opts ...BreakerOption) (*BreakerLogger, error) {
	if next == nil {
		return nil, ErrNilLogger
	}
	cfg := breakerConfig{
		name:        "xrxlog-sink",
		threshold:   defaultFailureThreshold,
		openTimeout: defaultOpenTimeout,
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(&cfg)
	}

	st := gobreaker.Settings{
		Name:    cfg.name,
		Timeout: cfg.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.threshold
		},
	}
	if cfg.onStateChange != nil {
		fn := cfg.onStateChange
		st.OnStateChange = func(_ string, from, to gobreaker.State) {
			fn(from.String(), to.String())
		}
	}
	return &BreakerLogger{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[struct{}](st),
	}, nil
}

// Log 实现 Logger。
func (b *BreakerLogger) Log(ctx context.Context, line string) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Log(ctx, line)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.dropped.Add(1)
		return nil
	}
	return err
}

// Dropped 返回断开期间丢弃的行数。
func (b *BreakerLogger) Dropped() uint64 {
	return b.dropped.Load()
}

// State 返回熔断器状态："closed"/"open"/"half-open"。
func (b *BreakerLogger) State() string {
	return b.cb.State().String()
}
