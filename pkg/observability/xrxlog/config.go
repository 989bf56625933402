package xrxlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/omeyang/xrxtrace/pkg/config/xconf"
	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
	"github.com/omeyang/xrxtrace/pkg/observability/xmetrics"
	"github.com/omeyang/xrxtrace/pkg/observability/xrotate"
	"github.com/omeyang/xrxtrace/pkg/observability/xsampling"
)

// Config 埋点配置，对应 YAML/JSON 文件：
//
//	enabled: true
//	log:   { level: info, format: text, file: "", max_size_mb: 100, max_backups: 3, max_age_days: 7, compress: true }
//	trace: { max_value_len: 256, sample_rate: 1.0, sample_by_call_site: false, sample_every: 0 }
//	sink:  { breaker: true, failure_threshold: 5, open_timeout: 30s }
//	metrics: { enabled: false, instrumentation: "" }
type Config struct {
	Enabled bool          `koanf:"enabled"`
	Log     LogConfig     `koanf:"log"`
	Trace   TraceConfig   `koanf:"trace"`
	Sink    SinkConfig    `koanf:"sink"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// LogConfig 日志输出。File 为空时写到 Build 传入的 writer。
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// TraceConfig 埋点行为。
//
// SampleEvery 大于 1 时每 n 次调用追踪 1 次，优先于 SampleRate；SampleRate 为 0 时不追踪。
type TraceConfig struct {
	MaxValueLen      int     `koanf:"max_value_len"`
	SampleRate       float64 `koanf:"sample_rate"`
	SampleByCallSite bool    `koanf:"sample_by_call_site"`
	SampleEvery      int     `koanf:"sample_every"`
}

// SinkConfig 日志输出熔断。
type SinkConfig struct {
	Breaker          bool          `koanf:"breaker"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
}

// MetricsConfig 订阅生命周期指标与 span。启用后使用全局 OTel provider，
// Instrumentation 为空时使用 xmetrics 默认名称。
type MetricsConfig struct {
	Enabled         bool   `koanf:"enabled"`
	Instrumentation string `koanf:"instrumentation"`
}

// DefaultConfig 返回默认配置。文件中缺省的键保持默认值。
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Trace: TraceConfig{
			MaxValueLen: DefaultMaxValueLen,
			SampleRate:  1,
		},
		Sink: SinkConfig{
			Breaker:          true,
			FailureThreshold: defaultFailureThreshold,
			OpenTimeout:      defaultOpenTimeout,
		},
	}
}

// LoadConfig 读取配置文件（.yaml/.yml/.json），在默认值之上覆盖并校验。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := xconf.Load(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfig 从字节数据解析配置。
func ParseConfig(data []byte, format xconf.Format) (Config, error) {
	c, err := xconf.NewFromBytes(data, format)
	if err != nil {
		return Config{}, err
	}
	return FromXConf(c)
}

// FromXConf 从已加载的 xconf.Config 解析配置，用于热重载回调。
func FromXConf(c xconf.Config) (Config, error) {
	cfg := DefaultConfig()
	if err := c.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 校验配置，返回所有问题。
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
		add("log.level %q", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "json":
	default:
		add("log.format %q", c.Log.Format)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		add("log rotation limits must not be negative")
	}
	if c.Trace.MaxValueLen < 0 {
		add("trace.max_value_len %d", c.Trace.MaxValueLen)
	}
	if math.IsNaN(c.Trace.SampleRate) || c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		add("trace.sample_rate %v", c.Trace.SampleRate)
	}
	if c.Trace.SampleEvery < 0 {
		add("trace.sample_every %d", c.Trace.SampleEvery)
	}
	if c.Sink.Breaker {
		if c.Sink.FailureThreshold == 0 {
			add("sink.failure_threshold must be >= 1")
		}
		if c.Sink.OpenTimeout <= 0 {
			add("sink.open_timeout must be positive")
		}
	}
	return errors.Join(errs...)
}

// sampler 按配置选择采样器。
func (c Config) sampler() (xsampling.Sampler, error) {
	switch {
	case c.Trace.SampleRate <= 0:
		return xsampling.Never(), nil
	case c.Trace.SampleEvery > 1:
		return xsampling.NewCountSampler(c.Trace.SampleEvery)
	case c.Trace.SampleRate >= 1:
		return xsampling.Always(), nil
	case c.Trace.SampleByCallSite:
		return xsampling.ByCallSite(c.Trace.SampleRate)
	default:
		return xsampling.NewRateSampler(c.Trace.SampleRate)
	}
}

// Runtime 由 Config 构建的埋点运行时。
type Runtime struct {
	// Dispatcher 供拦截层使用。
	Dispatcher *Dispatcher
	// Logger 底层 xlog，可动态调整级别。
	Logger xlog.LoggerWithLevel
	// Breaker 未启用熔断时为 nil。
	Breaker *BreakerLogger

	cleanup func() error
}

// Build 按配置构建日志、熔断与 Dispatcher。
//
// cfg.Log.File 为空时日志写到 out（nil 时为 stderr）。opts 追加在配置派生的选项之后，
// 可覆盖采样器等设置。
func Build(cfg Config, out io.Writer, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := xlog.New().SetLevelString(cfg.Log.Level).SetFormat(cfg.Log.Format)
	switch {
	case cfg.Log.File != "":
		b = b.SetRotation(cfg.Log.File,
			xrotate.WithMaxSize(cfg.Log.MaxSizeMB),
			xrotate.WithMaxBackups(cfg.Log.MaxBackups),
			xrotate.WithMaxAge(cfg.Log.MaxAgeDays),
			xrotate.WithCompress(cfg.Log.Compress),
		)
	case out != nil:
		b = b.SetOutput(out)
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Logger: logger, cleanup: cleanup}
	sink := NewXLogSink(logger, xlog.LevelInfo)
	if cfg.Sink.Breaker {
		rt.Breaker, err = NewBreakerLogger(sink,
			WithFailureThreshold(cfg.Sink.FailureThreshold),
			WithOpenTimeout(cfg.Sink.OpenTimeout),
			WithOnStateChange(func(from, to string) {
				logger.Warn(context.Background(), "xrxlog: sink breaker state changed",
					xlog.Operation("sink"), slog.String("from", from), slog.String("to", to))
			}),
		)
		if err != nil {
			return nil, errors.Join(err, cleanup())
		}
		sink = rt.Breaker
	}

	sampler, err := cfg.sampler()
	if err != nil {
		return nil, errors.Join(err, cleanup())
	}
	all := []Option{
		WithSampler(sampler),
		WithMaxValueLen(cfg.Trace.MaxValueLen),
	}
	if cfg.Metrics.Enabled {
		obs, err := xmetrics.NewOTelObserver(xmetrics.WithInstrumentationName(cfg.Metrics.Instrumentation))
		if err != nil {
			return nil, errors.Join(err, cleanup())
		}
		all = append(all, WithObserver(obs))
	}
	all = append(all, opts...)
	rt.Dispatcher, err = NewDispatcher(sink, all...)
	if err != nil {
		return nil, errors.Join(err, cleanup())
	}
	rt.Dispatcher.SetEnabled(cfg.Enabled)
	return rt, nil
}

// Apply 应用可热更新的配置项：enabled 与 log.level。其余配置需要重新 Build。
func (r *Runtime) Apply(cfg Config) error {
	level, err := xlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, cfg.Log.Level)
	}
	r.Logger.SetLevel(level)
	r.Dispatcher.SetEnabled(cfg.Enabled)
	return nil
}

// Close 关闭日志文件，可重复调用。
func (r *Runtime) Close() error {
	if r == nil || r.cleanup == nil {
		return nil
	}
	return r.cleanup()
}
