package xmetrics

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xrxtrace/xmetrics"
	unknownCallSite            = "unknown"
	unknownKind                = "unknown"

	metricLifecycleTotal    = "xrx.lifecycle.total"
	metricLifecycleDuration = "xrx.lifecycle.duration"
	metricItemsEmitted      = "xrx.items.emitted"

	attrCallSite = "call_site"
	attrKind     = "kind"
	attrOutcome  = "outcome"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Observer 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称，空字符串被忽略。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，nil 被忽略。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider，nil 被忽略。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。未指定 provider 时使用全局 provider。
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	total, err := meter.Int64Counter(
		metricLifecycleTotal,
		metric.WithDescription("terminated reactive subscriptions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCreateInstrument, metricLifecycleTotal, err)
	}
	items, err := meter.Int64Counter(
		metricItemsEmitted,
		metric.WithDescription("items emitted by reactive subscriptions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCreateInstrument, metricItemsEmitted, err)
	}
	duration, err := meter.Float64Histogram(
		metricLifecycleDuration,
		metric.WithDescription("time from subscribe to terminal signal"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCreateInstrument, metricLifecycleDuration, err)
	}

	return &otelObserver{
		tracer:   cfg.tracerProvider.Tracer(cfg.instrumentationName),
		total:    total,
		items:    items,
		duration: duration,
	}, nil
}

type otelObserver struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	items    metric.Int64Counter
	duration metric.Float64Histogram
}

// Start 开始一次观测跨度。返回的 ctx 携带新 span 的 trace_id/span_id（xctx 字段）。
func (o *otelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ensureParentSpan(ctx)

	callSite := opts.CallSite
	if callSite == "" {
		callSite = unknownCallSite
	}
	kind := opts.ProducerKind
	if kind == "" {
		kind = unknownKind
	}

	attrs := make([]attribute.KeyValue, 0, 2+len(opts.Attrs))
	attrs = append(attrs,
		attribute.String("rx.call_site", callSite),
		attribute.String("rx.kind", kind),
	)
	attrs = append(attrs, attrsToOTel(opts.Attrs)...)

	ctx, span := o.tracer.Start(
		ctx,
		callSite,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	ctx = syncXctx(ctx, span.SpanContext())

	return ctx, &otelSpan{
		span:     span,
		observer: o,
		ctx:      ctx,
		callSite: callSite,
		kind:     kind,
		start:    time.Now(),
	}
}

type otelSpan struct {
	span     trace.Span
	observer *otelObserver
	ctx      context.Context
	callSite string
	kind     string
	start    time.Time
	endOnce  sync.Once
}

// End 结束观测并记录结果。重复调用只记录一次。
func (s *otelSpan) End(result Result) {
	if s == nil {
		return
	}
	s.endOnce.Do(func() {
		outcome := resolveOutcome(result)

		if result.Err != nil {
			s.span.RecordError(result.Err)
		}
		switch outcome {
		case OutcomeFailed:
			msg := "subscription failed"
			if result.Err != nil {
				msg = result.Err.Error()
			}
			s.span.SetStatus(codes.Error, msg)
		default:
			s.span.SetStatus(codes.Ok, "")
		}
		s.span.SetAttributes(
			attribute.String("rx.outcome", string(outcome)),
			attribute.Int64("rx.items", result.Items),
		)
		if len(result.Attrs) > 0 {
			s.span.SetAttributes(attrsToOTel(result.Attrs)...)
		}
		s.span.End()

		if s.observer == nil {
			return
		}
		// 订阅 context 可能已被释放取消，指标仍需记录
		metricsCtx := context.WithoutCancel(s.ctx)
		attrs := metric.WithAttributes(metricAttrs(s.callSite, s.kind, outcome)...)
		s.observer.total.Add(metricsCtx, 1, attrs)
		s.observer.duration.Record(metricsCtx, time.Since(s.start).Seconds(), attrs)
		if result.Items > 0 {
			s.observer.items.Add(metricsCtx, result.Items, attrs)
		}
	})
}

func metricAttrs(callSite, kind string, outcome Outcome) []attribute.KeyValue {
	var attrs [3]attribute.KeyValue
	attrs[0] = attribute.String(attrCallSite, callSite)
	attrs[1] = attribute.String(attrKind, kind)
	attrs[2] = attribute.String(attrOutcome, string(outcome))
	return attrs[:]
}

func attrsToOTel(attrs []Attr) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	converted := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key == "" || attr.Value == nil {
			continue
		}
		converted = append(converted, toKeyValue(attr))
	}
	return converted
}

func toKeyValue(attr Attr) attribute.KeyValue {
	switch v := attr.Value.(type) {
	case string:
		return attribute.String(attr.Key, v)
	case bool:
		return attribute.Bool(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int64:
		return attribute.Int64(attr.Key, v)
	case uint64:
		if v <= math.MaxInt64 {
			return attribute.Int64(attr.Key, int64(v))
		}
		return attribute.String(attr.Key, strconv.FormatUint(v, 10))
	case float64:
		return attribute.Float64(attr.Key, v)
	case time.Duration:
		return attribute.Int64(attr.Key, v.Nanoseconds())
	default:
		return attribute.String(attr.Key, fmt.Sprint(v))
	}
}

// ensureParentSpan 在 ctx 没有有效 span 时，以 xctx 中的 trace_id/span_id 构造远端父 span。
func ensureParentSpan(ctx context.Context) context.Context {
	span := trace.SpanFromContext(ctx)
	if span != nil && span.SpanContext().IsValid() {
		return ctx
	}

	traceID := xctx.TraceID(ctx)
	spanID := xctx.SpanID(ctx)
	if traceID == "" || spanID == "" {
		return ctx
	}
	parsedTraceID, err := trace.TraceIDFromHex(traceID)
	if err != nil {
		return ctx
	}
	parsedSpanID, err := trace.SpanIDFromHex(spanID)
	if err != nil {
		return ctx
	}

	var traceFlags trace.TraceFlags
	if flagsStr := xctx.TraceFlags(ctx); flagsStr != "" {
		if parsed, err := strconv.ParseUint(flagsStr, 16, 8); err == nil {
			traceFlags = trace.TraceFlags(parsed)
		}
	}

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    parsedTraceID,
		SpanID:     parsedSpanID,
		TraceFlags: traceFlags,
		Remote:     true,
	})
	return trace.ContextWithSpanContext(ctx, parent)
}

func syncXctx(ctx context.Context, sc trace.SpanContext) context.Context {
	if !sc.IsValid() {
		return ctx
	}
	if newCtx, err := xctx.WithTraceID(ctx, sc.TraceID().String()); err == nil {
		ctx = newCtx
	}
	if newCtx, err := xctx.WithSpanID(ctx, sc.SpanID().String()); err == nil {
		ctx = newCtx
	}
	// 两位十六进制，如 "01"
	if newCtx, err := xctx.WithTraceFlags(ctx, sc.TraceFlags().String()); err == nil {
		ctx = newCtx
	}
	return ctx
}
