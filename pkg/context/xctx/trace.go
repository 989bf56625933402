package xctx

import "context"

// Trace Key 常量，遵循 OpenTelemetry 语义约定（下划线分隔）
const (
	KeyTraceID    = "trace_id"
	KeySpanID     = "span_id"
	KeyTraceFlags = "trace_flags"

	// traceFieldCount 追踪字段数量（用于 slog 属性预分配）
	traceFieldCount = 3
)

const (
	keyTraceID    = contextKey("xctx:trace_id")
	keySpanID     = contextKey("xctx:span_id")
	keyTraceFlags = contextKey("xctx:trace_flags")
)

// WithTraceID 将 trace ID 注入 context
//
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithTraceID(ctx context.Context, traceID string) (context.Context, error) {
	return withString(ctx, keyTraceID, traceID)
}

// TraceID 从 context 提取 trace ID，不存在返回空字符串
func TraceID(ctx context.Context) string {
	return stringValue(ctx, keyTraceID)
}

// RequireTraceID 从 context 获取 trace ID，不存在则返回 ErrMissingTraceID。
func RequireTraceID(ctx context.Context) (string, error) {
	return requireString(ctx, keyTraceID, ErrMissingTraceID)
}

// WithSpanID 将 span ID 注入 context
func WithSpanID(ctx context.Context, spanID string) (context.Context, error) {
	return withString(ctx, keySpanID, spanID)
}

// SpanID 从 context 提取 span ID，不存在返回空字符串
func SpanID(ctx context.Context) string {
	return stringValue(ctx, keySpanID)
}

// RequireSpanID 从 context 获取 span ID，不存在则返回 ErrMissingSpanID。
func RequireSpanID(ctx context.Context) (string, error) {
	return requireString(ctx, keySpanID, ErrMissingSpanID)
}

// WithTraceFlags 将 W3C trace flags（两位十六进制，如 "01"）注入 context
func WithTraceFlags(ctx context.Context, flags string) (context.Context, error) {
	return withString(ctx, keyTraceFlags, flags)
}

// TraceFlags 从 context 提取 trace flags，不存在返回空字符串
func TraceFlags(ctx context.Context) string {
	return stringValue(ctx, keyTraceFlags)
}

// =============================================================================
// 内部辅助函数
// =============================================================================

func withString(ctx context.Context, key contextKey, v string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, key, v), nil
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func requireString(ctx context.Context, key contextKey, missing error) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := stringValue(ctx, key)
	if v == "" {
		return "", missing
	}
	return v, nil
}
