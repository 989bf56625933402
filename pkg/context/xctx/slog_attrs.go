package xctx

import (
	"context"
	"log/slog"
)

// =============================================================================
// Trace slog 集成
// =============================================================================

// AppendTraceAttrs 将 context 中的追踪信息追加到现有切片。
// 传入预分配的切片，只追加非空字段。
func AppendTraceAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if v := TraceID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyTraceID, v))
	}
	if v := SpanID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeySpanID, v))
	}
	if v := TraceFlags(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyTraceFlags, v))
	}
	return attrs
}

// =============================================================================
// Rx slog 集成
// =============================================================================

// AppendRxAttrs 将 context 中的 rx 字段追加到现有切片，只追加非空字段。
func AppendRxAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if v := PassID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyPassID, v))
	}
	if v := CallSite(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyCallSite, v))
	}
	if v := Kind(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyKind, v))
	}
	if v := Event(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyEvent, v))
	}
	return attrs
}

// =============================================================================
// 合并 slog 集成
// =============================================================================

// MaxLogAttrs LogAttrs 最多返回的属性数量，调用方可据此预分配栈数组。
const MaxLogAttrs = traceFieldCount + rxFieldCount

// LogAttrs 从 context 提取追踪与 rx 字段，转换为 slog.Attr 切片。
// 追踪字段在前。没有任何字段时返回 nil。
func LogAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := AppendRxAttrs(AppendTraceAttrs(make([]slog.Attr, 0, MaxLogAttrs), ctx), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
