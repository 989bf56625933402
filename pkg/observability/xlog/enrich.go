package xlog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"
)

// ErrNilHandler 当 NewEnrichHandler 的 base handler 为 nil 时返回
var ErrNilHandler = errors.New("xlog: base handler is nil")

// EnrichHandler 自动从 context 提取追踪和插桩字段并注入日志
//
// 在 Handle() 时添加：
//   - trace: trace_id, span_id, trace_flags
//   - rx: rx_pass_id, rx_call_site, rx_kind, rx_event
//
// context 中缺少的字段直接跳过。
// 对带 enrich 的 logger 调用 WithGroup 后，注入字段会落在 group 下。
type EnrichHandler struct {
	base slog.Handler
}

// NewEnrichHandler 创建 EnrichHandler
func NewEnrichHandler(base slog.Handler) (*EnrichHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &EnrichHandler{base: base}, nil
}

// Enabled 委托给底层 handler
func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle 在调用底层 handler 前注入 context 字段。
// 有字段需要注入时先 Clone record，符合 slog 契约。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf [xctx.MaxLogAttrs]slog.Attr
	attrs := xctx.AppendTraceAttrs(buf[:0], ctx)
	attrs = xctx.AppendRxAttrs(attrs, ctx)

	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler
func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{base: h.base.WithAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler
func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{base: h.base.WithGroup(name)}
}
