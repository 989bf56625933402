package xctx

import "errors"

// contextKey 包私有的 context key 类型。
type contextKey string

var (
	// ErrNilContext 传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrMissingTraceID 与 ErrMissingSpanID 由 Require* 在 trace 字段缺失时返回。
	ErrMissingTraceID = errors.New("xctx: missing trace_id")
	ErrMissingSpanID  = errors.New("xctx: missing span_id")

	// ErrMissingPassID 与 ErrMissingCallSite 由 Require* 在埋点字段缺失时返回。
	ErrMissingPassID   = errors.New("xctx: missing rx_pass_id")
	ErrMissingCallSite = errors.New("xctx: missing rx_call_site")
)
