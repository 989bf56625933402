package xmetrics

import "context"

// Outcome 表示一次订阅的终止方式。
type Outcome string

const (
	// OutcomeCompleted 正常完成（含 Single/Maybe 成功）。
	OutcomeCompleted Outcome = "completed"
	// OutcomeFailed 以错误终止。
	OutcomeFailed Outcome = "failed"
	// OutcomeDisposed 被下游释放。
	OutcomeDisposed Outcome = "disposed"
)

// Attr 表示观测属性。
type Attr struct {
	Key   string
	Value any
}

// SpanOptions 定义观测跨度的创建参数。
type SpanOptions struct {
	// CallSite 调用点名称，如 "Repo.List"。
	CallSite string
	// ProducerKind 生产者类型，如 "Flowable"。
	ProducerKind string
	// Attrs 附加属性。
	Attrs []Attr
}

// Result 表示观测跨度结束时的结果。
type Result struct {
	// Outcome 为空时根据 Err 推导。
	Outcome Outcome
	Err     error
	// Items 本次订阅发射的元素数。
	Items int64
	Attrs []Attr
}

// Span 表示一次观测跨度。
type Span interface {
	// End 结束观测并记录结果。
	End(result Result)
}

// Observer 定义统一观测接口。
type Observer interface {
	// Start 开始一次观测跨度。
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 是空实现。
type NoopObserver struct{}

// Start 返回 ctx 和空跨度。若 ctx 为 nil，返回 context.Background()。
func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 是空跨度实现。
type NoopSpan struct{}

// End 空实现。
func (NoopSpan) End(_ Result) {}

// Start 使用 observer 开始观测。
//
// 保证返回非 nil 的 context 和 Span：nil ctx 替换为 context.Background()，
// nil observer 或 observer 返回 nil Span 时使用 [NoopSpan]。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.Start(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}

func resolveOutcome(result Result) Outcome {
	if result.Outcome != "" {
		return result.Outcome
	}
	if result.Err != nil {
		return OutcomeFailed
	}
	return OutcomeCompleted
}
