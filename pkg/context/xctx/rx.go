package xctx

import "context"

// Rx Key 常量，作为日志字段名
const (
	KeyPassID   = "rx_pass_id"
	KeyCallSite = "rx_call_site"
	KeyKind     = "rx_kind"
	KeyEvent    = "rx_event"

	// rxFieldCount rx 字段数量（用于 slog 属性预分配）
	rxFieldCount = 4
)

const (
	keyPassID   = contextKey("xctx:rx_pass_id")
	keyCallSite = contextKey("xctx:rx_call_site")
	keyKind     = contextKey("xctx:rx_kind")
	keyEvent    = contextKey("xctx:rx_event")
)

// Rx 一次插桩过程的上下文字段。
//
//   - PassID: 一次订阅的唯一标识，用于关联交错输出的多条流水线
//   - CallSite: 被插桩调用，如 "Repo.List"
//   - Kind: 生产者种类，如 "Flowable"
//   - Event: 当前生命周期事件，如 "onNext"
type Rx struct {
	PassID   string
	CallSite string
	Kind     string
	Event    string
}

// WithPassID 将 pass id 注入 context
func WithPassID(ctx context.Context, id string) (context.Context, error) {
	return withString(ctx, keyPassID, id)
}

// PassID 从 context 提取 pass id，不存在返回空字符串
func PassID(ctx context.Context) string {
	return stringValue(ctx, keyPassID)
}

// RequirePassID 从 context 获取 pass id，不存在则返回 ErrMissingPassID。
func RequirePassID(ctx context.Context) (string, error) {
	return requireString(ctx, keyPassID, ErrMissingPassID)
}

// WithCallSite 将被插桩调用名注入 context
func WithCallSite(ctx context.Context, site string) (context.Context, error) {
	return withString(ctx, keyCallSite, site)
}

// CallSite 从 context 提取被插桩调用名，不存在返回空字符串
func CallSite(ctx context.Context) string {
	return stringValue(ctx, keyCallSite)
}

// RequireCallSite 从 context 获取调用名，不存在则返回 ErrMissingCallSite。
func RequireCallSite(ctx context.Context) (string, error) {
	return requireString(ctx, keyCallSite, ErrMissingCallSite)
}

// WithKind 将生产者种类注入 context
func WithKind(ctx context.Context, kind string) (context.Context, error) {
	return withString(ctx, keyKind, kind)
}

// Kind 从 context 提取生产者种类，不存在返回空字符串
func Kind(ctx context.Context) string {
	return stringValue(ctx, keyKind)
}

// WithEvent 将生命周期事件注入 context
func WithEvent(ctx context.Context, event string) (context.Context, error) {
	return withString(ctx, keyEvent, event)
}

// Event 从 context 提取生命周期事件，不存在返回空字符串
func Event(ctx context.Context) string {
	return stringValue(ctx, keyEvent)
}

// WithRx 批量注入 rx 字段。空字段跳过，父 context 中的同名值保留。
func WithRx(ctx context.Context, rx Rx) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	for _, f := range [...]struct {
		key   contextKey
		value string
	}{
		{keyPassID, rx.PassID},
		{keyCallSite, rx.CallSite},
		{keyKind, rx.Kind},
		{keyEvent, rx.Event},
	} {
		if f.value != "" {
			ctx = context.WithValue(ctx, f.key, f.value)
		}
	}
	return ctx, nil
}

// GetRx 批量读取 rx 字段
func GetRx(ctx context.Context) Rx {
	return Rx{
		PassID:   PassID(ctx),
		CallSite: CallSite(ctx),
		Kind:     Kind(ctx),
		Event:    Event(ctx),
	}
}

// IsZero 报告是否所有字段都为空
func (r Rx) IsZero() bool {
	return r == Rx{}
}
