package xrxlog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"
)

// Event 日志行对应的生命周期事件，写入 context 的 rx_event 字段。
type Event string

const (
	EventInfo      Event = "info"
	EventSubscribe Event = "subscribe"
	EventNext      Event = "next"
	EventSuccess   Event = "success"
	EventComplete  Event = "complete"
	EventError     Event = "error"
	EventDispose   Event = "dispose"
	EventTime      Event = "time"
	EventThread    Event = "thread"
)

const (
	linePrefix  = "rx => "
	ellipsis    = "…"
	noThread    = "-"
	nilRendered = "null"
)

// DefaultMaxValueLen 值渲染的默认最大长度（rune）。
const DefaultMaxValueLen = 256

// MessageManager 将 Snapshot 与事件渲染为日志行并交给 Logger。
//
// 只做格式化与转发，不修改 ComponentInfo。Logger 的错误与 panic 在此处吸收，
// 以 *InternalError 交给 onInternalError。
type MessageManager struct {
	logger          Logger
	maxValueLen     int
	onInternalError func(error)
}

// NewMessageManager 创建 MessageManager。maxValueLen <= 0 表示不截断；onInternalError 可为 nil。
func NewMessageManager(logger Logger, maxValueLen int, onInternalError func(error)) *MessageManager {
	return &MessageManager{
		logger:          logger,
		maxValueLen:     maxValueLen,
		onInternalError: onInternalError,
	}
}

// PrintComponentInfo 输出调用点信息，每次 Proceed 一行。
func (m *MessageManager) PrintComponentInfo(ctx context.Context, s Snapshot) {
	m.emit(ctx, s, EventInfo, func() string {
		var b strings.Builder
		b.WriteString("[@")
		b.WriteString(s.Kind.String())
		if s.Site.Component != "" {
			b.WriteString(" :: @Component -> ")
			b.WriteString(s.Site.Component)
		}
		b.WriteString(" :: @Method -> ")
		b.WriteString(s.Site.signature(m.maxValueLen))
		if len(s.TypeArgs) > 0 {
			b.WriteString(" :: @Type -> ")
			b.WriteString(strings.Join(s.TypeArgs, ", "))
		}
		b.WriteByte(']')
		return b.String()
	})
}

// PrintOnSubscribe 输出订阅。
func (m *MessageManager) PrintOnSubscribe(ctx context.Context, s Snapshot) {
	m.emit(ctx, s, EventSubscribe, func() string { return signal(s, "onSubscribe()", "") })
}

// PrintOnNext 输出一个流元素。
func (m *MessageManager) PrintOnNext(ctx context.Context, s Snapshot, v any) {
	m.emit(ctx, s, EventNext, func() string { return signal(s, "onNext()", renderValue(v, m.maxValueLen)) })
}

// PrintOnSuccessWithValue 输出带值的成功。
func (m *MessageManager) PrintOnSuccessWithValue(ctx context.Context, s Snapshot, v any) {
	m.emit(ctx, s, EventSuccess, func() string { return signal(s, "onSuccess()", renderValue(v, m.maxValueLen)) })
}

// PrintOnComplete 输出无值完成。
func (m *MessageManager) PrintOnComplete(ctx context.Context, s Snapshot) {
	m.emit(ctx, s, EventComplete, func() string { return signal(s, "onComplete()", "") })
}

// PrintOnError 输出生产者错误。
func (m *MessageManager) PrintOnError(ctx context.Context, s Snapshot, err error) {
	m.emit(ctx, s, EventError, func() string {
		msg := nilRendered
		if err != nil {
			msg = truncate(err.Error(), m.maxValueLen)
		}
		return signal(s, "onError()", msg)
	})
}

// PrintOnDispose 输出终止前的释放。
func (m *MessageManager) PrintOnDispose(ctx context.Context, s Snapshot) {
	m.emit(ctx, s, EventDispose, func() string { return signal(s, "onDispose()", "") })
}

// PrintItemTimeInfo 输出发射数与耗时。
func (m *MessageManager) PrintItemTimeInfo(ctx context.Context, s Snapshot) {
	m.emit(ctx, s, EventTime, func() string {
		unit := "elements"
		if s.EmittedItems == 1 {
			unit = "element"
		}
		return "[@" + tag(s) + " -> @Emitted -> " + strconv.FormatInt(s.EmittedItems, 10) + " " + unit +
			" :: @Time -> " + strconv.FormatInt(s.ExecutionMillis(), 10) + " ms]"
	})
}

// PrintThreadInfo 输出订阅与观察执行体。
func (m *MessageManager) PrintThreadInfo(ctx context.Context, s Snapshot) {
	m.emit(ctx, s, EventThread, func() string {
		return "[@" + tag(s) + " -> @SubscribeOn -> " + orDash(s.SubscribeThread) +
			" :: @ObserveOn -> " + orDash(s.ObserveThread) + "]"
	})
}

// emit 构造日志行并写出。行构造与写出中的 panic 均被吸收。
func (m *MessageManager) emit(ctx context.Context, s Snapshot, ev Event, build func() string) {
	if m == nil || m.logger == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.report("log "+string(ev), panicError(r))
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	if enriched, err := xctx.WithRx(ctx, xctx.Rx{
		PassID:   s.PassID,
		CallSite: s.Site.Name(),
		Kind:     s.Kind.String(),
		Event:    string(ev),
	}); err == nil {
		ctx = enriched
	}
	if err := m.logger.Log(ctx, linePrefix+build()); err != nil {
		m.report("log "+string(ev), err)
	}
}

func (m *MessageManager) report(op string, err error) {
	if m.onInternalError == nil {
		return
	}
	defer func() { _ = recover() }()
	m.onInternalError(&InternalError{Op: op, Err: err})
}

// tag 返回 "Flowable#Repo.List"。
func tag(s Snapshot) string {
	return s.Kind.String() + "#" + s.Site.Name()
}

func signal(s Snapshot, name, value string) string {
	if value == "" {
		return "[@" + tag(s) + " -> " + name + "]"
	}
	return "[@" + tag(s) + " -> " + name + " -> " + value + "]"
}

func orDash(s string) string {
	if s == "" {
		return noThread
	}
	return s
}

// renderValue 以 fmt.Sprint 渲染值；String 方法中的 panic 由 fmt 捕获为 %!v(PANIC=...)。
func renderValue(v any, maxLen int) string {
	if v == nil {
		return nilRendered
	}
	return truncate(fmt.Sprint(v), maxLen)
}

// truncate 按 rune 截断到 maxLen，超出部分以 "…" 代替。maxLen <= 0 不截断。
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	i, n := 0, 0
	for i = range s {
		if n == maxLen {
			break
		}
		n++
	}
	return s[:i] + ellipsis
}
