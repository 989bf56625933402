package xrx

import "strconv"

// Kind 表示生产者契约类型。
type Kind int

const (
	// KindUnknown 表示无法识别的类型。
	KindUnknown Kind = iota
	// KindSingle 单值或错误。
	KindSingle
	// KindMaybe 零或一个值。
	KindMaybe
	// KindFlowable 值流。
	KindFlowable
	// KindCompletable 无值完成。
	KindCompletable
)

// String 返回 Kind 的可读名称，用于日志输出。
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindSingle:
		return "Single"
	case KindMaybe:
		return "Maybe"
	case KindFlowable:
		return "Flowable"
	case KindCompletable:
		return "Completable"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsValid 判断是否为四种可识别的生产者类型之一。
func (k Kind) IsValid() bool {
	return k >= KindSingle && k <= KindCompletable
}

// Producer 是四种生产者的公共视图，埋点引擎只依赖此接口。
type Producer interface {
	// Kind 返回生产者契约类型。
	Kind() Kind

	// ObserveEach 返回挂载了生命周期钩子的同类型生产者。
	// newHooks 在每次订阅时调用一次；返回值的动态类型与接收者一致。
	ObserveEach(newHooks func() Hooks) Producer
}
