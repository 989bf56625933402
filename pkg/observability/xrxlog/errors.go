package xrxlog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedKind 表示声明的生产者类型无法识别。
	ErrUnsupportedKind = errors.New("xrxlog: unsupported producer kind")

	// ErrKindMismatch 表示 Proceed 返回的生产者类型与声明不一致。
	ErrKindMismatch = errors.New("xrxlog: producer kind mismatch")

	// ErrDoubleProceed 表示同一个 CallHandle 的 Proceed 被调用多次。
	ErrDoubleProceed = errors.New("xrxlog: proceed called more than once")

	// ErrNilProceed 表示 CallHandle 没有 proceed 函数。
	ErrNilProceed = errors.New("xrxlog: nil proceed func")

	// ErrNilProducer 表示 proceed 返回了 nil 生产者。
	ErrNilProducer = errors.New("xrxlog: proceed returned nil producer")

	// ErrNilHandle 表示传入了 nil CallHandle。
	ErrNilHandle = errors.New("xrxlog: nil call handle")

	// ErrNilDispatcher 表示传入了 nil Dispatcher。
	ErrNilDispatcher = errors.New("xrxlog: nil dispatcher")

	// ErrNilLogger 表示未提供 Logger。
	ErrNilLogger = errors.New("xrxlog: nil logger")

	// ErrNilOption 表示传入了 nil 选项。
	ErrNilOption = errors.New("xrxlog: nil option")

	// ErrStopWatchNotStarted 表示 Stop 前没有 Start。
	ErrStopWatchNotStarted = errors.New("xrxlog: stopwatch not started")

	// ErrStopWatchRunning 表示严格模式下重复 Start。
	ErrStopWatchRunning = errors.New("xrxlog: stopwatch already running")

	// ErrInvalidConfig 表示配置校验失败。
	ErrInvalidConfig = errors.New("xrxlog: invalid config")
)

// InternalError 引擎内部故障。与生产者发出的错误区分开，只会交给内部错误回调。
type InternalError struct {
	// Op 故障发生的位置，如 "log onNext"、"stopwatch stop"。
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("xrxlog: internal failure in %s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// IsInternal 判断 err 是否为引擎内部故障。
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// panicError 将 recover 的值转为 error。
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
