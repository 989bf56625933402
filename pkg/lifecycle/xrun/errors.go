package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 收到终止信号。Wait 返回的 *SignalError 满足 errors.Is(err, ErrSignal)。
	ErrSignal = errors.New("received signal")

	// ErrNilFunc 传入了 nil 服务函数。
	ErrNilFunc = errors.New("xrun: nil func")

	// ErrInvalidInterval 间隔必须为正。
	ErrInvalidInterval = errors.New("xrun: interval must be positive")

	// ErrInvalidCount 次数不能为负。
	ErrInvalidCount = errors.New("xrun: count must not be negative")
)

// SignalError 由信号触发的取消原因。
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Is 使 errors.Is(err, ErrSignal) 成立。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

func (e *SignalError) Unwrap() error {
	return ErrSignal
}
