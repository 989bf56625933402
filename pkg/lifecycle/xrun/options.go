package xrun

import (
	"os"

	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
)

// Option 配置 Group
type Option func(*groupOptions)

type groupOptions struct {
	logger          xlog.Logger
	name            string
	signals         []os.Signal
	noSignalHandler bool
	cancelOnExit    bool
}

func defaultOptions() *groupOptions {
	return &groupOptions{name: "xrun"}
}

// log 返回配置的 Logger，未配置时使用 xlog 全局 Logger。
func (o *groupOptions) log() xlog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return xlog.Default()
}

// WithLogger 设置服务启停日志的 Logger。
func WithLogger(logger xlog.Logger) Option {
	return func(o *groupOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置组名，写入日志的 group 字段。
func WithName(name string) Option {
	return func(o *groupOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置 Run 监听的信号，默认 DefaultSignals。
func WithSignals(signals []os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *groupOptions) {
		o.signals = copied
	}
}

// WithoutSignalHandler Run 不监听信号。
func WithoutSignalHandler() Option {
	return func(o *groupOptions) {
		o.noSignalHandler = true
	}
}

// WithCancelOnExit 任一服务返回（包括返回 nil）即取消整组。
func WithCancelOnExit() Option {
	return func(o *groupOptions) {
		o.cancelOnExit = true
	}
}
