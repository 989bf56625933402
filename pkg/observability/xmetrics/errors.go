package xmetrics

import "errors"

var (
	// ErrCreateInstrument 创建订阅生命周期的 OTel 指标失败，原始错误以 %w 附加。
	ErrCreateInstrument = errors.New("xmetrics: create lifecycle instrument")
	// ErrNilOption 传入了 nil Option。
	ErrNilOption = errors.New("xmetrics: nil option")
)
