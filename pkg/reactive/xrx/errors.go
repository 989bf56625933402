package xrx

import "errors"

var (
	// ErrNilSource 表示生产者没有生产函数（零值或传入 nil）。
	ErrNilSource = errors.New("xrx: nil source")

	// ErrNoValue 表示 Single 的上游未发射值就完成了。
	ErrNoValue = errors.New("xrx: single completed without value")
)
