package xrotate

import "io"

var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 实现约定：
//   - Write 并发安全，满足轮转条件时自动轮转
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]，重复 Close 也返回 [ErrClosed]
//   - Rotate 可在任意时刻调用
type Rotator interface {
	Write(p []byte) (n int, err error)
	Close() error

	// Rotate 手动触发轮转：当前文件重命名为备份，随后创建新文件
	Rotate() error
}
