package xrotate

import "errors"

// NewLumberjack 的参数校验错误，具体取值以 %w 附加在返回的错误中。
var (
	ErrEmptyFilename     = errors.New("xrotate: filename is required")
	ErrInvalidPath       = errors.New("xrotate: invalid path")
	ErrInvalidMaxSize    = errors.New("xrotate: invalid max size")
	ErrInvalidMaxBackups = errors.New("xrotate: invalid max backups")
	ErrInvalidMaxAge     = errors.New("xrotate: invalid max age")
	// ErrNoCleanupPolicy 备份数与保留天数同时为 0 时旧文件永不清理。
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")
)

// ErrClosed 轮转器关闭后的写入、轮转与重复关闭返回此错误。
var ErrClosed = errors.New("xrotate: rotator is closed")
