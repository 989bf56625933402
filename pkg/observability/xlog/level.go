package xlog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，与 slog.Level 数值一致。
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// ErrUnknownLevel 级别名无法识别。
var ErrUnknownLevel = errors.New("xlog: unknown level")

// levelNames 配置文件与 CLI 接受的级别名，warning 是 warn 的别名。
var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// String 返回大写级别名；非标准级别形如 "INFO+2"。
func (l Level) String() string { return slog.Level(l).String() }

// MarshalText 实现 encoding.TextMarshaler。
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler，接受 ParseLevel 支持的级别名。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 大小写不敏感地解析级别名，忽略首尾空白。
// 无法识别时返回 LevelInfo 与 [ErrUnknownLevel]。
func ParseLevel(s string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return LevelInfo, fmt.Errorf("%w %q", ErrUnknownLevel, s)
}
