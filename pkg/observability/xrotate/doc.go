// Package xrotate 提供插桩日志文件的轮转功能。
//
// Rotator 接口定义了轮转器的核心行为（Write/Close/Rotate），所有实现并发安全，
// 可直接作为 xlog 的输出目标（见 xlog.Builder.SetRotation）。
//
// # 当前实现
//
//   - [NewLumberjack]: 基于 lumberjack v2 的按大小轮转
//
// 文件路径会被清理为绝对路径，父目录不存在时以 0750 权限创建。
package xrotate
