// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、轮转）
//   - 自动从 context 注入 trace_id 与 rx_* 插桩字段（EnrichHandler，默认启用）
//   - 动态级别调整（运行时热更新）
//   - 全局 Logger 便利函数
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，后续 Set 操作被跳过）。
// Builder 方法：SetLevel、SetLevelString、SetFormat、SetOutput、SetRotation、
// SetEnrich、SetOnError、SetAddSource。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetRotation("/var/log/app/rx.log", xrotate.WithMaxSize(100)).
//		Build()
//	defer cleanup()
//
// # 全局 Logger
//
// 适用于脚手架、小工具等简单场景，服务端推荐依赖注入。
//
//   - [Default]: 获取全局 Logger（惰性初始化：stderr、Info 级别、text 格式）
//   - [SetDefault]: 替换全局 Logger（nil 会被忽略）
//   - [ResetDefault]: 重置为未初始化状态（仅用于测试）
//   - [Debug]、[Info]、[Warn]、[Error]、[Stack]: 全局便利函数
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// Level 实现 encoding.TextMarshaler/TextUnmarshaler，可直接用于配置结构体。
//
// # 错误处理
//
// 日志写入失败从不返回给调用方，也不 panic：错误计入内部计数器，
// 并通过 SetOnError 注册的回调通知（回调 panic 被隔离）。
package xlog
