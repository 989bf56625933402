// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xrotate: 日志文件轮转
//   - xsampling: 采样策略
//   - xmetrics: 订阅生命周期的指标与追踪（OpenTelemetry）
//   - xrxlog: 响应式生产者生命周期埋点引擎
//
// xrxlog 的日志行经 xlog 输出，context 中的 rx_* 字段由 xlog 自动注入；
// 每次订阅的结果同时交给 xmetrics。
package observability
