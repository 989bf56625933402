// Package xctx 提供轻量级的请求上下文字段管理。
//
// 整合追踪信息（trace）和响应式插桩信息（rx）的 context 存取能力，
// 并为日志系统提供属性提取功能。
//
// # 核心功能
//
// 追踪信息（Trace）- 分布式追踪：
//   - trace_id     : 追踪标识（W3C 规范，128-bit）
//   - span_id      : 跨度标识（W3C 规范，64-bit）
//   - trace_flags  : 追踪标志（W3C 规范，采样决策）
//
// 插桩信息（Rx）- 一次订阅的生命周期：
//   - rx_pass_id   : 订阅标识
//   - rx_call_site : 被插桩调用
//   - rx_kind      : 生产者种类
//   - rx_event     : 生命周期事件
//
// # 命名约定
//
//	WithXxx(ctx, value)    - 注入：将 value 写入 context
//	Xxx(ctx)               - 读取：缺失时返回零值
//	RequireXxx(ctx)        - 强制读取：缺失时返回错误
//	GetXxx(ctx)            - 批量读取：返回结构体
//
// xctx 是纯粹的存取层，不校验字段格式。
package xctx
