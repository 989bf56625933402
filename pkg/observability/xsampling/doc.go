// Package xsampling 决定一次插桩过程是否输出追踪日志。
//
// Sampler.ShouldSample(ctx) 在订阅建立前调用一次；返回 false 时该次调用
// 直接返回原始生产者，不挂载任何观察钩子。
//
// # 策略
//
//   - Always() / Never(): 全采样 / 不采样
//   - NewRateSampler(rate): 固定比率随机采样
//   - NewCountSampler(n): 每 n 次采样 1 次
//   - NewKeyBasedSampler(rate, keyFunc): 基于 key 的一致性采样（xxhash）
//   - ByCallSite(rate): 以 rx_call_site 为 key 的一致性采样，同一调用点要么总被追踪，要么从不
//
// 所有采样器并发安全。
package xsampling
