// Package xrx 提供最小化的响应式生产者契约，供生命周期埋点挂载观察钩子。
//
// # 生产者类型
//
// 四种契约对应四个类型，均为值类型、可重复订阅（cold）：
//   - [Single]：恰好一个值或一个错误
//   - [Maybe]：零或一个值，或一个错误
//   - [Flowable]：任意多个值，随后完成或错误
//   - [Completable]：无值，完成或错误
//
// 生产者通过 Subscribe 订阅，返回 [*Subscription]。Dispose 会同步执行已注册的
// 释放回调，随后取消订阅 context；生产者应监听 Subscription.Context() 停止发射。
//
// # 生命周期钩子
//
// [Hooks] 描述订阅、元素、成功、完成、错误、释放和 finally 七个观察点。
// ObserveEach 为每次订阅创建一组新的钩子；钩子只观察，不改变值、错误或完成语义。
// 终止信号之后到达的信号照常透传，钩子也照常收到，契约违规由上游负责。
//
// # 调度与线程标识
//
// [Worker] 是单 goroutine 的 FIFO 执行器，SubscribeOn/ObserveOn 把订阅或信号投递过去。
// Go 没有线程名，[CurrentThreadName] 返回当前 goroutine 绑定的名称
// （Worker 自动绑定，[RunOn] 临时绑定），未绑定时返回 "goroutine-<id>"。
package xrx
