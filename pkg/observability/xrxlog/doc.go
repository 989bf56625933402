// Package xrxlog 为响应式调用埋点：记录每次订阅的生命周期、元素数、耗时与执行体。
//
// # 概述
//
// 拦截层把一次被拦截的调用描述为 CallHandle（声明的生产者类型、类型参数、调用点、
// 只能执行一次的 Proceed）。Dispatcher 按声明类型选择埋点策略，调用 Proceed 得到原始
// 生产者，为其挂载生命周期钩子后原样返回。埋点不改变发射的值、错误与完成语义。
//
//	logger := xrxlog.NewXLogSink(xlog.Default(), xlog.LevelInfo)
//	d, _ := xrxlog.NewDispatcher(logger)
//	users, _ := xrxlog.WrapFlowable(ctx, d,
//		xrxlog.CallSite{Component: "Repo", Method: "List", Params: []xrxlog.Param{{Name: "limit", Value: 3}}},
//		func() xrx.Flowable[int] { return repo.List(3) })
//
// 输出（每次订阅一组）：
//
//	rx => [@Flowable :: @Component -> Repo :: @Method -> List(limit=3) :: @Type -> int]
//	rx => [@Flowable#Repo.List -> onSubscribe()]
//	rx => [@Flowable#Repo.List -> onNext() -> 1]
//	rx => [@Flowable#Repo.List -> onComplete()]
//	rx => [@Flowable#Repo.List -> @Emitted -> 1 element :: @Time -> 3 ms]
//	rx => [@Flowable#Repo.List -> @SubscribeOn -> main :: @ObserveOn -> A]
//
// # 生命周期
//
// 各生产者类型共用一条状态机，只在可达转换上不同：
//
//	Single:      subscribe → success | error → finally
//	Maybe:       subscribe → success | complete | error → finally
//	Flowable:    subscribe → next* → complete | error → finally
//	Completable: subscribe → complete | error → finally
//
// 任意时刻的 dispose 在终止之前发生时直接进入 finally。
//
// # 配置
//
// Build 按 Config 组装 xlog、熔断 sink、采样器与 Dispatcher。trace.sample_every 大于 1 时
// 每 n 次调用追踪一次；metrics.enabled 为 true 时每次订阅同时生成 OTel span 与生命周期指标。
// Runtime.Apply 只热更新 enabled 与 log.level。
//
// # 错误
//
// 生产者的错误原样透传。引擎自身的故障（日志输出失败、计时器误用、钩子 panic）
// 包装为 *InternalError 交给 WithOnInternalError 注册的回调，从不进入生产者的错误通道。
package xrxlog
