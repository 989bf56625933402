// Package xmetrics 为响应式调用的生命周期提供统一观测接口（metrics + tracing）。
//
// 每次被追踪的订阅对应一个 Span：订阅时 Start，终止（完成、错误或释放）时 End。
// 业务代码只依赖 Observer/Span 接口；默认实现基于 OpenTelemetry。
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		CallSite:     "Repo.List",
//		ProducerKind: "Flowable",
//	})
//	defer span.End(xmetrics.Result{Outcome: xmetrics.OutcomeCompleted, Items: 3})
//
// # 指标命名
//
//   - xrx.lifecycle.total     终止次数
//   - xrx.lifecycle.duration  订阅到终止的耗时（秒）
//   - xrx.items.emitted       发射元素数
//
// 统一属性：call_site / kind / outcome。
package xmetrics
