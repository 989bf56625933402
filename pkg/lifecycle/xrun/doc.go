// Package xrun 基于 errgroup + context 管理一组协同运行的服务。
//
// 任一服务返回错误或收到终止信号时 context 被取消，其余服务监听 ctx.Done() 退出。
// 以 GoOn 启动的服务绑定 xrx 执行体名称，埋点日志中的 @SubscribeOn 显示该名称：
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("demo"))
//	g.GoOn("pipeline-1", func(ctx context.Context) error {
//	    _, err := flowable.Collect(ctx)
//	    return err
//	})
//	err := g.Wait()
//
// Run 额外监听 SIGHUP/SIGINT/SIGTERM/SIGQUIT，收到信号时以 *SignalError 作为取消原因，
// 可用 errors.Is(err, xrun.ErrSignal) 判断：
//
//	err := xrun.Run(ctx, []xrun.Option{xrun.WithCancelOnExit()},
//	    xrun.Repeat(3, time.Second, runRound),
//	    watchConfig,
//	)
//
// WithCancelOnExit 下任一服务正常返回也会结束整组，适合有限次任务与常驻监听并存的场景。
package xrun
