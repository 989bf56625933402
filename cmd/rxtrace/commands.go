package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xrxtrace/pkg/config/xconf"
	"github.com/omeyang/xrxtrace/pkg/lifecycle/xrun"
	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
	"github.com/omeyang/xrxtrace/pkg/observability/xrxlog"
)

// exitError 命令已完成输出，只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func createDemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "运行示例管道并输出埋点日志",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "level", Usage: "覆盖 log.level"},
			&cli.StringFlag{Name: "format", Usage: "覆盖 log.format（text/json）"},
			&cli.IntFlag{Name: "items", Usage: "Flowable 管道发射的元素数", Value: 3},
			&cli.IntFlag{Name: "rounds", Usage: "运行轮数，0 表示直到中断", Value: 1},
			&cli.DurationFlag{Name: "interval", Usage: "两轮之间的间隔", Value: time.Second},
			&cli.BoolFlag{Name: "watch", Usage: "监视 --config 文件并热更新 enabled 与 log.level"},
			&cli.BoolFlag{Name: "metrics", Usage: "启用 OTel 指标并在每轮后打印累计值"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := demoOptions{
				items:    cmd.Int("items"),
				rounds:   cmd.Int("rounds"),
				interval: cmd.Duration("interval"),
			}
			if opts.items < 0 || opts.rounds < 0 {
				return &usageError{msg: "--items 与 --rounds 不能为负数"}
			}
			if opts.interval <= 0 {
				return &usageError{msg: "--interval 必须为正"}
			}
			path := cmd.String("config")
			if cmd.Bool("watch") && path == "" {
				return &usageError{msg: "--watch 需要 --config"}
			}

			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			if cmd.IsSet("level") {
				cfg.Log.Level = cmd.String("level")
			}
			if cmd.IsSet("format") {
				cfg.Log.Format = cmd.String("format")
			}
			if cmd.Bool("metrics") {
				cfg.Metrics.Enabled = true
			}
			return cmdDemo(ctx, cmd, cfg, path, opts)
		},
	}
}

func cmdDemo(ctx context.Context, cmd *cli.Command, cfg xrxlog.Config, path string, opts demoOptions) error {
	out := cmd.Root().Writer
	var metrics *demoMetrics
	if cfg.Metrics.Enabled {
		metrics = installMetrics()
		defer func() { _ = metrics.shutdown(context.WithoutCancel(ctx)) }()
	}
	rt, err := xrxlog.Build(cfg, out)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	services := []func(context.Context) error{
		xrun.Repeat(opts.rounds, opts.interval, func(ctx context.Context, round int) error {
			sum, err := runDemo(ctx, rt.Dispatcher, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "round %d: pipelines=%d failed=%d disposed=%d\n", round, sum.Pipelines, sum.Failed, sum.Disposed)
			if metrics != nil {
				return metrics.print(ctx, out)
			}
			return nil
		}),
	}
	if cmd.Bool("watch") {
		w, err := watchConfig(path, rt)
		if err != nil {
			return err
		}
		services = append(services, func(ctx context.Context) error {
			<-ctx.Done()
			return w.Stop()
		})
	}

	err = xrun.Run(ctx, []xrun.Option{
		xrun.WithName("rxtrace"),
		xrun.WithLogger(rt.Logger),
		xrun.WithCancelOnExit(),
	}, services...)
	if errors.Is(err, xrun.ErrSignal) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchConfig 配置文件变更后把可热更新的部分应用到 rt。
func watchConfig(path string, rt *xrxlog.Runtime) (*xconf.Watcher, error) {
	c, err := xconf.New(path)
	if err != nil {
		return nil, err
	}
	w, err := xconf.Watch(c, func(c xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			rt.Logger.Warn(ctx, "rxtrace: config reload failed", xlog.Err(err))
			return
		}
		cfg, err := xrxlog.FromXConf(c)
		if err == nil {
			err = rt.Apply(cfg)
		}
		if err != nil {
			rt.Logger.Warn(ctx, "rxtrace: config rejected", xlog.Err(err))
			return
		}
		rt.Logger.Info(ctx, "rxtrace: config applied",
			slog.Bool("enabled", cfg.Enabled), slog.String("level", cfg.Log.Level))
	})
	if err != nil {
		return nil, err
	}
	w.StartAsync()
	return w, nil
}

func createValidateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "校验埋点配置文件",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.String("config")
			if path == "" {
				return &usageError{msg: "validate 需要 --config"}
			}
			if _, err := xrxlog.LoadConfig(path); err != nil {
				fmt.Fprintf(cmd.Root().ErrWriter, "%s: %v\n", path, err)
				return &exitError{code: 1}
			}
			fmt.Fprintf(cmd.Root().Writer, "%s: ok\n", path)
			return nil
		},
	}
}

func loadConfig(path string) (xrxlog.Config, error) {
	if path == "" {
		return xrxlog.DefaultConfig(), nil
	}
	return xrxlog.LoadConfig(path)
}
