// rxtrace 演示并校验 xrxlog 埋点。
//
// 用法:
//
//	rxtrace [全局选项] <命令> [命令参数]
//
// 命令:
//
//	demo           在具名 worker 上运行四种生产者的示例管道并输出埋点日志
//	validate       校验埋点配置文件
//	help           显示帮助信息
//
// 退出码:
//
//	0: 成功
//	1: 执行失败或配置无效
//	2: 参数错误
//
// 示例:
//
//	rxtrace demo                              # 默认配置，日志写到 stdout
//	rxtrace demo --items 5 --format json      # JSON 格式
//	rxtrace -c rx.yaml demo --watch --rounds 0 # 持续运行，配置文件变更后热更新 enabled 与 log.level
//	rxtrace demo --metrics --rounds 3         # 每轮后打印 OTel 指标累计值
//	rxtrace -c rx.yaml validate
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "rxtrace",
		Usage:   "响应式生产者生命周期埋点演示与配置校验",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "埋点配置文件（.yaml/.yml/.json）",
			},
		},
		Commands: []*cli.Command{
			createDemoCommand(),
			createValidateCommand(),
		},
		// urfave/cli 不直接 os.Exit，退出码统一由 exitCode 映射
		ExitErrHandler: func(_ context.Context, cmd *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(cmd.Root().ErrWriter, err)
			}
		},
	}
}

// run 信号由 demo 命令内的 xrun.Run 处理。
func run() int {
	return exitCode(createApp().Run(context.Background(), os.Args), os.Stderr)
}

// exitCode 将命令错误映射为退出码，必要时向 stderr 输出错误。
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	if isCLIUsageError(err) {
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// cliUsagePrefixes urfave/cli 与 flag 包产生的参数错误前缀
var cliUsagePrefixes = []string{
	"flag provided but not defined",
	"flag needs an argument",
	"invalid value",
	"Required flag",
	"No help topic for",
}

func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, p := range cliUsagePrefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
