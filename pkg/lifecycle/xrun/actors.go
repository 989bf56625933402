package xrun

import (
	"context"
	"os"
	"syscall"
	"time"
)

// DefaultSignals Run 默认监听的信号。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

type testSigChanKey struct{}

func testSigChan(ctx context.Context) <-chan os.Signal {
	c, ok := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	if !ok {
		return nil
	}
	return c
}

func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}

// Repeat 立即执行一次 fn，之后每隔 interval 执行，共 n 次；n 为 0 时直到 ctx 取消。
//
// fn 的第二个参数为从 1 开始的轮次。fn 出错时立即返回该错误；
// 完成 n 次返回 nil，ctx 取消返回 ctx.Err()。
func Repeat(n int, interval time.Duration, fn func(ctx context.Context, round int) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if n < 0 {
			return ErrInvalidCount
		}
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for round := 1; n == 0 || round <= n; round++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, round); err != nil {
				return err
			}
			if round == n {
				return nil
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
}
