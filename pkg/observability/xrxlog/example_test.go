package xrxlog_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/omeyang/xrxtrace/pkg/observability/xrxlog"
	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

func Example() {
	// 只打印与执行体、耗时无关的行
	logger := xrxlog.LoggerFunc(func(_ context.Context, line string) error {
		if !strings.Contains(line, "@SubscribeOn") && !strings.Contains(line, "@Time") {
			fmt.Println(line)
		}
		return nil
	})
	d, err := xrxlog.NewDispatcher(logger)
	if err != nil {
		panic(err)
	}

	site := xrxlog.CallSite{
		Component: "Repo",
		Method:    "List",
		Params:    []xrxlog.Param{{Name: "limit", Value: 2}},
	}
	f, err := xrxlog.WrapFlowable(context.Background(), d, site, func() xrx.Flowable[string] {
		return xrx.FromSlice("a", "b")
	})
	if err != nil {
		panic(err)
	}
	items, _ := f.Collect(context.Background())
	fmt.Println(items)

	// Output:
	// rx => [@Flowable :: @Component -> Repo :: @Method -> List(limit=2) :: @Type -> string]
	// rx => [@Flowable#Repo.List -> onSubscribe()]
	// rx => [@Flowable#Repo.List -> onNext() -> a]
	// rx => [@Flowable#Repo.List -> onNext() -> b]
	// rx => [@Flowable#Repo.List -> onComplete()]
	// [a b]
}
