package xmetrics

import (
	"strings"
	"time"
)

// 订阅级 span 属性键。
const (
	AttrPassID       = "rx.pass_id"
	AttrSubscription = "rx.subscription"
	AttrTypeArgs     = "rx.type_args"
	AttrSubscribeOn  = "rx.subscribe_on"
	AttrObserveOn    = "rx.observe_on"
	AttrElapsed      = "rx.elapsed"
)

// String 创建字符串属性。
func String(key, value string) Attr { return Attr{Key: key, Value: value} }

// Int64 创建 int64 属性。
func Int64(key string, value int64) Attr { return Attr{Key: key, Value: value} }

// Duration 创建时间间隔属性，以纳秒记录。
func Duration(key string, value time.Duration) Attr { return Attr{Key: key, Value: value} }

// Any 创建任意类型属性，非基础类型以 fmt.Sprint 转为字符串。
func Any(key string, value any) Attr { return Attr{Key: key, Value: value} }

// SubscriptionAttrs 订阅开始时附加到 span 的属性：pass id、订阅序号与类型参数。
// typeArgs 为空时省略。
func SubscriptionAttrs(passID string, seq uint64, typeArgs []string) []Attr {
	attrs := []Attr{
		String(AttrPassID, passID),
		Int64(AttrSubscription, int64(seq)),
	}
	if len(typeArgs) > 0 {
		attrs = append(attrs, String(AttrTypeArgs, strings.Join(typeArgs, ",")))
	}
	return attrs
}

// FinalAttrs 订阅结束时附加到 span 的线程与耗时属性。空线程名省略。
func FinalAttrs(subscribeOn, observeOn string, elapsed time.Duration) []Attr {
	attrs := make([]Attr, 0, 3)
	if subscribeOn != "" {
		attrs = append(attrs, String(AttrSubscribeOn, subscribeOn))
	}
	if observeOn != "" {
		attrs = append(attrs, String(AttrObserveOn, observeOn))
	}
	return append(attrs, Duration(AttrElapsed, elapsed))
}
