package xrx

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// threadNames goroutine id → 绑定名称
var threadNames sync.Map

var goroutinePrefix = []byte("goroutine ")

// goroutineID 从 runtime.Stack 头部解析当前 goroutine id。
// 头部格式固定为 "goroutine 123 [running]:"。
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// CurrentThreadName 返回当前 goroutine 的执行体名称。
//
// 绑定过名称（Worker 或 RunOn）时返回该名称，否则返回 "goroutine-<id>"。
func CurrentThreadName() string {
	id := goroutineID()
	if v, ok := threadNames.Load(id); ok {
		return v.(string)
	}
	return "goroutine-" + strconv.FormatUint(id, 10)
}

// bindThreadName 为当前 goroutine 绑定名称，返回恢复函数。
// 恢复函数必须在同一 goroutine 上调用。
func bindThreadName(name string) func() {
	id := goroutineID()
	prev, had := threadNames.Load(id)
	threadNames.Store(id, name)
	return func() {
		if had {
			threadNames.Store(id, prev)
			return
		}
		threadNames.Delete(id)
	}
}

// RunOn 在当前 goroutine 上以 name 为执行体名称运行 fn，结束后恢复原名称。
func RunOn(name string, fn func()) {
	if fn == nil {
		return
	}
	restore := bindThreadName(name)
	defer restore()
	fn()
}
