package xsampling

import "math/rand/v2"

// randomFloat64 返回 [0, 1) 内的均匀随机数，可并发调用。
var randomFloat64 = rand.Float64
