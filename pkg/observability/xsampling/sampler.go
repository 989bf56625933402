package xsampling

import "context"

// Sampler 决定一次调用是否被追踪。
type Sampler interface {
	// ShouldSample 返回 true 表示追踪。ctx 可携带 rx_call_site 等字段供一致性采样使用。
	ShouldSample(ctx context.Context) bool
}

// ResettableSampler 可重置状态的采样器，如 CountSampler。
type ResettableSampler interface {
	Sampler
	Reset()
}
