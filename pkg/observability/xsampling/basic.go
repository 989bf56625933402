package xsampling

import (
	"context"
	"sync/atomic"
)

// SamplerFunc 把普通函数适配为 Sampler。
type SamplerFunc func(ctx context.Context) bool

// ShouldSample 调用 f。
func (f SamplerFunc) ShouldSample(ctx context.Context) bool { return f(ctx) }

var (
	always Sampler = SamplerFunc(func(context.Context) bool { return true })
	never  Sampler = SamplerFunc(func(context.Context) bool { return false })
)

// Always 追踪每一次调用。
func Always() Sampler { return always }

// Never 不追踪任何调用，管道仍照常执行。
func Never() Sampler { return never }

// RateSampler 按固定比率随机决定是否追踪一次调用，各次决定相互独立。
type RateSampler struct {
	rate float64
}

// NewRateSampler rate 取 [0, 1]，越界或 NaN 返回 [ErrInvalidRate]。
func NewRateSampler(rate float64) (*RateSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &RateSampler{rate: rate}, nil
}

// ShouldSample 实现 Sampler。
func (s *RateSampler) ShouldSample(context.Context) bool {
	switch {
	case s.rate <= 0:
		return false
	case s.rate >= 1:
		return true
	}
	return randomFloat64() < s.rate
}

// Rate 返回采样比率。
func (s *RateSampler) Rate() float64 { return s.rate }

// CountSampler 按调用顺序每 n 次追踪 1 次（第 1、n+1、2n+1 ... 次）。
// 零值追踪所有调用。
type CountSampler struct {
	n    uint64
	seen atomic.Uint64
}

// NewCountSampler n < 1 返回 [ErrInvalidCount]。
func NewCountSampler(n int) (*CountSampler, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	return &CountSampler{n: uint64(n)}, nil
}

// ShouldSample 实现 Sampler。
func (s *CountSampler) ShouldSample(context.Context) bool {
	if s.n == 0 {
		return true
	}
	return (s.seen.Add(1)-1)%s.n == 0
}

// Reset 从头开始计数，下一次调用必被追踪。
func (s *CountSampler) Reset() { s.seen.Store(0) }

// N 返回采样间隔。
func (s *CountSampler) N() int { return int(s.n) }

var (
	_ Sampler           = SamplerFunc(nil)
	_ Sampler           = (*RateSampler)(nil)
	_ ResettableSampler = (*CountSampler)(nil)
)
