package xsampling

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"
)

// KeyFunc 从 context 中提取采样 key。相同 key 在相同 rate 下总得到相同决策。
// 返回空字符串时回退到随机采样。
type KeyFunc func(ctx context.Context) string

// CallSiteKey 以 rx_call_site 作为采样 key。
func CallSiteKey(ctx context.Context) string {
	return xctx.CallSite(ctx)
}

// KeyBasedOption 配置 KeyBasedSampler
type KeyBasedOption func(*KeyBasedSampler)

// WithOnEmptyKey 设置 key 为空时的回调，在随机回退之前调用。
// 回调 panic 会直接传播给调用方。nil 被忽略。
func WithOnEmptyKey(fn func()) KeyBasedOption {
	return func(s *KeyBasedSampler) {
		if fn != nil {
			s.onEmptyKey = fn
		}
	}
}

// KeyBasedSampler 基于 key 的一致性采样。
//
// 以调用点为 key 时，同一调用点的所有订阅要么全部被追踪，要么全部跳过，
// 输出的日志不会出现同一调用点时有时无的情况。
type KeyBasedSampler struct {
	rate       float64
	keyFunc    KeyFunc
	onEmptyKey func()
}

// NewKeyBasedSampler 创建一致性采样器。
//
// rate 超出 [0.0, 1.0] 或为 NaN 时返回 ErrInvalidRate；keyFunc 为 nil 返回 ErrNilKeyFunc；
// nil option 返回 ErrNilOption。
func NewKeyBasedSampler(rate float64, keyFunc KeyFunc, opts ...KeyBasedOption) (*KeyBasedSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if keyFunc == nil {
		return nil, ErrNilKeyFunc
	}
	s := &KeyBasedSampler{
		rate:    rate,
		keyFunc: keyFunc,
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(s)
	}
	return s, nil
}

// ByCallSite 创建以调用点为 key 的一致性采样器。
func ByCallSite(rate float64, opts ...KeyBasedOption) (*KeyBasedSampler, error) {
	return NewKeyBasedSampler(rate, CallSiteKey, opts...)
}

func (s *KeyBasedSampler) ShouldSample(ctx context.Context) bool {
	if s.rate <= 0 {
		return false
	}
	if s.rate >= 1 {
		return true
	}

	var key string
	if ctx != nil {
		key = s.keyFunc(ctx)
	}
	if key == "" {
		if s.onEmptyKey != nil {
			s.onEmptyKey()
		}
		return randomFloat64() < s.rate
	}

	// hash == MaxUint64 时 normalized 可能为 1.0，rate < 1 时仍不会通过
	normalized := float64(xxhash.Sum64String(key)) / float64(math.MaxUint64)
	return normalized < s.rate
}

// Rate 返回采样比率
func (s *KeyBasedSampler) Rate() float64 {
	return s.rate
}

var _ Sampler = (*KeyBasedSampler)(nil)
