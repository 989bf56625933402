package xrxlog

import (
	"slices"
	"sync"
	"time"

	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

// ComponentInfo 一次订阅的可变记录。
//
// observeOn 执行体只设置一次（先到者生效）；发射数只增不减；执行时间只设置一次。
type ComponentInfo struct {
	kind     xrx.Kind
	site     CallSite
	typeArgs []string
	passID   string
	seq      uint64

	mu              sync.Mutex
	subscribeThread string
	observeThread   string
	emitted         int64
	execTime        time.Duration
	execTimeSet     bool
}

// NewComponentInfo 创建记录。passID 关联同一次 Proceed 的所有订阅，seq 为订阅序号（从 1 开始）。
func NewComponentInfo(kind xrx.Kind, site CallSite, typeArgs []string, passID string, seq uint64) *ComponentInfo {
	site = site.clone()
	return &ComponentInfo{
		kind:     kind,
		site:     site,
		typeArgs: slices.Clone(typeArgs),
		passID:   passID,
		seq:      seq,
	}
}

// SetSubscribeOnThread 记录订阅执行体，只在首次调用时生效并返回 true。
func (c *ComponentInfo) SetSubscribeOnThread(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribeThread != "" || name == "" {
		return false
	}
	c.subscribeThread = name
	return true
}

// SetObserveOnThread 记录观察执行体，只在首次调用时生效并返回 true。
func (c *ComponentInfo) SetObserveOnThread(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.observeThread != "" || name == "" {
		return false
	}
	c.observeThread = name
	return true
}

// ObserveOnThread 返回观察执行体，未设置时为空。
func (c *ComponentInfo) ObserveOnThread() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.observeThread
}

// IncEmittedItems 发射数加一并返回新值。
func (c *ComponentInfo) IncEmittedItems() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitted++
	return c.emitted
}

// SetTotalEmittedItems 将发射数提升到 n；n 小于当前值时不变。
func (c *ComponentInfo) SetTotalEmittedItems(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > c.emitted {
		c.emitted = n
	}
}

// TotalEmittedItems 返回发射数。
func (c *ComponentInfo) TotalEmittedItems() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emitted
}

// SetTotalExecutionTime 设置执行时间，已设置过时返回 false。
func (c *ComponentInfo) SetTotalExecutionTime(d time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.execTimeSet {
		return false
	}
	c.execTime = d
	c.execTimeSet = true
	return true
}

// Snapshot 返回当前状态的不可变副本。
func (c *ComponentInfo) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Kind:             c.kind,
		Site:             c.site.clone(),
		TypeArgs:         slices.Clone(c.typeArgs),
		PassID:           c.passID,
		Subscription:     c.seq,
		SubscribeThread:  c.subscribeThread,
		ObserveThread:    c.observeThread,
		EmittedItems:     c.emitted,
		ExecutionTime:    c.execTime,
		ExecutionTimeSet: c.execTimeSet,
	}
}

// Snapshot ComponentInfo 在某一时刻的副本。
type Snapshot struct {
	Kind             xrx.Kind
	Site             CallSite
	TypeArgs         []string
	PassID           string
	Subscription     uint64
	SubscribeThread  string
	ObserveThread    string
	EmittedItems     int64
	ExecutionTime    time.Duration
	ExecutionTimeSet bool
}

// ExecutionMillis 以毫秒返回执行时间。
func (s Snapshot) ExecutionMillis() int64 {
	return s.ExecutionTime.Milliseconds()
}
