package xrxlog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

func newTestInfo() *ComponentInfo {
	return NewComponentInfo(xrx.KindFlowable, CallSite{Component: "Repo", Method: "List"}, []string{"int"}, "pass-1", 1)
}

func TestComponentInfo_ThreadsFirstWins(t *testing.T) {
	info := newTestInfo()

	assert.False(t, info.SetObserveOnThread(""))
	assert.True(t, info.SetObserveOnThread("T1"))
	assert.False(t, info.SetObserveOnThread("T2"))
	assert.Equal(t, "T1", info.ObserveOnThread())

	assert.True(t, info.SetSubscribeOnThread("main"))
	assert.False(t, info.SetSubscribeOnThread("other"))

	s := info.Snapshot()
	assert.Equal(t, "T1", s.ObserveThread)
	assert.Equal(t, "main", s.SubscribeThread)
}

func TestComponentInfo_EmittedItemsMonotonic(t *testing.T) {
	info := newTestInfo()
	for i := int64(1); i <= 3; i++ {
		assert.Equal(t, i, info.IncEmittedItems())
	}
	info.SetTotalEmittedItems(1)
	assert.Equal(t, int64(3), info.TotalEmittedItems(), "never lowered")
	info.SetTotalEmittedItems(5)
	assert.Equal(t, int64(5), info.TotalEmittedItems())
}

func TestComponentInfo_ExecutionTimeSetOnce(t *testing.T) {
	info := newTestInfo()
	assert.False(t, info.Snapshot().ExecutionTimeSet)

	assert.True(t, info.SetTotalExecutionTime(12*time.Millisecond))
	assert.False(t, info.SetTotalExecutionTime(99*time.Millisecond))

	s := info.Snapshot()
	assert.True(t, s.ExecutionTimeSet)
	assert.Equal(t, int64(12), s.ExecutionMillis())
}

func TestComponentInfo_SnapshotIsCopy(t *testing.T) {
	info := newTestInfo()
	s := info.Snapshot()
	s.TypeArgs[0] = "mutated"
	info.IncEmittedItems()

	assert.Equal(t, []string{"int"}, info.Snapshot().TypeArgs)
	assert.Zero(t, s.EmittedItems)
	assert.Equal(t, "pass-1", s.PassID)
	assert.Equal(t, uint64(1), s.Subscription)
	assert.Equal(t, xrx.KindFlowable, s.Kind)
}

func TestComponentInfo_CrossGoroutine(t *testing.T) {
	info := newTestInfo()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				info.IncEmittedItems()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), info.TotalEmittedItems())
}

func TestComponentInfo_ParamsDetachedFromCaller(t *testing.T) {
	params := []Param{{Name: "limit", Value: 3}}
	info := NewComponentInfo(xrx.KindSingle, CallSite{Component: "Repo", Method: "Get", Params: params}, nil, "pass-1", 1)
	params[0].Value = 999

	s := info.Snapshot()
	assert.Equal(t, []Param{{Name: "limit", Value: 3}}, s.Site.Params)
	s.Site.Params[0].Value = 7
	assert.Equal(t, 3, info.Snapshot().Site.Params[0].Value)
}
