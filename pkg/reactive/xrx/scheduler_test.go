package xrx

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// 线程标识
// ============================================================================

func TestCurrentThreadName(t *testing.T) {
	name := CurrentThreadName()
	assert.True(t, strings.HasPrefix(name, "goroutine-"), name)

	RunOn("main", func() {
		assert.Equal(t, "main", CurrentThreadName())
		RunOn("inner", func() {
			assert.Equal(t, "inner", CurrentThreadName())
		})
		assert.Equal(t, "main", CurrentThreadName())
	})

	assert.Equal(t, name, CurrentThreadName())
	assert.NotPanics(t, func() { RunOn("x", nil) })
}

func TestGoroutineID_Distinct(t *testing.T) {
	id := goroutineID()
	require.NotZero(t, id)

	other := make(chan uint64)
	go func() { other <- goroutineID() }()
	assert.NotEqual(t, id, <-other)
}

// ============================================================================
// Worker
// ============================================================================

func TestWorker_FIFOAndName(t *testing.T) {
	w := NewWorker("A")
	assert.Equal(t, "A", w.Name())

	var (
		mu    sync.Mutex
		got   []int
		names []string
	)
	for i := 0; i < 50; i++ {
		require.True(t, w.Schedule(func() {
			mu.Lock()
			got = append(got, i)
			names = append(names, CurrentThreadName())
			mu.Unlock()
		}))
	}
	w.Close()

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
		assert.Equal(t, "A", names[i])
	}
}

func TestWorker_Close(t *testing.T) {
	w := NewWorker("c")
	w.Close()
	w.Close()
	assert.False(t, w.Schedule(func() {}))
	assert.True(t, w.Schedule(nil))
}

func TestWorker_Panic(t *testing.T) {
	var recovered any
	w := NewWorker("p", WithPanicHandler(func(r any) { recovered = r }), nil)
	w.Schedule(func() { panic("bad") })
	ran := false
	w.Schedule(func() { ran = true })
	w.Close()

	assert.Equal(t, "bad", recovered)
	assert.Equal(t, uint64(1), w.Panics())
	assert.True(t, ran, "worker keeps running after a panic")
}

func TestImmediate(t *testing.T) {
	name := CurrentThreadName()
	var seen string
	assert.True(t, Immediate().Schedule(func() { seen = CurrentThreadName() }))
	assert.Equal(t, name, seen)
	assert.True(t, Immediate().Schedule(nil))
}

// ============================================================================
// SubscribeOn / ObserveOn
// ============================================================================

func TestSubscribeOn(t *testing.T) {
	w := NewWorker("io")
	defer w.Close()

	var producedOn string
	s := NewSingle(func(context.Context) (int, error) {
		producedOn = CurrentThreadName()
		return 1, nil
	}).SubscribeOn(w)

	v, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, "io", producedOn)
}

func TestObserveOn(t *testing.T) {
	w := NewWorker("A")
	defer w.Close()

	var (
		mu    sync.Mutex
		names []string
	)
	record := func() {
		mu.Lock()
		names = append(names, CurrentThreadName())
		mu.Unlock()
	}
	f := FromSlice(1, 2, 3).ObserveOn(w).DoOnLifecycle(Hooks{
		OnNext:     func(any) { record() },
		OnComplete: record,
	})

	got, err := f.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"A", "A", "A", "A"}, names)
}

func TestObserveOn_ClosedWorkerRunsInline(t *testing.T) {
	w := NewWorker("gone")
	w.Close()

	got, err := FromSlice(1, 2).ObserveOn(w).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}

func TestScheduling_NilScheduler(t *testing.T) {
	got, err := FromSlice(1).SubscribeOn(nil).ObserveOn(nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestSubscribeOn_DisposedBeforeRun(t *testing.T) {
	w := NewWorker("late")
	gate := make(chan struct{})
	w.Schedule(func() { <-gate })

	ran := false
	sub := NewCompletable(func(context.Context) error {
		ran = true
		return nil
	}).SubscribeOn(w).Subscribe(context.Background(), Observer[Unit]{})
	sub.Dispose()
	close(gate)
	w.Close()

	assert.False(t, ran)
}
