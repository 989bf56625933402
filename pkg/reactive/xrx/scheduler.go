package xrx

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// Scheduler 任务调度器。
type Scheduler interface {
	// Schedule 提交任务。调度器已关闭时返回 false，任务不会执行。
	Schedule(task func()) bool
}

type immediate struct{}

func (immediate) Schedule(task func()) bool {
	if task != nil {
		task()
	}
	return true
}

// Immediate 返回在调用方 goroutine 上同步执行任务的调度器。
func Immediate() Scheduler {
	return immediate{}
}

// WorkerOption Worker 配置选项。
type WorkerOption func(*Worker)

// WithPanicHandler 设置任务 panic 回调。
// 默认吞掉 panic 并计数，Worker 继续处理后续任务。
func WithPanicHandler(fn func(recovered any)) WorkerOption {
	return func(w *Worker) {
		w.onPanic = fn
	}
}

// Worker 单 goroutine FIFO 执行器，相当于一个具名线程。
//
// 任务按提交顺序串行执行，执行期间 [CurrentThreadName] 返回 Worker 名称。
// 队列无界，Schedule 从不阻塞。
type Worker struct {
	name    string
	onPanic func(any)
	panics  atomic.Uint64

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  *queue.Queue
	closed bool
	done   chan struct{}
}

var _ Scheduler = (*Worker)(nil)

// NewWorker 创建并启动 Worker。使用完毕必须调用 Close。
func NewWorker(name string, opts ...WorkerOption) *Worker {
	w := &Worker{
		name:  name,
		tasks: queue.New(),
		done:  make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	go w.loop()
	return w
}

// Name 返回 Worker 名称。
func (w *Worker) Name() string {
	return w.name
}

// Panics 返回任务 panic 次数。
func (w *Worker) Panics() uint64 {
	return w.panics.Load()
}

// Schedule 提交任务。
func (w *Worker) Schedule(task func()) bool {
	if task == nil {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.tasks.Add(task)
	w.cond.Signal()
	return true
}

// Close 停止接收新任务，执行完队列中剩余任务后返回。幂等。
//
// 不得在 Worker 自身的任务中调用，否则死锁。
func (w *Worker) Close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}

func (w *Worker) loop() {
	defer close(w.done)
	restore := bindThreadName(w.name)
	defer restore()

	for {
		w.mu.Lock()
		for w.tasks.Length() == 0 && !w.closed {
			w.cond.Wait()
		}
		if w.tasks.Length() == 0 {
			w.mu.Unlock()
			return
		}
		task, _ := w.tasks.Remove().(func())
		w.mu.Unlock()

		w.run(task)
	}
}

func (w *Worker) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			w.panics.Add(1)
			if w.onPanic != nil {
				w.onPanic(r)
			}
		}
	}()
	if task != nil {
		task()
	}
}

// schedule 提交任务，调度器拒绝时在当前 goroutine 执行，保证信号不丢失。
func schedule(sch Scheduler, task func()) {
	if !sch.Schedule(task) {
		task()
	}
}

func subscribeOn[T any](src Source[T], sch Scheduler) Source[T] {
	if sch == nil {
		return src
	}
	return func(s *Subscription, o Observer[T]) {
		schedule(sch, func() {
			if s.IsDisposed() {
				return
			}
			src(s, o)
		})
	}
}

// observeOn 把下游信号投递到 sch。订阅释放后不再投递。
func observeOn[T any](src Source[T], sch Scheduler) Source[T] {
	if sch == nil {
		return src
	}
	return func(s *Subscription, o Observer[T]) {
		deliver := func(fn func()) {
			schedule(sch, func() {
				if s.IsDisposed() {
					return
				}
				fn()
			})
		}
		src(s, Observer[T]{
			OnNext:     func(v T) { deliver(func() { o.next(v) }) },
			OnSuccess:  func(v T) { deliver(func() { o.success(v) }) },
			OnComplete: func() { deliver(o.complete) },
			OnError:    func(err error) { deliver(func() { o.error(err) }) },
		})
	}
}
