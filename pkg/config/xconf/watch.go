package xconf

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 在配置文件变更并重载后调用，err 为重载或监视错误。
type WatchCallback func(cfg Config, err error)

// WatchOption 监视器配置选项
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次重载。默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 监视配置文件变更并自动重载。
type Watcher struct {
	cfg      Config
	fs       *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	filename string

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Watch 创建配置文件监视器。只支持从文件创建的 Config。
// 返回的 Watcher 需要调用 Start 或 StartAsync 开始监视，Stop 停止。
func Watch(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.Path() == "" {
		return nil, ErrNotFileBacked
	}

	w := &Watcher{
		cfg:      cfg,
		callback: callback,
		debounce: 100 * time.Millisecond,
		filename: filepath.Base(cfg.Path()),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(w)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(cfg.Path())
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(
			fmt.Errorf("xconf: watch directory %s: %w", dir, err),
			fsWatcher.Close(),
		)
	}
	w.fs = fsWatcher
	return w, nil
}

// Start 阻塞运行监视循环，直到 Stop。
func (w *Watcher) Start() {
	if !w.markStarted() {
		return
	}
	w.wg.Add(1)
	w.run()
}

// StartAsync 在后台 goroutine 中运行监视循环。
func (w *Watcher) StartAsync() {
	if !w.markStarted() {
		return
	}
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) markStarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return false
	}
	w.started = true
	return true
}

// Stop 停止监视并等待监视循环退出。可重复调用。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.callback != nil {
				w.callback(w.cfg, fmt.Errorf("xconf: watch error: %w", err))
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != w.filename {
		return
	}
	// Write 直接修改；Create/Rename 对应原子写入
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	err := w.cfg.Reload()
	if w.callback != nil {
		w.callback(w.cfg, err)
	}
}
