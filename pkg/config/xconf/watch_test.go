package xconf

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRejectsBytesConfig(t *testing.T) {
	cfg, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	_, err = Watch(cfg, nil)
	assert.ErrorIs(t, err, ErrNotFileBacked)

	_, err = Watch(nil, nil)
	assert.ErrorIs(t, err, ErrNotFileBacked)
}

func TestWatchNilOption(t *testing.T) {
	cfg, err := New(writeFile(t, "rx.yaml", yamlDoc))
	require.NoError(t, err)
	_, err = Watch(cfg, nil, nil)
	assert.ErrorIs(t, err, ErrNilOption)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "rx.yaml", yamlDoc)
	cfg, err := New(path)
	require.NoError(t, err)

	reloaded := make(chan int, 8)
	w, err := Watch(cfg, func(c Config, err error) {
		if err != nil {
			return
		}
		select {
		case reloaded <- c.Client().Int("trace.max_value_len"):
		default:
		}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	w.StartAsync()
	defer func() { assert.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(path, []byte("trace: {max_value_len: 16}"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case v := <-reloaded:
			if v == 16 {
				return
			}
		case <-deadline:
			t.Fatal("watcher did not reload")
		}
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	path := writeFile(t, "rx.yaml", yamlDoc)
	cfg, err := New(path)
	require.NoError(t, err)

	called := make(chan struct{}, 1)
	w, err := Watch(cfg, func(Config, error) {
		select {
		case called <- struct{}{}:
		default:
		}
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()

	require.NoError(t, os.WriteFile(path+".bak", []byte("x"), 0o600))
	select {
	case <-called:
		t.Fatal("callback fired for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
	require.NoError(t, w.Stop())
}

func TestWatchStopIdempotent(t *testing.T) {
	cfg, err := New(writeFile(t, "rx.yaml", yamlDoc))
	require.NoError(t, err)
	w, err := Watch(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	// Stop 之后不再启动
	w.StartAsync()
}
