package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 定义配置接口。基础读取操作直接使用 Client() 返回的 koanf 实例。
type Config interface {
	// Client 返回当前的 koanf 实例。
	Client() *koanf.Koanf

	// Unmarshal 将 path 处的配置反序列化到 target，path 为空时反序列化整个配置。
	Unmarshal(path string, target any) error

	// Reload 重新读取配置文件。从字节数据创建的 Config 返回 ErrNotFileBacked。
	Reload() error

	// Path 返回配置文件路径，字节数据创建的 Config 返回空字符串。
	Path() string

	// Format 返回配置格式。
	Format() Format
}

// Options 定义配置加载选项。
type Options struct {
	// Delim 键分隔符，默认 "."。
	Delim string
	// Tag Unmarshal 使用的结构体标签，默认 "koanf"。
	Tag string
}

// Option 定义配置选项函数类型。
type Option func(*Options)

// WithDelim 设置键分隔符。
func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}

// WithTag 设置结构体标签名。
func WithTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.Tag = tag
		}
	}
}

func buildOptions(opts []Option) (*Options, error) {
	o := &Options{Delim: ".", Tag: "koanf"}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(o)
	}
	return o, nil
}

type koanfConfig struct {
	k      atomic.Pointer[koanf.Koanf]
	path   string
	format Format
	opts   *Options

	reloadMu sync.Mutex
}

// New 从文件创建配置实例，按扩展名识别格式（.yaml/.yml/.json）。空文件得到空配置。
func New(path string, opts ...Option) (Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	c := &koanfConfig{path: path, format: format, opts: options}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 以指定格式从字节数据创建配置实例。空数据得到空配置。
func NewFromBytes(data []byte, format Format, opts ...Option) (Config, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	k, err := parse(data, format, options.Delim)
	if err != nil {
		return nil, err
	}
	c := &koanfConfig{format: format, opts: options}
	c.k.Store(k)
	return c, nil
}

// Load 读取 path 并将整个配置反序列化到 target。
func Load(path string, target any, opts ...Option) (Config, error) {
	cfg, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Unmarshal("", target); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *koanfConfig) Client() *koanf.Koanf {
	return c.k.Load()
}

func (c *koanfConfig) Unmarshal(path string, target any) error {
	if err := c.k.Load().UnmarshalWithConf(path, target, koanf.UnmarshalConf{
		Tag: c.opts.Tag,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

func (c *koanfConfig) Reload() error {
	if c.path == "" {
		return ErrNotFileBacked
	}
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, err := parse(data, c.format, c.opts.Delim)
	if err != nil {
		return err
	}
	c.k.Store(k)
	return nil
}

func (c *koanfConfig) Path() string {
	return c.path
}

func (c *koanfConfig) Format() Format {
	return c.format
}

// =============================================================================
// 内部辅助函数
// =============================================================================

func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func isValidFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}

func parse(data []byte, format Format, delim string) (*koanf.Koanf, error) {
	k := koanf.New(delim)
	if len(data) == 0 {
		return k, nil
	}
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, ErrUnsupportedFormat
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}
