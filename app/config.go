package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by configuration validation failures.
var ErrInvalidConfig = errors.New("app: invalid config")

// Config describes the application window and frame loop.
//
//	title: demo
//	width: 1280
//	height: 720
//	fps: 60
//	clear_color: [0.1, 0.1, 0.1, 1]
//	exit_key: escape
type Config struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	Resizable  bool       `yaml:"resizable"`
	VSync      bool       `yaml:"vsync"`
	Samples    int        `yaml:"samples"`
	Cursor     bool       `yaml:"cursor"`
	FPS        int        `yaml:"fps"`
	ClearColor [4]float64 `yaml:"clear_color"`

	// ExitKey names the key that stops the loop: a letter, a digit,
	// "f1" to "f12", or one of escape, enter, space, tab, backspace.
	// Empty disables it.
	ExitKey string `yaml:"exit_key"`
}

// DefaultConfig returns an 800x600 resizable window at 60 frames per
// second that exits on escape.
func DefaultConfig() Config {
	return Config{
		Title:      "gfx",
		Width:      800,
		Height:     600,
		Resizable:  true,
		Cursor:     true,
		FPS:        60,
		ClearColor: [4]float64{0, 0, 0, 1},
		ExitKey:    "escape",
	}
}

// ParseConfig decodes YAML over DefaultConfig, so omitted fields keep
// their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("app: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("app: load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks sizes, rate and exit key.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.Samples < 0:
		return fmt.Errorf("%w: samples %d", ErrInvalidConfig, c.Samples)
	}
	if _, err := c.Key(); err != nil {
		return err
	}
	return nil
}

// Key resolves ExitKey. An empty name yields KeyUnknown.
func (c Config) Key() (gpucontext.Key, error) {
	k, ok := ParseKey(c.ExitKey)
	if !ok {
		return gpucontext.KeyUnknown, fmt.Errorf("%w: exit key %q", ErrInvalidConfig, c.ExitKey)
	}
	return k, nil
}

// Color returns ClearColor as a WebGPU color.
func (c Config) Color() gputypes.Color {
	return gputypes.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
}

var namedKeys = map[string]gpucontext.Key{
	"escape":    gpucontext.KeyEscape,
	"esc":       gpucontext.KeyEscape,
	"enter":     gpucontext.KeyEnter,
	"space":     gpucontext.KeySpace,
	"tab":       gpucontext.KeyTab,
	"backspace": gpucontext.KeyBackspace,
}

// ParseKey maps a case-insensitive key name to a key.
func ParseKey(name string) (gpucontext.Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return gpucontext.KeyUnknown, true
	}
	if k, ok := namedKeys[name]; ok {
		return k, true
	}
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return gpucontext.KeyA + gpucontext.Key(c-'a'), true
		case c >= '0' && c <= '9':
			return gpucontext.Key0 + gpucontext.Key(c-'0'), true
		}
	}
	if rest, ok := strings.CutPrefix(name, "f"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 12 && rest[0] >= '1' && rest[0] <= '9' {
			return gpucontext.KeyF1 + gpucontext.Key(n-1), true
		}
	}
	return gpucontext.KeyUnknown, false
}
