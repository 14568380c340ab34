// Package config persists user preferences between sessions. Persistence
// is best-effort: a missing or damaged file yields defaults, and a failed
// save is reported to the caller but never aborts the session.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appDir   = "sigscope"
	fileName = "config.yaml"

	defaultWindowWidth  = 1200
	defaultWindowHeight = 800

	// Window dimensions are clamped to keep a corrupt file from
	// producing an invisible or absurd window.
	minWindowSize = 400
	maxWindowSize = 10000
)

// WindowConfig is the persisted window geometry, in logical points so
// the size survives moves between displays of different scale.
type WindowConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Config is the full persisted state plus the path it round-trips to.
type Config struct {
	path string

	Window WindowConfig `yaml:"window"`
}

func defaults(path string) *Config {
	return &Config{
		path: path,
		Window: WindowConfig{
			Width:  defaultWindowWidth,
			Height: defaultWindowHeight,
		},
	}
}

// Load reads the config from the user's configuration directory. It
// never fails: anything unreadable is replaced by defaults.
func Load() *Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		slog.Warn("config: no user config directory, using defaults", "error", err)
		return defaults("")
	}
	return LoadFrom(filepath.Join(dir, appDir, fileName))
}

// LoadFrom reads the config from an explicit path, falling back to
// defaults on any error.
func LoadFrom(path string) *Config {
	cfg := defaults(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("config: read failed, using defaults", "path", path, "error", err)
		}
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Warn("config: parse failed, using defaults", "path", path, "error", err)
		return defaults(path)
	}
	cfg.clamp()
	return cfg
}

// WindowSize returns the stored window size in logical points.
func (c *Config) WindowSize() (width, height float64) {
	return c.Window.Width, c.Window.Height
}

// SetWindowSize stores a window size given in physical pixels and the
// display scale factor.
func (c *Config) SetWindowSize(widthPx, heightPx uint32, scale float32) {
	if scale <= 0 {
		scale = 1
	}
	c.Window.Width = float64(widthPx) / float64(scale)
	c.Window.Height = float64(heightPx) / float64(scale)
	c.clamp()
}

// Save writes the config back to its path, creating the directory if
// needed. The caller decides how to surface a failure.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config: no config path available")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", c.path, err)
	}
	return nil
}

func (c *Config) clamp() {
	c.Window.Width = clampSize(c.Window.Width)
	c.Window.Height = clampSize(c.Window.Height)
}

func clampSize(v float64) float64 {
	if v < minWindowSize {
		return minWindowSize
	}
	if v > maxWindowSize {
		return maxWindowSize
	}
	return v
}
