package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/gac/internal/errors"
)

const (
	currentVersion  = "1.0.0"
	defaultDebounce = 100 * time.Millisecond
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "GAC_CONFIG"

// DefaultPath returns $GAC_CONFIG or <user config dir>/gac/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrTypeConfig, "failed to locate user config directory", err)
	}
	return filepath.Join(dir, "gac", "config.yaml"), nil
}

// NormalizePath makes file paths comparable across config edits.
func NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func defaultConfig() *Config {
	return &Config{
		Version: currentVersion,
		Files:   []FileConfig{},
	}
}

// Bool returns a pointer to b, for optional fields.
func Bool(b bool) *bool {
	return &b
}

// PTYEnabled reports whether pushes run on a pseudo-terminal (default true).
func (c *Config) PTYEnabled() bool {
	return c.UsePTY == nil || *c.UsePTY
}

// Debounce is the quiet period after a file event before it counts as a save.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return defaultDebounce
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// AutoPushFor resolves the effective auto-push flag of a file entry.
func (c *Config) AutoPushFor(f FileConfig) bool {
	if f.AutoPush != nil {
		return *f.AutoPush
	}
	return c.AutoPush
}

// FindFile returns the entry for path, if any.
func (c *Config) FindFile(path string) (FileConfig, bool) {
	path = NormalizePath(path)
	for _, f := range c.Files {
		if NormalizePath(f.Path) == path {
			return f, true
		}
	}
	return FileConfig{}, false
}

// upsertFile replaces or appends an entry, keeping the list order stable.
func (c *Config) upsertFile(file FileConfig) {
	file.Path = NormalizePath(file.Path)
	for i, f := range c.Files {
		if NormalizePath(f.Path) == file.Path {
			c.Files[i] = file
			return
		}
	}
	c.Files = append(c.Files, file)
}

func (c *Config) removeFile(path string) bool {
	path = NormalizePath(path)
	for i, f := range c.Files {
		if NormalizePath(f.Path) == path {
			c.Files = append(c.Files[:i], c.Files[i+1:]...)
			return true
		}
	}
	return false
}
