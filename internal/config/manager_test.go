package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/gac.yaml")
		path, err := DefaultPath()
		require.NoError(t, err)
		assert.Equal(t, "/custom/gac.yaml", path)
	})

	t.Run("user config dir", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		t.Setenv("HOME", "/home/someone")
		path, err := DefaultPath()
		require.NoError(t, err)
		assert.Equal(t, "config.yaml", filepath.Base(path))
		assert.Equal(t, "gac", filepath.Base(filepath.Dir(path)))
	})
}

func TestConfigDefaults(t *testing.T) {
	c := &Config{}
	assert.True(t, c.PTYEnabled())
	assert.Equal(t, 100*time.Millisecond, c.Debounce())

	c.UsePTY = Bool(false)
	c.DebounceMS = 500
	assert.False(t, c.PTYEnabled())
	assert.Equal(t, 500*time.Millisecond, c.Debounce())
}

func TestConfig_AutoPushFor(t *testing.T) {
	tests := []struct {
		name     string
		global   bool
		override *bool
		want     bool
	}{
		{"inherits false", false, nil, false},
		{"inherits true", true, nil, true},
		{"override on", false, Bool(true), true},
		{"override off", true, Bool(false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{AutoPush: tt.global}
			assert.Equal(t, tt.want, c.AutoPushFor(FileConfig{Path: "/x", AutoPush: tt.override}))
		})
	}
}

func TestConfig_FindFile(t *testing.T) {
	c := &Config{Files: []FileConfig{{Path: "/repo/a.txt", WIPBranch: true}}}

	f, ok := c.FindFile("/repo/./a.txt")
	require.True(t, ok)
	assert.True(t, f.WIPBranch)

	_, ok = c.FindFile("/repo/b.txt")
	assert.False(t, ok)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/a/c", NormalizePath("/a/b/../c"))

	rel := NormalizePath("x.txt")
	assert.True(t, filepath.IsAbs(rel))
}
