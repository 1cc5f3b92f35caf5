package session

import (
	"testing"

	"github.com/penwyp/gac/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Toggle(t *testing.T) {
	reg := NewRegistry(true)

	s := reg.Enable("/repo/a.txt")
	require.NotNil(t, s)
	assert.True(t, s.AutoPush)
	assert.Equal(t, 1, reg.Len())

	// 重复启用保留原状态
	s.AutoPush = false
	again := reg.Enable("/repo/./a.txt")
	assert.Same(t, s, again)
	assert.False(t, again.AutoPush)

	assert.True(t, reg.SetAutoPush("/repo/a.txt", true))
	got, ok := reg.Get("/repo/a.txt")
	require.True(t, ok)
	assert.True(t, got.AutoPush)

	assert.True(t, reg.Disable("/repo/a.txt"))
	assert.False(t, reg.Disable("/repo/a.txt"))
	_, ok = reg.Get("/repo/a.txt")
	assert.False(t, ok)
	assert.False(t, reg.SetAutoPush("/repo/a.txt", true))
}

func TestRegistry_DefaultAutoPushOff(t *testing.T) {
	reg := NewRegistry(false)
	s := reg.Enable("/repo/a.txt")
	assert.False(t, s.AutoPush)
	assert.False(t, s.WIPBranch)
}

func TestRegistry_Paths(t *testing.T) {
	reg := NewRegistry(false)
	reg.Enable("/repo/c.txt")
	reg.Enable("/repo/a.txt")
	reg.Enable("/repo/b.txt")

	assert.Equal(t, []string{"/repo/a.txt", "/repo/b.txt", "/repo/c.txt"}, reg.Paths())
}

func TestRegistry_Apply(t *testing.T) {
	reg := NewRegistry(false)
	reg.Enable("/repo/old.txt")
	kept := reg.Enable("/repo/kept.txt")

	cfg := &config.Config{
		AutoPush: true,
		Files: []config.FileConfig{
			{Path: "/repo/kept.txt", AutoPush: config.Bool(false)},
			{Path: "/repo/new.txt", WIPBranch: true},
		},
	}

	added, removed := reg.Apply(cfg, "/repo/cli.txt")
	assert.Equal(t, []string{"/repo/cli.txt", "/repo/new.txt"}, added)
	assert.Equal(t, []string{"/repo/old.txt"}, removed)

	got, ok := reg.Get("/repo/kept.txt")
	require.True(t, ok)
	assert.Same(t, kept, got)
	assert.False(t, got.AutoPush)

	got, ok = reg.Get("/repo/new.txt")
	require.True(t, ok)
	assert.True(t, got.AutoPush)
	assert.True(t, got.WIPBranch)

	got, ok = reg.Get("/repo/cli.txt")
	require.True(t, ok)
	assert.True(t, got.AutoPush)

	// 新启用的文件使用新的默认值
	cfg.AutoPush = false
	reg.Apply(cfg)
	assert.False(t, reg.Enable("/repo/another.txt").AutoPush)
}

func TestRegistry_Apply_DefaultOnlySeedsNewFiles(t *testing.T) {
	reg := NewRegistry(false)

	cfg := &config.Config{
		AutoPush: false,
		Files: []config.FileConfig{
			{Path: "/repo/a.txt"},
			{Path: "/repo/pinned.txt", AutoPush: config.Bool(false)},
		},
	}
	reg.Apply(cfg)

	// 全局默认值变化只影响新启用的文件
	cfg = &config.Config{
		AutoPush: true,
		Files: []config.FileConfig{
			{Path: "/repo/a.txt"},
			{Path: "/repo/b.txt"},
			{Path: "/repo/pinned.txt", AutoPush: config.Bool(false)},
		},
	}
	added, removed := reg.Apply(cfg)
	assert.Equal(t, []string{"/repo/b.txt"}, added)
	assert.Empty(t, removed)

	tests := []struct {
		path     string
		autoPush bool
	}{
		{"/repo/a.txt", false},
		{"/repo/b.txt", true},
		{"/repo/pinned.txt", false},
	}
	for _, tt := range tests {
		s, ok := reg.Get(tt.path)
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.autoPush, s.AutoPush, tt.path)
	}

	// 显式覆盖仍然作用于已打开的文件
	cfg.Files[0].AutoPush = config.Bool(true)
	reg.Apply(cfg)
	s, ok := reg.Get("/repo/a.txt")
	require.True(t, ok)
	assert.True(t, s.AutoPush)
}
