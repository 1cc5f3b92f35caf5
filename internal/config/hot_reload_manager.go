package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/gac/internal/errors"
	"go.uber.org/zap"
)

// HotReloadManager wraps a config manager with hot reload capability
type HotReloadManager struct {
	baseManager Manager
	configPath  string
	watcher     *fsnotify.Watcher
	logger      *zap.Logger

	// 当前配置，原子存储 *Config
	currentConfig atomic.Pointer[Config]

	callbacks   []func(*Config)
	callbacksMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	debounceTimer *time.Timer
	debounceMu    sync.Mutex
}

// NewHotReloadManager creates a new hot reload manager. A missing config file
// is created with defaults.
func NewHotReloadManager(baseManager Manager, configPath string, logger *zap.Logger) (*HotReloadManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeConfig, "failed to create file watcher", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &HotReloadManager{
		baseManager: baseManager,
		configPath:  filepath.Clean(configPath),
		watcher:     watcher,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	config, err := baseManager.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			cancel()
			watcher.Close()
			return nil, errors.Wrap(errors.ErrTypeConfig, "failed to load initial config", err)
		}
		if err := baseManager.CreateDefaultConfig(); err != nil {
			cancel()
			watcher.Close()
			return nil, errors.Wrap(errors.ErrTypeConfig, "failed to create default config", err)
		}
		config, err = baseManager.Load()
		if err != nil {
			cancel()
			watcher.Close()
			return nil, errors.Wrap(errors.ErrTypeConfig, "failed to load default config", err)
		}
	}
	m.currentConfig.Store(config)

	if err := m.startWatching(); err != nil {
		cancel()
		watcher.Close()
		return nil, err
	}

	return m, nil
}

// Load returns the current config (from memory)
func (m *HotReloadManager) Load() (*Config, error) {
	config := m.currentConfig.Load()
	if config == nil {
		return nil, errors.New(errors.ErrTypeConfig, "no config loaded")
	}
	return config, nil
}

// Save saves the config and updates the in-memory cache
func (m *HotReloadManager) Save(config *Config) error {
	if err := m.baseManager.Save(config); err != nil {
		return err
	}
	m.currentConfig.Store(config)
	m.notifyCallbacks(config)
	return nil
}

// CreateDefaultConfig creates the default config
func (m *HotReloadManager) CreateDefaultConfig() error {
	if err := m.baseManager.CreateDefaultConfig(); err != nil {
		return err
	}
	return m.refresh("failed to load created config")
}

// UpdateFile updates one file entry on disk and refreshes the cache
func (m *HotReloadManager) UpdateFile(file FileConfig) error {
	if err := m.baseManager.UpdateFile(file); err != nil {
		return err
	}
	return m.refresh("failed to reload after update")
}

// RemoveFile removes one file entry on disk and refreshes the cache
func (m *HotReloadManager) RemoveFile(path string) (bool, error) {
	removed, err := m.baseManager.RemoveFile(path)
	if err != nil || !removed {
		return removed, err
	}
	return true, m.refresh("failed to reload after remove")
}

func (m *HotReloadManager) refresh(msg string) error {
	config, err := m.baseManager.Load()
	if err != nil {
		return errors.Wrap(errors.ErrTypeConfig, msg, err)
	}
	m.currentConfig.Store(config)
	m.notifyCallbacks(config)
	return nil
}

// OnConfigChange registers a callback for config changes. Callbacks run on
// their own goroutine.
func (m *HotReloadManager) OnConfigChange(callback func(*Config)) {
	m.callbacksMu.Lock()
	defer m.callbacksMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// Stop stops the hot reload manager
func (m *HotReloadManager) Stop() error {
	m.cancel()

	m.debounceMu.Lock()
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	m.debounceMu.Unlock()

	<-m.done

	return m.watcher.Close()
}

// startWatching watches the config directory; editors and atomic writes
// replace the file, which a watch on the file itself would miss.
func (m *HotReloadManager) startWatching() error {
	dir := filepath.Dir(m.configPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to create config directory", err)
	}

	if err := m.watcher.Add(dir); err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to watch config directory", err)
	}

	go m.watchLoop()

	return nil
}

func (m *HotReloadManager) watchLoop() {
	defer close(m.done)

	for {
		select {
		case <-m.ctx.Done():
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.configPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				m.handleConfigChange(event.Op)
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

// handleConfigChange handles a config file change with debouncing
func (m *HotReloadManager) handleConfigChange(op fsnotify.Op) {
	m.debounceMu.Lock()
	defer m.debounceMu.Unlock()

	m.logger.Debug("config file event", zap.String("op", op.String()))

	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	m.debounceTimer = time.AfterFunc(defaultDebounce, m.reloadConfig)
}

func (m *HotReloadManager) reloadConfig() {
	if m.ctx.Err() != nil {
		return
	}
	newConfig, err := m.baseManager.Load()
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Info("config file removed, keeping current config", zap.String("path", m.configPath))
			return
		}
		m.logger.Warn("failed to reload config", zap.Error(err))
		return
	}

	m.logger.Info("config reloaded", zap.String("path", m.configPath), zap.Int("files", len(newConfig.Files)))
	m.currentConfig.Store(newConfig)
	m.notifyCallbacks(newConfig)
}

func (m *HotReloadManager) notifyCallbacks(config *Config) {
	m.callbacksMu.RLock()
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.callbacksMu.RUnlock()

	for _, callback := range callbacks {
		go func(cb func(*Config)) {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("config change callback panic", zap.Any("panic", r))
				}
			}()
			cb(config)
		}(callback)
	}
}
