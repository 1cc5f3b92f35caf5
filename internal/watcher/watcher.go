package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/gac/internal/config"
	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/internal/git"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a burst of writes counts as one save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher turns file system events on enabled files into save events.
//
// Parent directories are watched instead of the files themselves, because
// most editors save by writing a temporary file and renaming it over the
// original, which drops a watch placed on the old inode.
type Watcher struct {
	fs         *fsnotify.Watcher
	debounce   time.Duration
	dispatcher git.Dispatcher
	onSave     func(path string)
	logger     *zap.Logger

	mu     sync.Mutex
	files  map[string]struct{}
	dirs   map[string]int
	timers map[string]*time.Timer
}

// New creates a Watcher. onSave runs through dispatcher, or inline on the
// watcher goroutine when dispatcher is nil.
func New(debounce time.Duration, dispatcher git.Dispatcher, onSave func(path string), logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeWatch, "failed to create file watcher", err)
	}
	return &Watcher{
		fs:         fsw,
		debounce:   debounce,
		dispatcher: dispatcher,
		onSave:     onSave,
		logger:     logger,
		files:      make(map[string]struct{}),
		dirs:       make(map[string]int),
		timers:     make(map[string]*time.Timer),
	}, nil
}

// Add registers path. Adding a registered path is a no-op.
func (w *Watcher) Add(path string) error {
	path = config.NormalizePath(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		return nil
	}
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return errors.Wrap(errors.ErrTypeWatch, "failed to watch "+dir, err).
				WithSuggestion("Make sure the file's directory exists")
		}
	}
	w.dirs[dir]++
	w.files[path] = struct{}{}
	w.logger.Debug("Watching file", zap.String("file", path))
	return nil
}

// Remove unregisters path and drops its pending save.
func (w *Watcher) Remove(path string) error {
	path = config.NormalizePath(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; !ok {
		return nil
	}
	delete(w.files, path)
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}

	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if err := w.fs.Remove(dir); err != nil {
		// 目录已被删除时 fsnotify 会自动移除监听
		w.logger.Debug("Failed to unwatch directory", zap.String("dir", dir), zap.Error(err))
	}
	return nil
}

// Files returns the registered paths in sorted order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Run delivers events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(filepath.Clean(event.Name))
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; !ok {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	_, tracked := w.files[path]
	delete(w.timers, path)
	w.mu.Unlock()

	if !tracked {
		return
	}
	// 删除或重命名后的文件没有可提交的内容
	if _, err := os.Stat(path); err != nil {
		w.logger.Debug("Saved file disappeared", zap.String("file", path), zap.Error(err))
		return
	}

	w.logger.Debug("Save detected", zap.String("file", path))
	if w.dispatcher == nil {
		w.onSave(path)
		return
	}
	w.dispatcher.Post(func() { w.onSave(path) })
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	if err := w.fs.Close(); err != nil {
		w.logger.Debug("Failed to close file watcher", zap.Error(err))
	}
}
