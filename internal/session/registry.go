package session

import (
	"sort"

	"github.com/penwyp/gac/internal/config"
)

// FileSession is the per-file state of an enabled file.
type FileSession struct {
	// Path is absolute and normalized.
	Path      string
	AutoPush  bool
	WIPBranch bool
}

// Registry holds the enabled files keyed by absolute path. It is owned by the
// event loop goroutine and is not safe for concurrent use.
type Registry struct {
	defaultAutoPush bool
	sessions        map[string]*FileSession
}

// NewRegistry creates an empty registry. New sessions start with
// defaultAutoPush.
func NewRegistry(defaultAutoPush bool) *Registry {
	return &Registry{
		defaultAutoPush: defaultAutoPush,
		sessions:        make(map[string]*FileSession),
	}
}

// Enable turns the mode on for path. Enabling an enabled file keeps its state.
func (r *Registry) Enable(path string) *FileSession {
	path = config.NormalizePath(path)
	if s, ok := r.sessions[path]; ok {
		return s
	}
	s := &FileSession{Path: path, AutoPush: r.defaultAutoPush}
	r.sessions[path] = s
	return s
}

// Disable turns the mode off and discards the session.
func (r *Registry) Disable(path string) bool {
	path = config.NormalizePath(path)
	if _, ok := r.sessions[path]; !ok {
		return false
	}
	delete(r.sessions, path)
	return true
}

// SetAutoPush sets the auto-push flag of an enabled file.
func (r *Registry) SetAutoPush(path string, on bool) bool {
	s, ok := r.Get(path)
	if !ok {
		return false
	}
	s.AutoPush = on
	return true
}

// Get returns the session for path.
func (r *Registry) Get(path string) (*FileSession, bool) {
	s, ok := r.sessions[config.NormalizePath(path)]
	return s, ok
}

// Paths returns the enabled paths in sorted order.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.sessions))
	for p := range r.sessions {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of enabled files.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// Apply syncs the registry with cfg and reports which paths were added and
// removed. extra paths stay enabled even when cfg does not list them.
// cfg.AutoPush only seeds files enabled by this call; open files keep their
// flag unless their entry carries an explicit override.
func (r *Registry) Apply(cfg *config.Config, extra ...string) (added, removed []string) {
	r.defaultAutoPush = cfg.AutoPush

	want := make(map[string]config.FileConfig, len(cfg.Files)+len(extra))
	for _, p := range extra {
		p = config.NormalizePath(p)
		want[p] = config.FileConfig{Path: p}
	}
	for _, f := range cfg.Files {
		f.Path = config.NormalizePath(f.Path)
		want[f.Path] = f
	}

	for _, path := range r.Paths() {
		if _, ok := want[path]; !ok && r.Disable(path) {
			removed = append(removed, path)
		}
	}

	for path, f := range want {
		if _, ok := r.sessions[path]; !ok {
			added = append(added, path)
		}
		s := r.Enable(path)
		if f.AutoPush != nil {
			r.SetAutoPush(path, *f.AutoPush)
		}
		s.WIPBranch = f.WIPBranch
	}

	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
