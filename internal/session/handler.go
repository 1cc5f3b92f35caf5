package session

import (
	"context"

	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/internal/git"
	"go.uber.org/zap"
)

// BranchSwitcher moves a file's repository onto its WIP branch.
type BranchSwitcher interface {
	EnsureWIPBranch(ctx context.Context, filePath string) (git.SwitchResult, error)
}

// CommitExecutor commits a single file.
type CommitExecutor interface {
	Commit(ctx context.Context, filePath string) (git.CommitResult, error)
}

// PushStarter starts a background push.
type PushStarter interface {
	Start(ctx context.Context, filePath string) (*git.PushJob, error)
}

// Handler runs the save pipeline for one file.
type Handler struct {
	switcher  BranchSwitcher
	committer CommitExecutor
	pusher    PushStarter
	notifier  git.Notifier
	logger    *zap.Logger
}

// NewHandler creates a Handler. switcher and pusher may be nil when the
// corresponding steps are never requested.
func NewHandler(switcher BranchSwitcher, committer CommitExecutor, pusher PushStarter, notifier git.Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		switcher:  switcher,
		committer: committer,
		pusher:    pusher,
		notifier:  notifier,
		logger:    logger,
	}
}

// OnSave commits the saved file and, if the session asks for it, pushes in
// the background. Commit errors are returned; push errors only reach the
// notifier.
func (h *Handler) OnSave(ctx context.Context, s *FileSession) (*git.PushJob, error) {
	if s == nil {
		return nil, errors.ErrSessionNotFound
	}

	if s.WIPBranch && h.switcher != nil {
		res, err := h.switcher.EnsureWIPBranch(ctx, s.Path)
		if err != nil {
			return nil, err
		}
		if res.Switched {
			h.notify("switched to " + res.To)
		}
	}

	res, err := h.committer.Commit(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("Save committed", zap.String("file", s.Path), zap.String("message", res.Message))

	if !s.AutoPush || h.pusher == nil {
		return nil, nil
	}

	job, err := h.pusher.Start(ctx, s.Path)
	if err != nil {
		h.logger.Warn("Push not started", zap.String("file", s.Path), zap.Error(err))
		h.notify("git push: " + err.Error())
		return nil, nil
	}
	return job, nil
}

// HandleSave runs OnSave for a registered path and reports failures through
// the notifier. Files outside a repository are ignored.
func (h *Handler) HandleSave(ctx context.Context, reg *Registry, path string) {
	s, ok := reg.Get(path)
	if !ok {
		h.logger.Debug("Save event for disabled file", zap.String("file", path))
		return
	}

	if _, err := h.OnSave(ctx, s); err != nil {
		switch {
		case errors.Is(err, errors.ErrNotInRepository):
			h.logger.Debug("Saved file is not in a repository", zap.String("file", path))
		case errors.IsNothingToCommit(err):
			h.logger.Debug("Nothing to commit", zap.String("file", path))
		default:
			h.logger.Warn("Save handling failed", zap.String("file", path), zap.Error(err))
			h.notify(err.Error())
		}
	}
}

func (h *Handler) notify(msg string) {
	if h.notifier != nil {
		h.notifier.Notify(msg)
	}
}
