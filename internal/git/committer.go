package git

import (
	"context"
	"path/filepath"

	"github.com/penwyp/gac/internal/errors"
	"go.uber.org/zap"
)

// CommitResult describes a commit made for one saved file.
type CommitResult struct {
	Root    string
	File    string
	Message string
}

// Committer stages and commits a single file, using its repository-relative
// path as the commit message.
type Committer struct {
	runner    Runner
	inspector RepoInspector
	logger    *zap.Logger
}

// NewCommitter creates a Committer.
func NewCommitter(runner Runner, inspector RepoInspector, logger *zap.Logger) *Committer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Committer{runner: runner, inspector: inspector, logger: logger}
}

// Commit runs `git add -- <file>` and `git commit -m <relative path>` from the
// repository root. Git failures, including "nothing to commit", are returned.
func (c *Committer) Commit(ctx context.Context, filePath string) (CommitResult, error) {
	root, err := c.inspector.FindRoot(ctx, filePath)
	if err != nil {
		return CommitResult{}, err
	}
	message, err := c.inspector.RelativePath(ctx, filePath)
	if err != nil {
		return CommitResult{}, err
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return CommitResult{}, errors.Wrap(errors.ErrTypeValidation, "invalid file path", err)
	}

	if _, err := c.runner.Run(ctx, root, "git", "add", "--", abs); err != nil {
		return CommitResult{}, errors.Wrap(errors.ErrTypeGit, "git add failed", err)
	}
	if _, err := c.runner.Run(ctx, root, "git", "commit", "-m", message); err != nil {
		return CommitResult{}, errors.Wrap(errors.ErrTypeGit, "git commit failed", err)
	}

	c.logger.Info("Committed", zap.String("repo", root), zap.String("message", message))
	return CommitResult{Root: root, File: abs, Message: message}, nil
}
