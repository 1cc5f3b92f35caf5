package git

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/penwyp/gac/internal/errors"
	"go.uber.org/zap"
)

// DefaultWIPPrefix marks work-in-progress branches.
const DefaultWIPPrefix = "wip/"

// SwitchResult describes what EnsureWIPBranch did.
type SwitchResult struct {
	From     string
	To       string
	Created  bool
	Switched bool
}

// Switcher keeps a repository on a work-in-progress branch.
type Switcher struct {
	runner    Runner
	inspector RepoInspector
	prefix    string
	logger    *zap.Logger
}

// NewSwitcher creates a Switcher. An empty prefix means DefaultWIPPrefix.
func NewSwitcher(runner Runner, inspector RepoInspector, prefix string, logger *zap.Logger) *Switcher {
	if prefix == "" {
		prefix = DefaultWIPPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Switcher{runner: runner, inspector: inspector, prefix: prefix, logger: logger}
}

// IsWIPBranch reports whether branch already follows the wip naming convention.
func IsWIPBranch(branch, prefix string) bool {
	if prefix == "" {
		prefix = DefaultWIPPrefix
	}
	return strings.HasPrefix(branch, prefix)
}

// EnsureWIPBranch moves the repository holding filePath onto <prefix><current>,
// creating the branch when it does not exist yet. It issues no checkout when
// the current branch is already a wip branch.
func (s *Switcher) EnsureWIPBranch(ctx context.Context, filePath string) (SwitchResult, error) {
	root, err := s.inspector.FindRoot(ctx, filePath)
	if err != nil {
		return SwitchResult{}, err
	}

	current, err := s.inspector.CurrentBranch(ctx, root)
	if err != nil {
		return SwitchResult{}, err
	}
	if current == "" {
		return SwitchResult{}, errors.ErrNoCurrentBranch
	}
	if IsWIPBranch(current, s.prefix) {
		return SwitchResult{From: current, To: current}, nil
	}

	target := s.prefix + current
	names, err := s.inspector.BranchNames(ctx, root)
	if err != nil {
		return SwitchResult{}, err
	}

	result := SwitchResult{From: current, To: target, Switched: true}
	args := []string{"checkout", target}
	if !slices.Contains(names, target) {
		args = []string{"checkout", "-b", target}
		result.Created = true
	}

	if _, err := s.runner.Run(ctx, root, "git", args...); err != nil {
		return SwitchResult{}, errors.Wrap(errors.ErrTypeBranch, fmt.Sprintf("failed to switch to %s", target), err)
	}

	s.logger.Info("Switched to wip branch",
		zap.String("from", current),
		zap.String("to", target),
		zap.Bool("created", result.Created))
	return result, nil
}
