package collector

import (
	"context"
)

// RepositoryLocator resolves the repository that encloses a file.
//
// Methods in this interface directly correspond to git commands:
// - FindRoot: `git rev-parse --show-toplevel` run in the file's directory
// - RelativePath: FindRoot plus prefix stripping
//
// Example usage:
//
//	locator := collector.New(runner)
//	root, err := locator.FindRoot(ctx, "/home/u/notes/todo.md")
//	if errors.Is(err, gacerrors.ErrNotInRepository) {
//		return nil // nothing to do
//	}
type RepositoryLocator interface {
	// FindRoot returns the absolute repository root for filePath.
	// Returns ErrNotInRepository if the file is not inside a working tree.
	FindRoot(ctx context.Context, filePath string) (string, error)

	// RelativePath returns filePath relative to its repository root,
	// slash separated and without a leading separator.
	RelativePath(ctx context.Context, filePath string) (string, error)
}

// BranchInspector reads branch information for a repository root.
//
// - ListRaw: `git branch`
// - CurrentBranch: the "* " marked line of ListRaw
// - BranchNames: every name in ListRaw, marker removed
type BranchInspector interface {
	// ListRaw returns ErrNotInRepository without running git when root is empty.
	ListRaw(ctx context.Context, root string) (string, error)

	// CurrentBranch returns "" when HEAD is detached.
	CurrentBranch(ctx context.Context, root string) (string, error)

	BranchNames(ctx context.Context, root string) ([]string, error)
}

var (
	_ RepositoryLocator = (*Collector)(nil)
	_ BranchInspector   = (*Collector)(nil)
)
