package git

import (
	"context"
	"testing"

	"github.com/penwyp/gac/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommit(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/repo/src/a.txt").Return("/repo", nil)
	inspector.On("RelativePath", mock.Anything, "/repo/src/a.txt").Return("src/a.txt", nil)
	runner.On("Run", mock.Anything, "/repo", "git", []string{"add", "--", "/repo/src/a.txt"}).Return("", nil).Once()
	runner.On("Run", mock.Anything, "/repo", "git", []string{"commit", "-m", "src/a.txt"}).
		Return("[main 1a2b3c4] src/a.txt\n 1 file changed\n", nil).Once()

	result, err := NewCommitter(runner, inspector, nil).Commit(context.Background(), "/repo/src/a.txt")
	require.NoError(t, err)
	assert.Equal(t, CommitResult{Root: "/repo", File: "/repo/src/a.txt", Message: "src/a.txt"}, result)

	runner.AssertExpectations(t)
	inspector.AssertExpectations(t)
}

func TestCommit_NotInRepository(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/tmp/a.txt").Return("", errors.ErrNotInRepository)

	_, err := NewCommitter(runner, inspector, nil).Commit(context.Background(), "/tmp/a.txt")
	require.ErrorIs(t, err, errors.ErrNotInRepository)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCommit_NothingToCommit(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/repo/a.txt").Return("/repo", nil)
	inspector.On("RelativePath", mock.Anything, "/repo/a.txt").Return("a.txt", nil)
	runner.On("Run", mock.Anything, "/repo", "git", []string{"add", "--", "/repo/a.txt"}).Return("", nil)
	output := "On branch main\nnothing to commit, working tree clean\n"
	runner.On("Run", mock.Anything, "/repo", "git", []string{"commit", "-m", "a.txt"}).
		Return(output, errors.NewCommandError("git", []string{"commit", "-m", "a.txt"}, output, assert.AnError))

	_, err := NewCommitter(runner, inspector, nil).Commit(context.Background(), "/repo/a.txt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeGit, errors.GetType(err))
	assert.True(t, errors.IsNothingToCommit(err))
}

func TestCommit_AddFails(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/repo/a.txt").Return("/repo", nil)
	inspector.On("RelativePath", mock.Anything, "/repo/a.txt").Return("a.txt", nil)
	runner.On("Run", mock.Anything, "/repo", "git", []string{"add", "--", "/repo/a.txt"}).
		Return("fatal: pathspec did not match any files", assert.AnError)

	_, err := NewCommitter(runner, inspector, nil).Commit(context.Background(), "/repo/a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git add failed")
	runner.AssertNumberOfCalls(t, "Run", 1)
}
