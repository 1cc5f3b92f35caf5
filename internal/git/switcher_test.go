package git

import (
	"context"
	"testing"

	"github.com/penwyp/gac/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnsureWIPBranch(t *testing.T) {
	tests := []struct {
		name         string
		current      string
		branches     []string
		expectedArgs []string
		expected     SwitchResult
	}{
		{
			name:         "creates missing wip branch",
			current:      "develop",
			branches:     []string{"main", "develop"},
			expectedArgs: []string{"checkout", "-b", "wip/develop"},
			expected:     SwitchResult{From: "develop", To: "wip/develop", Created: true, Switched: true},
		},
		{
			name:         "checks out existing wip branch",
			current:      "develop",
			branches:     []string{"main", "develop", "wip/develop"},
			expectedArgs: []string{"checkout", "wip/develop"},
			expected:     SwitchResult{From: "develop", To: "wip/develop", Switched: true},
		},
		{
			name:     "already on wip branch",
			current:  "wip/develop",
			expected: SwitchResult{From: "wip/develop", To: "wip/develop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			inspector := new(MockInspector)
			runner := new(MockRunner)

			inspector.On("FindRoot", mock.Anything, "/repo/notes.md").Return("/repo", nil)
			inspector.On("CurrentBranch", mock.Anything, "/repo").Return(tt.current, nil)
			if tt.expectedArgs != nil {
				inspector.On("BranchNames", mock.Anything, "/repo").Return(tt.branches, nil)
				runner.On("Run", mock.Anything, "/repo", "git", tt.expectedArgs).Return("", nil)
			}

			result, err := NewSwitcher(runner, inspector, "", nil).EnsureWIPBranch(ctx, "/repo/notes.md")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)

			inspector.AssertExpectations(t)
			runner.AssertExpectations(t)
			if tt.expectedArgs == nil {
				runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestEnsureWIPBranch_CustomPrefix(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/repo/a.txt").Return("/repo", nil)
	inspector.On("CurrentBranch", mock.Anything, "/repo").Return("main", nil)
	inspector.On("BranchNames", mock.Anything, "/repo").Return([]string{"main"}, nil)
	runner.On("Run", mock.Anything, "/repo", "git", []string{"checkout", "-b", "autosave/main"}).Return("", nil)

	result, err := NewSwitcher(runner, inspector, "autosave/", nil).EnsureWIPBranch(context.Background(), "/repo/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "autosave/main", result.To)
	runner.AssertExpectations(t)
}

func TestEnsureWIPBranch_NotInRepository(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/tmp/loose.txt").Return("", errors.ErrNotInRepository)

	_, err := NewSwitcher(runner, inspector, "", nil).EnsureWIPBranch(context.Background(), "/tmp/loose.txt")
	require.ErrorIs(t, err, errors.ErrNotInRepository)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureWIPBranch_DetachedHead(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/repo/a.txt").Return("/repo", nil)
	inspector.On("CurrentBranch", mock.Anything, "/repo").Return("", nil)

	_, err := NewSwitcher(runner, inspector, "", nil).EnsureWIPBranch(context.Background(), "/repo/a.txt")
	require.ErrorIs(t, err, errors.ErrNoCurrentBranch)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureWIPBranch_CheckoutFails(t *testing.T) {
	inspector := new(MockInspector)
	runner := new(MockRunner)
	inspector.On("FindRoot", mock.Anything, "/repo/a.txt").Return("/repo", nil)
	inspector.On("CurrentBranch", mock.Anything, "/repo").Return("main", nil)
	inspector.On("BranchNames", mock.Anything, "/repo").Return([]string{"main"}, nil)
	runner.On("Run", mock.Anything, "/repo", "git", []string{"checkout", "-b", "wip/main"}).
		Return("error: Your local changes would be overwritten", assert.AnError)

	_, err := NewSwitcher(runner, inspector, "", nil).EnsureWIPBranch(context.Background(), "/repo/a.txt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeBranch, errors.GetType(err))
	assert.Contains(t, err.Error(), "wip/main")
}

func TestIsWIPBranch(t *testing.T) {
	assert.True(t, IsWIPBranch("wip/main", ""))
	assert.True(t, IsWIPBranch("wip/feature/x", "wip/"))
	assert.False(t, IsWIPBranch("main", ""))
	assert.False(t, IsWIPBranch("wipe", ""))
}
