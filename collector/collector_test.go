package collector

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/internal/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---------------- Mock 实现 ----------------

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, dir string, command string, args ...string) (string, error) {
	a := m.Called(ctx, dir, command, args)
	return a.String(0), a.Error(1)
}

var showToplevel = []string{"rev-parse", "--show-toplevel"}

// ------------------------------------------------

func TestFindRoot(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		runErr    error
		expected  string
		notInRepo bool
	}{
		{
			name:     "trailing newline trimmed",
			output:   "/repo\n",
			expected: "/repo",
		},
		{
			name:      "fatal output with failing command",
			output:    "fatal: not a git repository (or any of the parent directories): .git\n",
			runErr:    assert.AnError,
			notInRepo: true,
		},
		{
			name:      "error marker without exit error",
			output:    "fatal: detected dubious ownership in repository at '/repo'\n",
			notInRepo: true,
		},
		{
			name:      "empty output",
			output:    "",
			notInRepo: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(mockRunner)
			r.On("Run", mock.Anything, "/repo/src", "git", showToplevel).Return(tt.output, tt.runErr)

			root, err := New(r).FindRoot(context.Background(), "/repo/src/a.txt")
			if tt.notInRepo {
				require.ErrorIs(t, err, errors.ErrNotInRepository)
				assert.Empty(t, root)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, root)
			}
			r.AssertExpectations(t)
		})
	}
}

func TestRelativePath(t *testing.T) {
	r := new(mockRunner)
	r.On("Run", mock.Anything, "/repo/src", "git", showToplevel).Return("/repo\n", nil)

	rel, err := New(r).RelativePath(context.Background(), "/repo/src/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "src/a.txt", rel)
}

func TestRelativePath_NotInRepository(t *testing.T) {
	r := new(mockRunner)
	r.On("Run", mock.Anything, "/elsewhere", "git", showToplevel).
		Return("fatal: not a git repository\n", assert.AnError)

	rel, err := New(r).RelativePath(context.Background(), "/elsewhere/a.txt")
	require.ErrorIs(t, err, errors.ErrNotInRepository)
	assert.Empty(t, rel)
}

func TestListRaw_EmptyRootSkipsGit(t *testing.T) {
	r := new(mockRunner)
	c := New(r)

	raw, err := c.ListRaw(context.Background(), "")
	require.ErrorIs(t, err, errors.ErrNotInRepository)
	assert.Empty(t, raw)

	branch, err := c.CurrentBranch(context.Background(), "")
	require.ErrorIs(t, err, errors.ErrNotInRepository)
	assert.Empty(t, branch)

	names, err := c.BranchNames(context.Background(), "")
	require.ErrorIs(t, err, errors.ErrNotInRepository)
	assert.Nil(t, names)

	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCurrentBranchAndNames(t *testing.T) {
	r := new(mockRunner)
	r.On("Run", mock.Anything, "/repo", "git", []string{"branch", "--no-color"}).
		Return("  main\n* develop\n  feature/x\n", nil)
	c := New(r)

	branch, err := c.CurrentBranch(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "develop", branch)

	names, err := c.BranchNames(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "develop", "feature/x"}, names)
}

func TestListRaw_GitFailure(t *testing.T) {
	r := new(mockRunner)
	r.On("Run", mock.Anything, "/repo", "git", []string{"branch", "--no-color"}).Return("", assert.AnError)

	_, err := New(r).ListRaw(context.Background(), "/repo")
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeGit, errors.GetType(err))
}

func TestParseCurrentBranch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"marker in the middle", "  main\n* develop\n  feature/x\n", "develop"},
		{"marker first", "* main\n  develop\n", "main"},
		{"no marker", "  main\n  develop\n", ""},
		{"empty", "", ""},
		{"detached head", "* (HEAD detached at 1a2b3c4)\n  main\n", ""},
		{"marker needs whitespace", "*main\n", ""},
		{"tab after marker", "*\twip/main\n", "wip/main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCurrentBranch(tt.raw))
		})
	}
}

func TestParseBranchNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"marker removed", "* main\n  develop\n  feature/x\n", []string{"main", "develop", "feature/x"}},
		{"order preserved", "  zeta\n* alpha\n", []string{"zeta", "alpha"}},
		{"worktree marker", "* main\n+ other\n", []string{"main", "other"}},
		{"detached head skipped", "* (HEAD detached at 1a2b3c4)\n  main\n", []string{"main"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBranchNames(tt.raw))
		})
	}
}

func TestChomp(t *testing.T) {
	assert.Equal(t, "feature/x", Chomp("  feature/x  \n"))
	assert.Equal(t, "", Chomp("\n\t "))
}

// ---------------- 真实仓库 ----------------

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v, %s", args, err, out)
		}
	}
	run("init")
	run("symbolic-ref", "HEAD", "refs/heads/main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "tester")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("init"), 0644))
	run("add", "README.md")
	run("commit", "-m", "chore: init")
	return dir
}

func TestCollector_RealRepository(t *testing.T) {
	repo := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "src"), 0755))
	file := filepath.Join(repo, "src", "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))

	c := New(git.NewExecRunner(nil))
	ctx := context.Background()

	root, err := c.FindRoot(ctx, file)
	require.NoError(t, err)
	expectedRoot, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	assert.Equal(t, expectedRoot, root)

	rel, err := c.RelativePath(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, "src/a.txt", rel)

	branch, err := c.CurrentBranch(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	names, err := c.BranchNames(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, names)
}

func TestCollector_OutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	file := filepath.Join(dir, "loose.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := New(git.NewExecRunner(nil)).FindRoot(context.Background(), file)
	require.ErrorIs(t, err, errors.ErrNotInRepository)
}
