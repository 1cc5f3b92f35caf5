package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelper provides utilities for E2E tests
type TestHelper struct {
	t          *testing.T
	binPath    string
	configPath string
}

// NewTestHelper builds the binary and points it at a private config file
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{
		t:          t,
		binPath:    buildBinary(t),
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
	}
}

// buildBinary 构建 gac 可执行文件并返回路径。
func buildBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "gac-bin")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", binPath, "github.com/penwyp/gac")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v, output: %s", err, string(out))
	}
	return binPath
}

// RepoConfig holds configuration for creating a test repository
type RepoConfig struct {
	UserEmail     string
	UserName      string
	InitialCommit bool
	// BareRemote adds an "origin" remote backed by a local bare repository
	BareRemote bool
}

// DefaultRepoConfig returns a default repo configuration
func DefaultRepoConfig() RepoConfig {
	return RepoConfig{
		UserEmail:     "test@example.com",
		UserName:      "Test User",
		InitialCommit: true,
	}
}

// CreateGitRepo creates a new git repository on branch main and returns its
// resolved path
func (h *TestHelper) CreateGitRepo(config RepoConfig) string {
	dir, err := filepath.EvalSymlinks(h.t.TempDir())
	require.NoError(h.t, err)

	h.runGit(dir, "init")
	h.runGit(dir, "symbolic-ref", "HEAD", "refs/heads/main")
	h.runGit(dir, "config", "user.email", config.UserEmail)
	h.runGit(dir, "config", "user.name", config.UserName)
	h.runGit(dir, "config", "commit.gpgsign", "false")

	if config.InitialCommit {
		h.AddFile(dir, "README.md", "# Test Repository\n")
		h.runGit(dir, "add", "README.md")
		h.runGit(dir, "commit", "-m", "chore: initial commit")
	}

	if config.BareRemote {
		remote := filepath.Join(h.t.TempDir(), "origin.git")
		h.runGit(h.t.TempDir(), "init", "--bare", remote)
		h.runGit(dir, "remote", "add", "origin", remote)
	}

	return dir
}

// runGit executes a git command in the specified directory
func (h *TestHelper) runGit(dir string, args ...string) string {
	h.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = gitEnv()
	out, err := cmd.CombinedOutput()
	if err != nil {
		h.t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// gitEnv 隔离用户的全局 git 配置
func gitEnv() []string {
	return append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"GIT_TERMINAL_PROMPT=0",
	)
}

// Command prepares a gac invocation using the helper's config file
func (h *TestHelper) Command(dir string, args ...string) *exec.Cmd {
	full := append([]string{"--config", h.configPath}, args...)
	cmd := exec.Command(h.binPath, full...)
	cmd.Dir = dir
	cmd.Env = append(gitEnv(), "COLUMNS=200")
	return cmd
}

// RunGac executes gac with the given arguments
func (h *TestHelper) RunGac(dir string, args ...string) (string, error) {
	out, err := h.Command(dir, args...).CombinedOutput()
	return string(out), err
}

// WriteConfig replaces the config file
func (h *TestHelper) WriteConfig(content string) {
	require.NoError(h.t, os.WriteFile(h.configPath, []byte(content), 0644))
}

// ReadConfig returns the config file content
func (h *TestHelper) ReadConfig() string {
	data, err := os.ReadFile(h.configPath)
	require.NoError(h.t, err)
	return string(data)
}

// AddFile creates or overwrites a file in the repository
func (h *TestHelper) AddFile(repoDir, filename, content string) string {
	filePath := filepath.Join(repoDir, filename)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(filePath), 0755))
	require.NoError(h.t, os.WriteFile(filePath, []byte(content), 0644))
	return filePath
}

// GetLastCommitMessage returns the last commit message
func (h *TestHelper) GetLastCommitMessage(repoDir string) string {
	return h.runGit(repoDir, "log", "-1", "--pretty=%s")
}

// GetCommitCount returns the number of commits in the repository
func (h *TestHelper) GetCommitCount(repoDir string) int {
	cmd := exec.Command("git", "rev-list", "--count", "HEAD")
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	count := 0
	fmt.Sscanf(string(out), "%d", &count)
	return count
}

// CurrentBranch returns the checked out branch
func (h *TestHelper) CurrentBranch(repoDir string) string {
	return h.runGit(repoDir, "rev-parse", "--abbrev-ref", "HEAD")
}

// AssertExitCode checks the exit code of an exec.ExitError
func (h *TestHelper) AssertExitCode(err error, expectedCode int) {
	exitErr, ok := err.(*exec.ExitError)
	require.True(h.t, ok, "expected exec.ExitError, got %T", err)
	require.Equal(h.t, expectedCode, exitErr.ExitCode())
}
