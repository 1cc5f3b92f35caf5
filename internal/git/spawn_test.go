package git

import (
	"io"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestPipeSpawner(t *testing.T) {
	requireGit(t)

	proc, err := PipeSpawner{}.Spawn(t.TempDir(), "git", "--version")
	require.NoError(t, err)

	out, err := io.ReadAll(proc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "git version")
	assert.NoError(t, proc.Wait())
}

func TestPipeSpawner_ExitCode(t *testing.T) {
	requireGit(t)

	proc, err := PipeSpawner{}.Spawn(t.TempDir(), "git", "definitely-not-a-command")
	require.NoError(t, err)

	out, _ := io.ReadAll(proc)
	assert.Contains(t, string(out), "not a git command")
	err = proc.Wait()
	require.Error(t, err)
	assert.Regexp(t, `^exited abnormally with code \d+$`, exitStatus(err))
}

func TestPTYSpawner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pseudo-terminals are not available on windows")
	}
	requireGit(t)

	proc, err := PTYSpawner{}.Spawn(t.TempDir(), "git", "--version")
	require.NoError(t, err)

	out, err := io.ReadAll(proc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "git version")
	assert.NoError(t, proc.Wait())
}

func TestNewSpawner(t *testing.T) {
	assert.IsType(t, PTYSpawner{}, NewSpawner(true))
	assert.IsType(t, PipeSpawner{}, NewSpawner(false))
}
