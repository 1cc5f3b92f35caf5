package git

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/penwyp/gac/internal/errors"
	"go.uber.org/zap"
)

// ExecRunner 实际执行系统命令；仅在生产模式使用。
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger}
}

// Run executes command in dir and returns its combined output.
func (r *ExecRunner) Run(ctx context.Context, dir string, command string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	r.logger.Debug("Running command",
		zap.String("command", command),
		zap.Strings("args", args),
		zap.String("dir", dir))

	output, err := cmd.CombinedOutput()

	r.logger.Debug("Command output",
		zap.Int("output_length", len(output)),
		zap.Error(err),
		zap.String("output", func() string {
			if len(output) > 0 && len(output) < 1000 {
				return string(output)
			}
			return fmt.Sprintf("<%d bytes>", len(output))
		}()))

	if err != nil {
		return string(output), errors.NewCommandError(command, args, string(output), err)
	}
	return string(output), nil
}
