package errors

import (
	"fmt"
	"strings"
)

// Exit codes for different error types
const (
	ExitCodeSuccess         = 0
	ExitCodeGenericError    = 1
	ExitCodeNotInRepository = 2
	ExitCodeConfigError     = 3
	ExitCodePushFailed      = 4
	ExitCodeGitError        = 8
)

// CommandError records a failed external command together with its output.
type CommandError struct {
	Command string
	Args    []string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Command, strings.Join(e.Args, " "))
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, output string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Args:    args,
		Output:  output,
		Err:     err,
	}
}

// ExitCode maps an error onto the process exit code used by the CLI.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if Is(err, ErrNotInRepository) {
		return ExitCodeNotInRepository
	}
	switch GetType(err) {
	case ErrTypeGit, ErrTypeBranch:
		return ExitCodeGitError
	case ErrTypeConfig:
		return ExitCodeConfigError
	case ErrTypePush, ErrTypeCredential:
		return ExitCodePushFailed
	}
	return ExitCodeGenericError
}
