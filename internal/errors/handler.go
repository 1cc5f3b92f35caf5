package errors

import (
	"errors"
	"strings"

	"github.com/fatih/color"
)

// FormatError 格式化错误信息为用户友好的输出
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(color.RedString("Error: %s\n", err.Error()))

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Output != "" && !strings.Contains(err.Error(), strings.TrimSpace(cmdErr.Output)) {
		sb.WriteString(color.YellowString("Details: %s\n", strings.TrimSpace(cmdErr.Output)))
	}

	if suggestion := GetSuggestion(err); suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// IsNothingToCommit reports whether git refused a commit because the index
// matched HEAD.
func IsNothingToCommit(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(cmdErr.Output, "nothing to commit") ||
		strings.Contains(cmdErr.Output, "nothing added to commit") ||
		strings.Contains(cmdErr.Output, "no changes added to commit")
}
