package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// StatusNotifier shows one-line status messages as a status bar and logs them.
type StatusNotifier struct {
	out    io.Writer
	width  int
	styles UIStyles
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

// NewStatusNotifier creates a notifier writing to out. width is the terminal
// width, 0 when unknown.
func NewStatusNotifier(out io.Writer, width int, logger *zap.Logger) *StatusNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusNotifier{
		out:    out,
		width:  CalculateContentWidth(width),
		styles: DefaultStyles(),
		logger: logger,
	}
}

// Notify renders message as the current status.
func (n *StatusNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.last = message
	n.logger.Info("status", zap.String("message", message))
	if n.out != nil {
		fmt.Fprintln(n.out, n.render(message))
	}
}

// Last returns the most recent message.
func (n *StatusNotifier) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func (n *StatusNotifier) render(message string) string {
	icon, style := n.classify(message)
	text := truncateContent(message, n.width-2)
	bar := lipgloss.NewStyle().MaxWidth(n.width)
	return bar.Render(RenderStatusLine(icon, text, style))
}

// classify 根据消息内容选择图标和颜色
func (n *StatusNotifier) classify(message string) (string, lipgloss.Style) {
	lower := strings.ToLower(message)
	switch {
	case strings.HasSuffix(lower, ": finished"):
		return "✓", n.styles.Success
	case strings.Contains(lower, "abnormally"),
		strings.Contains(lower, "failed"),
		strings.Contains(lower, "error"),
		strings.Contains(lower, "fatal"):
		return "✗", n.styles.Error
	case strings.HasPrefix(lower, "switched to"):
		return "→", n.styles.Info
	default:
		return "•", n.styles.Warning
	}
}
