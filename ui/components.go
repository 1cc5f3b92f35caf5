package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UIColors 定义统一的颜色主题
type UIColors struct {
	Gray   lipgloss.Color
	Blue   lipgloss.Color
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Red    lipgloss.Color
	White  lipgloss.Color
}

// DefaultColors 返回默认的颜色主题
func DefaultColors() UIColors {
	return UIColors{
		Gray:   lipgloss.Color("245"),
		Blue:   lipgloss.Color("39"),
		Green:  lipgloss.Color("42"),
		Yellow: lipgloss.Color("220"),
		Red:    lipgloss.Color("196"),
		White:  lipgloss.Color("255"),
	}
}

// UIStyles 定义统一的样式
type UIStyles struct {
	Colors  UIColors
	Label   lipgloss.Style
	Hint    lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles 返回默认的样式集
func DefaultStyles() UIStyles {
	colors := DefaultColors()
	return UIStyles{
		Colors:  colors,
		Label:   lipgloss.NewStyle().Foreground(colors.White).Bold(true),
		Hint:    lipgloss.NewStyle().Foreground(colors.Gray),
		Info:    lipgloss.NewStyle().Foreground(colors.Blue),
		Success: lipgloss.NewStyle().Foreground(colors.Green),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow),
		Error:   lipgloss.NewStyle().Foreground(colors.Red),
	}
}

// truncateContent 按显示宽度截断，支持 CJK 字符
func truncateContent(content string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(content) <= maxWidth {
		return content
	}

	var result strings.Builder
	for _, r := range content {
		if lipgloss.Width(result.String()+string(r)) > maxWidth-1 {
			break
		}
		result.WriteRune(r)
	}
	return result.String() + "…"
}

// RenderStatusLine 渲染状态行
func RenderStatusLine(icon, text string, style lipgloss.Style) string {
	return icon + " " + style.Render(text)
}

// CalculateContentWidth 计算响应式内容宽度
func CalculateContentWidth(terminalWidth int) int {
	const (
		minWidth = 40
		maxWidth = 120
		margin   = 4
	)

	availableWidth := terminalWidth - margin
	if availableWidth < minWidth {
		return minWidth
	}
	if availableWidth > maxWidth {
		return maxWidth
	}
	return availableWidth
}
