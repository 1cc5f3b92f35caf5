package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/penwyp/gac/internal/errors"
)

// PasswordModel 读取一行掩码输入。
// enter 确认，esc / ctrl+c 取消。
type PasswordModel struct {
	label     string
	textInput textinput.Model
	styles    UIStyles
	done      bool
	cancelled bool
}

// NewPasswordModel 创建密码输入模型
func NewPasswordModel(label string) *PasswordModel {
	m := NewTextModel(label)
	m.textInput.EchoMode = textinput.EchoPassword
	m.textInput.EchoCharacter = '•'
	return m
}

// NewTextModel 创建回显输入的模型，用于用户名
func NewTextModel(label string) *PasswordModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 1024
	ti.Focus()
	return &PasswordModel{
		label:     label,
		textInput: ti,
		styles:    DefaultStyles(),
	}
}

// Init 实现 tea.Model 接口
func (m *PasswordModel) Init() tea.Cmd { return textinput.Blink }

// Update 处理按键事件
func (m *PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC, tea.KeyCtrlD:
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View 渲染，密码模式下只显示掩码
func (m *PasswordModel) View() string {
	if m.done {
		return ""
	}
	return m.styles.Label.Render(strings.TrimRight(m.label, " ")) + " " +
		m.textInput.View() + "\n" +
		m.styles.Hint.Render("enter to submit, esc to cancel") + "\n"
}

// Value 返回输入内容
func (m *PasswordModel) Value() string { return m.textInput.Value() }

// Cancelled 是否被用户取消
func (m *PasswordModel) Cancelled() bool { return m.cancelled }

// PasswordPrompter asks for secrets on a terminal.
type PasswordPrompter struct {
	in  io.Reader
	out io.Writer
	mu  sync.Mutex
}

// NewPasswordPrompter creates a prompter reading keys from in and drawing on out.
func NewPasswordPrompter(in io.Reader, out io.Writer) *PasswordPrompter {
	return &PasswordPrompter{in: in, out: out}
}

// PromptSecret shows label and blocks until the user submits or cancels.
func (p *PasswordPrompter) PromptSecret(label string) (string, error) {
	return p.run(NewPasswordModel(label))
}

// PromptText is PromptSecret with the typed text visible.
func (p *PasswordPrompter) PromptText(label string) (string, error) {
	return p.run(NewTextModel(label))
}

func (p *PasswordPrompter) run(model *PasswordModel) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	program := tea.NewProgram(model, tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrTypeCredential, "credential prompt failed", err)
	}

	result, ok := final.(*PasswordModel)
	if !ok {
		return "", errors.New(errors.ErrTypeCredential, fmt.Sprintf("unexpected prompt model %T", final))
	}
	if result.Cancelled() {
		return "", errors.ErrPromptCancelled
	}
	return result.Value(), nil
}

// NonInteractivePrompter refuses every prompt; git then fails on the empty answer.
type NonInteractivePrompter struct{}

// PromptSecret always returns ErrNotInteractive.
func (NonInteractivePrompter) PromptSecret(string) (string, error) {
	return "", errors.ErrNotInteractive
}

// PromptText always returns ErrNotInteractive.
func (NonInteractivePrompter) PromptText(string) (string, error) {
	return "", errors.ErrNotInteractive
}
