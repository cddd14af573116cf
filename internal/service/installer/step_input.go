package installer

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one free-text answer.
type InputStep struct {
	prompt   string
	input    textinput.Model
	validate func(string) error
	assign   func(state *InstallState, value string)
	skip     func(state *InstallState) bool
	err      error
}

type inputOption func(*InputStep)

func withSecret() inputOption {
	return func(s *InputStep) {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
}

func withDefault(value string) inputOption {
	return func(s *InputStep) {
		s.input.SetValue(value)
	}
}

func withSkip(fn func(state *InstallState) bool) inputOption {
	return func(s *InputStep) {
		s.skip = fn
	}
}

func newInputStep(
	prompt, placeholder string,
	validate func(string) error,
	assign func(state *InstallState, value string),
	opts ...inputOption,
) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = placeholder

	s := &InputStep{
		prompt:   prompt,
		input:    ti,
		validate: validate,
		assign:   assign,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		value := strings.TrimSpace(s.input.Value())
		if s.validate != nil {
			if err := s.validate(value); err != nil {
				s.err = err
				return s, nil
			}
		}
		s.assign(state, value)
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.err = nil
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	b.WriteString(s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString("(press enter to confirm)\n")
	return b.String()
}

func NewStudentIDStep() Step {
	return newInputStep(
		"Enter your Student ID:", "66070046",
		validateStudentID,
		func(state *InstallState, v string) { state.Answers.StudentID = v },
	)
}

func NewRouterIPStep() Step {
	return newInputStep(
		"Enter the router management IP:", "10.0.15.61",
		validateHost,
		func(state *InstallState, v string) { state.Answers.RouterIP = v },
	)
}

func NewRouterUsernameStep() Step {
	return newInputStep(
		"Enter the router username:", "admin",
		notEmpty("username"),
		func(state *InstallState, v string) { state.Answers.RouterUsername = v },
		withDefault("admin"),
	)
}

func NewRouterPasswordStep() Step {
	return newInputStep(
		"Enter the router password:", "",
		notEmpty("password"),
		func(state *InstallState, v string) { state.Answers.RouterPassword = v },
		withSecret(),
	)
}

func NewTelegramTokenStep() Step {
	return newInputStep(
		"Enter your Telegram Bot Token:", "123456789:ABCDEF...",
		notEmpty("token"),
		func(state *InstallState, v string) { state.Answers.TelegramToken = v },
		withSecret(),
		withSkip(telegramDisabled),
	)
}

func NewTelegramChatStep() Step {
	return newInputStep(
		"Enter the Telegram chat ID commands are accepted from:", "-1001234567890",
		validateChatID,
		func(state *InstallState, v string) { state.Answers.TelegramChatID = v },
		withSkip(telegramDisabled),
	)
}

func telegramDisabled(state *InstallState) bool {
	return !state.Answers.EnableTelegram
}

func validateStudentID(v string) error {
	if v == "" {
		return errors.New("student ID is required")
	}
	if _, err := strconv.ParseUint(v, 10, 64); err != nil {
		return errors.New("student ID must contain digits only")
	}
	if len(v) < 3 {
		return errors.New("student ID must have at least 3 digits")
	}
	return nil
}

func validateHost(v string) error {
	if v == "" {
		return errors.New("router address is required")
	}
	if strings.ContainsAny(v, " /:") && net.ParseIP(v) == nil {
		return fmt.Errorf("%q is not a host name or IP address", v)
	}
	return nil
}

func validateChatID(v string) error {
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		return errors.New("chat ID must be an integer")
	}
	return nil
}

func notEmpty(what string) func(string) error {
	return func(v string) error {
		if v == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
