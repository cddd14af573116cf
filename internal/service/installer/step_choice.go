package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ChoiceStep picks one option from a fixed list.
type ChoiceStep struct {
	prompt  string
	choices []string
	cursor  int
	assign  func(state *InstallState, choice int)
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.assign(state, s.cursor)
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, choice := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

func NewDriverStep() Step {
	return &ChoiceStep{
		prompt:  "Select the device protocol:",
		choices: []string{"RESTCONF (HTTPS, port 443)", "NETCONF (SSH, port 830)"},
		assign: func(state *InstallState, choice int) {
			state.Answers.UseRestconf = choice == 0
		},
	}
}

func NewTLSStep() Step {
	return &ChoiceStep{
		prompt:  "Verify the router identity (TLS certificate or SSH host key)?",
		choices: []string{"Verify", "Skip verification (lab routers only)"},
		assign: func(state *InstallState, choice int) {
			state.Answers.InsecureSkipVerify = choice == 1
		},
	}
}

func NewChannelStep() Step {
	return &ChoiceStep{
		prompt:  "Select your Chat Channel:",
		choices: []string{"Telegram", "None (use 'routerbot exec')"},
		assign: func(state *InstallState, choice int) {
			state.Answers.EnableTelegram = choice == 0
		},
	}
}
