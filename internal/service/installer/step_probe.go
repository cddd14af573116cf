package installer

import (
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const probeTimeout = 5 * time.Second

type probeDoneMsg struct {
	addr string
}

// ProbeStep checks that the router answers on the management port of the
// selected protocol. A failed probe can be retried or skipped.
type ProbeStep struct {
	spinner spinner.Model
	dial    func(network, addr string, timeout time.Duration) (net.Conn, error)
	probing bool
	addr    string
	err     error
}

func NewProbeStep() Step {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selStyle

	return &ProbeStep{
		spinner: sp,
		dial:    net.DialTimeout,
	}
}

func (s *ProbeStep) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s *ProbeStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.probing && s.err == nil && s.addr == "" {
		s.probing = true
		s.addr = probeAddr(state.Answers)
		return s, tea.Batch(s.spinner.Tick, s.probe(s.addr))
	}

	switch msg := msg.(type) {
	case probeDoneMsg:
		return nil, nil

	case errMsg:
		s.probing = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		if s.err == nil {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			s.err = nil
			s.probing = true
			return s, tea.Batch(s.spinner.Tick, s.probe(s.addr))
		case "s":
			return nil, nil
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *ProbeStep) probe(addr string) tea.Cmd {
	return func() tea.Msg {
		conn, err := s.dial("tcp", addr, probeTimeout)
		if err != nil {
			return errMsg(err)
		}
		_ = conn.Close()
		return probeDoneMsg{addr: addr}
	}
}

func (s *ProbeStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Router is not reachable: %v", s.err)) +
			"\n\nCheck the address and that the protocol is enabled on the router.\n\n(press enter to retry, s to skip, ctrl+c to quit)\n"
	}
	return fmt.Sprintf("%s Connecting to %s...\n", s.spinner.View(), s.addr)
}

func probeAddr(a Answers) string {
	port := "443"
	if !a.UseRestconf {
		port = "830"
	}
	return net.JoinHostPort(a.RouterIP, port)
}
