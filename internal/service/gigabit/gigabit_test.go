package gigabit

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/routerbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const briefOutput = `
Interface              IP-Address      OK? Method Status                Protocol
GigabitEthernet1       10.0.15.61      YES DHCP   up                    up
GigabitEthernet2       unassigned      YES unset  administratively down down
GigabitEthernet3       unassigned      YES unset  down                  down
GigabitEthernet4       unassigned      YES unset  up                    up
Loopback66070046       172.0.46.1      YES other  up                    up
`

func TestClassify(t *testing.T) {
	tests := map[string]core.LinkStatus{
		"up":                    core.StatusUp,
		"Up":                    core.StatusUp,
		"administratively down": core.StatusAdminDown,
		"admin down":            core.StatusAdminDown,
		"down":                  core.StatusDown,
		"":                      core.StatusDown,
		"deleted":               core.StatusDown,
		"up (looped)":           core.StatusDown,
	}
	for raw, want := range tests {
		assert.Equal(t, want, Classify(raw), raw)
	}
}

func TestSummarize(t *testing.T) {
	rows := []core.InterfaceRow{
		{Intf: "GigabitEthernet1", Status: "up"},
		{Intf: "GigabitEthernet2", Status: "administratively down"},
		{Intf: "GigabitEthernet3", Status: "down"},
	}

	assert.Equal(t,
		"GigabitEthernet1 up, GigabitEthernet2 administratively down, GigabitEthernet3 down, GigabitEthernet4 down -> 1 up, 2 down, 1 administratively down",
		Summarize(rows),
	)
}

func TestSummarize_IgnoresOtherInterfaces(t *testing.T) {
	rows := []core.InterfaceRow{
		{Intf: "Loopback0", Status: "up"},
		{Intf: "GigabitEthernet4", Status: "up"},
		{Intf: "GigabitEthernet1", Status: "UP"},
	}

	assert.Equal(t,
		"GigabitEthernet1 up, GigabitEthernet2 down, GigabitEthernet3 down, GigabitEthernet4 up -> 2 up, 2 down, 0 administratively down",
		Summarize(rows),
	)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t,
		"GigabitEthernet1 down, GigabitEthernet2 down, GigabitEthernet3 down, GigabitEthernet4 down -> 0 up, 4 down, 0 administratively down",
		Summarize(nil),
	)
}

func TestParseBrief(t *testing.T) {
	rows, err := ParseBrief(briefOutput)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, core.InterfaceRow{Intf: "GigabitEthernet1", IP: "10.0.15.61", Status: "up", Proto: "up"}, rows[0])
	assert.Equal(t, core.InterfaceRow{Intf: "GigabitEthernet2", IP: "unassigned", Status: "administratively down", Proto: "down"}, rows[1])
	assert.Equal(t, "Loopback66070046", rows[4].Intf)
}

func TestParseBrief_SkipsNoise(t *testing.T) {
	rows, err := ParseBrief("CSR1KV#show ip interface brief\n% Invalid input\n\nCSR1KV#")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseBrief_PromptAndUnnumbered(t *testing.T) {
	out := "CSR1KV#show ip interface brief\r\n" +
		"Interface              IP-Address      OK? Method Status                Protocol\r\n" +
		"GigabitEthernet3       unassigned      NO  unset  deleted               down\r\n" +
		"Tunnel0                unassigned      YES unset  up                    down\r\n" +
		"CSR1KV#"

	rows, err := ParseBrief(out)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, core.InterfaceRow{Intf: "GigabitEthernet3", IP: "unassigned", Status: "deleted", Proto: "down"}, rows[0])
	assert.Equal(t, core.InterfaceRow{Intf: "Tunnel0", IP: "unassigned", Status: "up", Proto: "down"}, rows[1])
}

type fakeRunner struct {
	out string
	err error
	cmd string
}

func (f *fakeRunner) Run(ctx context.Context, cmd string) (string, error) {
	f.cmd = cmd
	return f.out, f.err
}

func TestReporter_Report(t *testing.T) {
	runner := &fakeRunner{out: briefOutput}

	line, err := NewReporter(runner).Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "show ip interface brief", runner.cmd)
	assert.Equal(t,
		"GigabitEthernet1 up, GigabitEthernet2 administratively down, GigabitEthernet3 down, GigabitEthernet4 up -> 2 up, 1 down, 1 administratively down",
		line,
	)
}

func TestReporter_ReportError(t *testing.T) {
	_, err := NewReporter(&fakeRunner{err: errors.New("connection refused")}).Report(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
