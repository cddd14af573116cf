package command

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStudentID = "66070046"

func newTestRouter(d *memDriver, rep stubReporter, dump stubDumper) *Router {
	return NewRouter(testStudentID, d, rep, dump)
}

func TestRouter_CreateTwice(t *testing.T) {
	ctx := context.Background()
	d := newMemDriver()
	r := newTestRouter(d, stubReporter{}, stubDumper{})

	n := &recordingNotifier{}
	assert.True(t, r.Handle(ctx, n, "/66070046 create"))
	assert.Equal(t, []string{"Interface Loopback66070046 is created successfully"}, n.texts)
	assert.Equal(t, "172.0.46.1/24", d.interfaces["Loopback66070046"].cidr)

	n = &recordingNotifier{}
	assert.True(t, r.Handle(ctx, n, "/66070046 create"))
	assert.Equal(t, []string{"Cannot create: Interface Loopback66070046"}, n.texts)
}

func TestRouter_LoopbackLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newMemDriver()
	r := newTestRouter(d, stubReporter{}, stubDumper{})

	steps := []struct {
		input string
		want  string
	}{
		{"/66070046 status", "No Interface Loopback66070046"},
		{"/66070046 enable", "Cannot enable: Interface Loopback66070046"},
		{"/66070046 disable", "Cannot shutdown: Interface Loopback66070046"},
		{"/66070046 delete", "Cannot delete: Interface Loopback66070046"},
		{"/66070046 create", "Interface Loopback66070046 is created successfully"},
		{"/66070046 status", "Interface Loopback66070046 is enabled"},
		{"/66070046 disable", "Interface Loopback66070046 is shutdowned successfully"},
		{"/66070046 status", "Interface Loopback66070046 is disabled"},
		{"/66070046 ENABLE", "Interface Loopback66070046 is enabled successfully"},
		{"/66070046 delete", "Interface Loopback66070046 is deleted successfully"},
		{"/66070046 status", "No Interface Loopback66070046"},
	}

	for _, step := range steps {
		n := &recordingNotifier{}
		assert.True(t, r.Handle(ctx, n, step.input), step.input)
		assert.Equal(t, []string{step.want}, n.texts, step.input)
	}
}

func TestRouter_DriverFailures(t *testing.T) {
	ctx := context.Background()

	d := newMemDriver()
	d.fail = true
	r := newTestRouter(d, stubReporter{}, stubDumper{})

	n := &recordingNotifier{}
	r.Handle(ctx, n, "/66070046 create")
	assert.Equal(t, []string{"Cannot create: Interface Loopback66070046"}, n.texts)

	d.interfaces["Loopback66070046"] = &memInterface{enabled: true}
	for input, want := range map[string]string{
		"/66070046 delete":  "Cannot delete: Interface Loopback66070046",
		"/66070046 enable":  "Cannot enable: Interface Loopback66070046",
		"/66070046 disable": "Cannot shutdown: Interface Loopback66070046",
	} {
		n := &recordingNotifier{}
		r.Handle(ctx, n, input)
		assert.Equal(t, []string{want}, n.texts, input)
	}
}

func TestRouter_CreateSkipsDriverWhenPresent(t *testing.T) {
	d := newMemDriver()
	d.interfaces["Loopback66070046"] = &memInterface{enabled: true}
	r := newTestRouter(d, stubReporter{}, stubDumper{})

	r.Handle(context.Background(), &recordingNotifier{}, "/66070046 create")
	assert.Equal(t, []string{"exists"}, d.calls)
}

func TestRouter_StatusMixed(t *testing.T) {
	d := newMemDriver()
	d.interfaces["Loopback66070046"] = &memInterface{enabled: true}
	d.oper = "down"
	r := newTestRouter(d, stubReporter{}, stubDumper{})

	n := &recordingNotifier{}
	r.Handle(context.Background(), n, "/66070046 status")
	assert.Equal(t, []string{"Interface Loopback66070046: admin=up, oper=down"}, n.texts)
}

func TestRouter_Parsing(t *testing.T) {
	ctx := context.Background()
	r := newTestRouter(newMemDriver(), stubReporter{}, stubDumper{})

	tests := []struct {
		name    string
		input   string
		handled bool
		want    []string
	}{
		{"plain chat", "hello there", false, nil},
		{"empty", "   ", false, nil},
		{"slash only", "/", true, []string{badFormatMessage}},
		{"missing command", "/66070046", true, []string{badFormatMessage}},
		{"too many fields", "/66070046 create now", true, []string{badFormatMessage}},
		{"other student", "/66070099 create", false, nil},
		{"unknown command", "/66070046 reboot", true, []string{"Unknown command: reboot"}},
		{"unknown command lowercased", "/66070046 REBOOT", true, []string{"Unknown command: reboot"}},
		{"surrounding space", "  /66070046 status \n", true, []string{"No Interface Loopback66070046"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recordingNotifier{}
			assert.Equal(t, tt.handled, r.Handle(ctx, n, tt.input))
			assert.Equal(t, tt.want, n.texts)
		})
	}
}

func TestRouter_GigabitStatus(t *testing.T) {
	ctx := context.Background()
	summary := "GigabitEthernet1 up, GigabitEthernet2 up, GigabitEthernet3 down, GigabitEthernet4 administratively down -> 2 up, 1 down, 1 administratively down"

	n := &recordingNotifier{}
	newTestRouter(newMemDriver(), stubReporter{summary: summary}, stubDumper{}).
		Handle(ctx, n, "/66070046 gigabit_status")
	assert.Equal(t, []string{summary}, n.texts)

	n = &recordingNotifier{}
	newTestRouter(newMemDriver(), stubReporter{err: assert.AnError}, stubDumper{}).
		Handle(ctx, n, "/66070046 gigabit_status")
	assert.Equal(t, []string{"Error: gigabit_status"}, n.texts)
}

func TestRouter_ShowRun(t *testing.T) {
	ctx := context.Background()

	artifact := filepath.Join(t.TempDir(), "show_run_66070046_CSR1KV.txt")
	require.NoError(t, os.WriteFile(artifact, []byte("hostname CSR1KV\n"), 0o644))

	t.Run("uploads artifact", func(t *testing.T) {
		n := &recordingNotifier{}
		newTestRouter(newMemDriver(), stubReporter{}, stubDumper{path: artifact, ok: true}).
			Handle(ctx, n, "/66070046 showrun")
		assert.Empty(t, n.texts)
		assert.Equal(t, []sentFile{{path: artifact, caption: "show running-config"}}, n.files)
	})

	t.Run("upload failure", func(t *testing.T) {
		n := &recordingNotifier{fileErr: errUpload}
		newTestRouter(newMemDriver(), stubReporter{}, stubDumper{path: artifact, ok: true}).
			Handle(ctx, n, "/66070046 showrun")
		assert.Equal(t, []string{"Error: Ansible (upload)"}, n.texts)
	})

	t.Run("playbook failure", func(t *testing.T) {
		n := &recordingNotifier{}
		newTestRouter(newMemDriver(), stubReporter{}, stubDumper{}).
			Handle(ctx, n, "/66070046 showrun")
		assert.Equal(t, []string{"Error: Ansible"}, n.texts)
	})

	t.Run("artifact vanished", func(t *testing.T) {
		n := &recordingNotifier{}
		missing := filepath.Join(t.TempDir(), "gone.txt")
		newTestRouter(newMemDriver(), stubReporter{}, stubDumper{path: missing, ok: true}).
			Handle(ctx, n, "/66070046 showrun")
		assert.Equal(t, []string{"Error: Ansible"}, n.texts)
	})
}

func TestRouter_Help(t *testing.T) {
	r := newTestRouter(newMemDriver(), stubReporter{}, stubDumper{})

	n := &recordingNotifier{}
	r.Handle(context.Background(), n, "/66070046 help")
	require.Len(t, n.texts, 1)
	assert.Equal(t, 1, n.markdown)
	for _, name := range []string{"create", "delete", "enable", "disable", "status", "gigabit_status", "showrun", "help"} {
		assert.Contains(t, n.texts[0], "**"+name+"**")
	}
	assert.Contains(t, n.texts[0], "/66070046 <command>")
}

func TestRouter_ExactlyOneNotification(t *testing.T) {
	ctx := context.Background()
	artifact := filepath.Join(t.TempDir(), "run.txt")
	require.NoError(t, os.WriteFile(artifact, nil, 0o644))

	for _, fail := range []bool{false, true} {
		d := newMemDriver()
		d.fail = fail
		r := newTestRouter(d, stubReporter{summary: "ok"}, stubDumper{path: artifact, ok: true})

		for _, cmd := range []string{"create", "status", "disable", "enable", "delete", "gigabit_status", "showrun", "help", "bogus"} {
			n := &recordingNotifier{}
			require.True(t, r.Handle(ctx, n, "/66070046 "+cmd))
			assert.Equal(t, 1, n.count(), "command %s (fail=%v)", cmd, fail)
		}
	}
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	r := newTestRouter(newMemDriver(), stubReporter{}, stubDumper{})

	var names []string
	for _, cmd := range r.ListCommands() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"create", "delete", "disable", "enable", "gigabit_status", "help", "showrun", "status"}, names)
}

func TestRouter_ConcurrentCreateRunsOnce(t *testing.T) {
	d := newMemDriver()
	d.delay = 50 * time.Millisecond
	r := newTestRouter(d, stubReporter{}, stubDumper{})
	n := &recordingNotifier{}

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Handle(context.Background(), n, "/66070046 create")
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{
		"Interface Loopback66070046 is created successfully",
		"Cannot create: Interface Loopback66070046",
	}, n.texts)
	assert.Equal(t, []string{"exists", "create", "exists"}, d.calls)
}
