package command

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sandevgo/routerbot/internal/core"
)

type sentFile struct {
	path    string
	caption string
}

type recordingNotifier struct {
	mu       sync.Mutex
	texts    []string
	markdown int
	files    []sentFile
	fileErr  error
}

func (n *recordingNotifier) SendText(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func (n *recordingNotifier) SendMarkdown(ctx context.Context, md string) error {
	n.mu.Lock()
	n.markdown++
	n.mu.Unlock()
	return n.SendText(ctx, md)
}

func (n *recordingNotifier) SendFile(_ context.Context, path, caption string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fileErr != nil {
		return n.fileErr
	}
	n.files = append(n.files, sentFile{path: path, caption: caption})
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.texts) + len(n.files)
}

// memDriver keeps interfaces in memory the way a router would.
type memDriver struct {
	interfaces map[string]*memInterface
	fail       bool
	delay      time.Duration
	oper       core.LinkStatus
	calls      []string
}

type memInterface struct {
	cidr    string
	enabled bool
}

func newMemDriver() *memDriver {
	return &memDriver{interfaces: make(map[string]*memInterface)}
}

func (d *memDriver) InterfaceExists(_ context.Context, name string) bool {
	time.Sleep(d.delay)
	d.calls = append(d.calls, "exists")
	_, ok := d.interfaces[name]
	return ok
}

func (d *memDriver) CreateLoopback(_ context.Context, name, ipCIDR string) bool {
	d.calls = append(d.calls, "create")
	if d.fail {
		return false
	}
	d.interfaces[name] = &memInterface{cidr: ipCIDR, enabled: true}
	return true
}

func (d *memDriver) DeleteLoopback(_ context.Context, name string) bool {
	d.calls = append(d.calls, "delete")
	if d.fail {
		return false
	}
	delete(d.interfaces, name)
	return true
}

func (d *memDriver) SetEnabled(_ context.Context, name string, enabled bool) bool {
	d.calls = append(d.calls, "set_enabled")
	if d.fail {
		return false
	}
	d.interfaces[name].enabled = enabled
	return true
}

func (d *memDriver) AdminOperStatus(_ context.Context, name string) core.InterfaceState {
	d.calls = append(d.calls, "status")
	intf, ok := d.interfaces[name]
	if !ok {
		return core.DownState()
	}
	if d.oper != "" {
		return core.InterfaceState{Admin: core.StatusUp, Oper: d.oper}
	}
	if intf.enabled {
		return core.InterfaceState{Admin: core.StatusUp, Oper: core.StatusUp}
	}
	return core.DownState()
}

type stubReporter struct {
	summary string
	err     error
}

func (r stubReporter) Report(context.Context) (string, error) {
	return r.summary, r.err
}

type stubDumper struct {
	path string
	ok   bool
}

func (d stubDumper) ShowRun(context.Context) (string, bool) {
	return d.path, d.ok
}

var errUpload = errors.New("upload rejected")
