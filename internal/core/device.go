package core

import "context"

type LinkStatus string

const (
	StatusUp        LinkStatus = "up"
	StatusDown      LinkStatus = "down"
	StatusAdminDown LinkStatus = "administratively down"
)

// InterfaceState is the (administrative, operational) pair reported by a Driver.
// Both axes default to StatusDown when the device returns no data.
type InterfaceState struct {
	Admin LinkStatus
	Oper  LinkStatus
}

func DownState() InterfaceState {
	return InterfaceState{Admin: StatusDown, Oper: StatusDown}
}

// Driver is the capability contract implemented by every device protocol.
// Failures never cross this boundary as errors: they collapse to false or
// to DownState and are logged by the implementation.
type Driver interface {
	InterfaceExists(ctx context.Context, name string) bool
	CreateLoopback(ctx context.Context, name, ipCIDR string) bool
	DeleteLoopback(ctx context.Context, name string) bool
	SetEnabled(ctx context.Context, name string, enabled bool) bool
	AdminOperStatus(ctx context.Context, name string) InterfaceState
}

// InterfaceRow is one line of "show ip interface brief".
type InterfaceRow struct {
	Intf   string
	IP     string
	Status string
	Proto  string
}

// StatusReporter returns the one-line physical interface summary.
type StatusReporter interface {
	Report(ctx context.Context) (string, error)
}

// ConfigDumper fetches the running configuration into a file.
type ConfigDumper interface {
	ShowRun(ctx context.Context) (string, bool)
}
