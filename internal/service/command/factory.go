package command

import (
	"github.com/sandevgo/routerbot/internal/core"
)

// NewRouter wires every chat command for one student.
func NewRouter(
	studentID string,
	driver core.Driver,
	reporter core.StatusReporter,
	dumper core.ConfigDumper,
) *Router {
	r := New(studentID, []core.Command{
		NewCreateCommand(driver),
		NewDeleteCommand(driver),
		NewEnableCommand(driver),
		NewDisableCommand(driver),
		NewStatusCommand(driver),
		NewGigabitCommand(reporter),
		NewShowRunCommand(dumper),
	})
	r.Register(NewHelpCommand(r.ListCommands))
	return r
}
