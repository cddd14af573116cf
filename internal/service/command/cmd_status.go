package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/internal/service/loopback"
)

type StatusCommand struct {
	driver core.Driver
}

func NewStatusCommand(d core.Driver) core.Command {
	return &StatusCommand{driver: d}
}

func (c *StatusCommand) Name() string {
	return "status"
}

func (c *StatusCommand) Description() string {
	return "Show admin and operational state of the loopback"
}

func (c *StatusCommand) Execute(ctx context.Context, n core.Notifier, studentID string) error {
	ifName := loopback.Name(studentID)

	if !c.driver.InterfaceExists(ctx, ifName) {
		return n.SendText(ctx, "No Interface "+ifName)
	}

	st := c.driver.AdminOperStatus(ctx, ifName)
	switch {
	case st.Admin == core.StatusUp && st.Oper == core.StatusUp:
		return n.SendText(ctx, fmt.Sprintf("Interface %s is enabled", ifName))
	case st.Admin == core.StatusDown && st.Oper == core.StatusDown:
		return n.SendText(ctx, fmt.Sprintf("Interface %s is disabled", ifName))
	default:
		return n.SendText(ctx, fmt.Sprintf("Interface %s: admin=%s, oper=%s", ifName, st.Admin, st.Oper))
	}
}
