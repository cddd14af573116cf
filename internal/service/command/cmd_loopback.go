package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/internal/service/loopback"
	"github.com/sandevgo/routerbot/pkg/log"
)

// loopbackCommand checks that the student's loopback is in the expected
// presence state, applies one driver action and reports the outcome.
type loopbackCommand struct {
	name        string
	description string
	// wantExists is the presence the interface must have before acting.
	wantExists bool
	apply      func(ctx context.Context, d core.Driver, sid, ifName string) bool
	success    string
	failure    string

	driver core.Driver
}

func (c *loopbackCommand) Name() string {
	return c.name
}

func (c *loopbackCommand) Description() string {
	return c.description
}

func (c *loopbackCommand) Execute(ctx context.Context, n core.Notifier, studentID string) error {
	ifName := loopback.Name(studentID)

	ok := c.driver.InterfaceExists(ctx, ifName) == c.wantExists
	if ok {
		ok = c.apply(ctx, c.driver, studentID, ifName)
	}

	log.FromCtx(ctx).Info().
		Str("command", c.name).
		Str("interface", ifName).
		Bool("ok", ok).
		Msg("loopback command finished")

	if ok {
		return n.SendText(ctx, fmt.Sprintf(c.success, ifName))
	}
	return n.SendText(ctx, fmt.Sprintf(c.failure, ifName))
}

func NewCreateCommand(d core.Driver) core.Command {
	return &loopbackCommand{
		name:        "create",
		description: "Create the student loopback interface",
		wantExists:  false,
		apply: func(ctx context.Context, d core.Driver, sid, ifName string) bool {
			cidr, err := loopback.IPCIDR(sid)
			if err != nil {
				log.FromCtx(ctx).Warn().Err(err).Str("student_id", sid).Msg("cannot derive loopback address")
				return false
			}
			return d.CreateLoopback(ctx, ifName, cidr)
		},
		success: "Interface %s is created successfully",
		failure: "Cannot create: Interface %s",
		driver:  d,
	}
}

func NewDeleteCommand(d core.Driver) core.Command {
	return &loopbackCommand{
		name:        "delete",
		description: "Delete the student loopback interface",
		wantExists:  true,
		apply: func(ctx context.Context, d core.Driver, _, ifName string) bool {
			return d.DeleteLoopback(ctx, ifName)
		},
		success: "Interface %s is deleted successfully",
		failure: "Cannot delete: Interface %s",
		driver:  d,
	}
}

func NewEnableCommand(d core.Driver) core.Command {
	return &loopbackCommand{
		name:        "enable",
		description: "Administratively enable the loopback",
		wantExists:  true,
		apply: func(ctx context.Context, d core.Driver, _, ifName string) bool {
			return d.SetEnabled(ctx, ifName, true)
		},
		success: "Interface %s is enabled successfully",
		failure: "Cannot enable: Interface %s",
		driver:  d,
	}
}

func NewDisableCommand(d core.Driver) core.Command {
	return &loopbackCommand{
		name:        "disable",
		description: "Shut down the loopback",
		wantExists:  true,
		apply: func(ctx context.Context, d core.Driver, _, ifName string) bool {
			return d.SetEnabled(ctx, ifName, false)
		},
		success: "Interface %s is shutdowned successfully",
		failure: "Cannot shutdown: Interface %s",
		driver:  d,
	}
}
