package command

import (
	"context"

	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/pkg/log"
)

type GigabitCommand struct {
	reporter core.StatusReporter
}

func NewGigabitCommand(r core.StatusReporter) core.Command {
	return &GigabitCommand{reporter: r}
}

func (c *GigabitCommand) Name() string {
	return "gigabit_status"
}

func (c *GigabitCommand) Description() string {
	return "Summarize GigabitEthernet1-4 link status"
}

func (c *GigabitCommand) Execute(ctx context.Context, n core.Notifier, _ string) error {
	summary, err := c.reporter.Report(ctx)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("gigabit status report failed")
		return n.SendText(ctx, "Error: gigabit_status")
	}
	return n.SendText(ctx, summary)
}
