package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/routerbot/internal/core"
)

type HelpCommand struct {
	list      func() []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(list func() []core.Command) core.Command {
	return &HelpCommand{
		list:      list,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, n core.Notifier, studentID string) error {
	cmds := c.list()
	items := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		items = append(items, fmt.Sprintf("**%s** %s", cmd.Name(), cmd.Description()))
	}

	return n.SendMarkdown(ctx, c.formatter.Combine(
		c.formatter.Info(core.BotName+" commands"),
		c.formatter.Label("Student", studentID),
		c.formatter.Label("Version", core.BotVersion),
		c.formatter.List(items),
		c.formatter.Usage(fmt.Sprintf("/%s <command>", studentID)),
	))
}
