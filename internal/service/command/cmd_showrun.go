package command

import (
	"context"
	"os"

	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/pkg/log"
)

const showRunCaption = "show running-config"

type ShowRunCommand struct {
	dumper core.ConfigDumper
}

func NewShowRunCommand(d core.ConfigDumper) core.Command {
	return &ShowRunCommand{dumper: d}
}

func (c *ShowRunCommand) Name() string {
	return "showrun"
}

func (c *ShowRunCommand) Description() string {
	return "Upload the router running-config"
}

func (c *ShowRunCommand) Execute(ctx context.Context, n core.Notifier, _ string) error {
	logger := log.FromCtx(ctx)

	path, ok := c.dumper.ShowRun(ctx)
	if !ok || path == "" {
		return n.SendText(ctx, "Error: Ansible")
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("running-config artifact missing")
		return n.SendText(ctx, "Error: Ansible")
	}

	if err := n.SendFile(ctx, path, showRunCaption); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("running-config upload failed")
		return n.SendText(ctx, "Error: Ansible (upload)")
	}
	return nil
}
