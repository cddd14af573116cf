package sshcli

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/pkg/log"
)

// Client runs exec commands on the router, one SSH connection per call.
type Client struct {
	cfg     *config.DeviceConfig
	addr    string
	timeout time.Duration
}

func NewClient(cfg *config.DeviceConfig) *Client {
	return &Client{
		cfg:     cfg,
		addr:    cfg.GetSSHAddr(),
		timeout: cfg.CLITimeout,
	}
}

// Run executes cmd and returns its combined output.
func (c *Client) Run(ctx context.Context, cmd string) (string, error) {
	clientCfg, err := ClientConfig(c.cfg, c.timeout)
	if err != nil {
		return "", err
	}

	client, err := Dial(ctx, c.addr, clientCfg, c.timeout)
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("SSH session: %w", err)
	}
	defer session.Close()

	log.FromCtx(ctx).Debug().Str("addr", c.addr).Str("cmd", cmd).Msg("running cli command")

	output, err := session.CombinedOutput(cmd)
	if err != nil {
		return string(output), fmt.Errorf("SSH exec '%s': %w", cmd, err)
	}
	return string(output), nil
}
