// Package netconf implements core.Driver over NETCONF (RFC 6241) on SSH.
//
// Every operation opens its own scrapligo session, performs one RPC and
// drops the session.
package netconf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/pkg/ipv4"
	"github.com/sandevgo/routerbot/pkg/log"
)

var _ core.Driver = (*Client)(nil)

const defaultTimeout = 10 * time.Second

type Client struct {
	dialer  Dialer
	host    string
	timeout time.Duration
}

func NewClient(cfg *config.DeviceConfig) *Client {
	c := NewClientWithDialer(newSSHDialer(cfg), cfg.NetconfTimeout)
	c.host = cfg.Host
	return c
}

// NewClientWithDialer runs sessions over streams from d. A non-positive
// timeout falls back to ten seconds per RPC.
func NewClientWithDialer(d Dialer, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{dialer: d, host: "device", timeout: timeout}
}

// InterfaceExists reports whether the name occurs anywhere in the filtered
// configuration reply. The match is a plain substring test.
func (c *Client) InterfaceExists(ctx context.Context, name string) bool {
	reply, err := c.get(ctx, configFilter, name)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("interface", name).Msg("netconf existence check failed")
		return false
	}
	return strings.Contains(string(reply), name)
}

func (c *Client) CreateLoopback(ctx context.Context, name, ipCIDR string) bool {
	ip, prefix, err := ipv4.SplitCIDR(ipCIDR)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("interface", name).Msg("invalid loopback address")
		return false
	}
	payload, err := createLoopbackConfig(name, ip, ipv4.PrefixToNetmask(prefix))
	return c.edit(ctx, "create", name, payload, err)
}

func (c *Client) DeleteLoopback(ctx context.Context, name string) bool {
	payload, err := deleteInterfaceConfig(name)
	return c.edit(ctx, "delete", name, payload, err)
}

func (c *Client) SetEnabled(ctx context.Context, name string, enabled bool) bool {
	payload, err := setEnabledConfig(name, enabled)
	return c.edit(ctx, "set_enabled", name, payload, err)
}

// AdminOperStatus reads interfaces-state; a missing leaf reads as down.
func (c *Client) AdminOperStatus(ctx context.Context, name string) core.InterfaceState {
	reply, err := c.get(ctx, stateFilter, name)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("interface", name).Msg("netconf status read failed")
		return core.DownState()
	}

	state := core.DownState()
	if v, ok := findLeaf(reply, interfacesNS, "admin-status"); ok && v != "" {
		state.Admin = core.LinkStatus(v)
	}
	if v, ok := findLeaf(reply, interfacesNS, "oper-status"); ok && v != "" {
		state.Oper = core.LinkStatus(v)
	}
	return state
}

func (c *Client) get(ctx context.Context, filter func(string) (string, error), name string) ([]byte, error) {
	payload, err := filter(name)
	if err != nil {
		return nil, err
	}

	var reply []byte
	err = c.withSession(ctx, func(s *session) error {
		resp, err := s.get(payload)
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}
		reply = resp.RawResult
		return nil
	})
	return reply, err
}

func (c *Client) edit(ctx context.Context, op, name, payload string, buildErr error) bool {
	logger := log.FromCtx(ctx)
	if buildErr != nil {
		logger.Error().Err(buildErr).Str("op", op).Str("interface", name).Msg("netconf payload build failed")
		return false
	}

	var reply []byte
	err := c.withSession(ctx, func(s *session) error {
		resp, err := s.editRunning(payload)
		if err != nil {
			return fmt.Errorf("edit-config: %w", err)
		}
		reply = resp.RawResult
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("op", op).Str("interface", name).Msg("netconf edit-config failed")
		return false
	}
	if !isOK(reply) {
		logger.Warn().Str("op", op).Str("interface", name).Str("error", rpcErrorMessage(reply)).Msg("netconf edit-config rejected")
		return false
	}
	return true
}

// withSession opens a session, runs fn and tears the session down.
func (c *Client) withSession(ctx context.Context, fn func(*session) error) error {
	sess, err := openSession(ctx, c.host, c.dialer, c.timeout)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	if err := fn(sess); err != nil {
		return err
	}
	log.FromCtx(ctx).Debug().Str("host", c.host).Msg("netconf exchange")
	return nil
}
