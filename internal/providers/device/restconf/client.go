// Package restconf implements core.Driver over RESTCONF with YANG JSON payloads.
package restconf

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/pkg/ipv4"
	"github.com/sandevgo/routerbot/pkg/log"
	"github.com/tidwall/gjson"
)

const (
	mediaType = "application/yang-data+json"

	interfacesPath      = "ietf-interfaces:interfaces/interface="
	interfacesStatePath = "ietf-interfaces:interfaces-state/interface="

	maxBodySize = 1 << 20
)

var _ core.Driver = (*Client)(nil)

type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client

	timeout       time.Duration
	createTimeout time.Duration
}

func NewClient(cfg *config.DeviceConfig) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify} //nolint:gosec

	createTimeout := cfg.RestconfCreateTimeout
	if createTimeout <= 0 {
		createTimeout = cfg.RestconfTimeout
	}

	return &Client{
		baseURL:       cfg.GetRestconfBaseURL(),
		username:      cfg.Username,
		password:      cfg.Password,
		client:        &http.Client{Transport: transport},
		timeout:       cfg.RestconfTimeout,
		createTimeout: createTimeout,
	}
}

func (c *Client) InterfaceExists(ctx context.Context, name string) bool {
	code, _, err := c.do(ctx, c.timeout, http.MethodGet, c.interfaceURL(name), nil)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("interface", name).Msg("restconf existence check failed")
		return false
	}
	return code == http.StatusOK
}

func (c *Client) CreateLoopback(ctx context.Context, name, ipCIDR string) bool {
	logger := log.FromCtx(ctx)

	ip, prefix, err := ipv4.SplitCIDR(ipCIDR)
	if err != nil {
		logger.Error().Err(err).Str("interface", name).Msg("invalid loopback address")
		return false
	}

	doc := interfaceDocument{Interface: interfaceBody{
		Name:    name,
		Type:    "iana-if-type:softwareLoopback",
		Enabled: ptr(true),
		IPv4: &ipv4Body{
			Address: []addressBody{{IP: ip, Netmask: ipv4.PrefixToNetmask(prefix)}},
		},
	}}

	code, body, err := c.do(ctx, c.createTimeout, http.MethodPut, c.interfaceURL(name), doc)
	if err != nil {
		logger.Warn().Err(err).Str("interface", name).Msg("restconf create failed")
		return false
	}
	return c.accept(ctx, "create", code, body, http.StatusOK, http.StatusCreated, http.StatusNoContent)
}

func (c *Client) DeleteLoopback(ctx context.Context, name string) bool {
	code, body, err := c.do(ctx, c.timeout, http.MethodDelete, c.interfaceURL(name), nil)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("interface", name).Msg("restconf delete failed")
		return false
	}
	return c.accept(ctx, "delete", code, body, http.StatusOK, http.StatusNoContent)
}

func (c *Client) SetEnabled(ctx context.Context, name string, enabled bool) bool {
	doc := interfaceDocument{Interface: interfaceBody{Enabled: ptr(enabled)}}

	code, body, err := c.do(ctx, c.timeout, http.MethodPatch, c.interfaceURL(name), doc)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("interface", name).Msg("restconf patch failed")
		return false
	}
	return c.accept(ctx, "set_enabled", code, body, http.StatusOK, http.StatusNoContent)
}

// AdminOperStatus reads interfaces-state. When the live state is unavailable
// it falls back to the configured enabled leaf: admin mirrors that leaf and
// oper is always reported as down. The fallback is a degraded answer, it does
// not observe the operational state.
func (c *Client) AdminOperStatus(ctx context.Context, name string) core.InterfaceState {
	logger := log.FromCtx(ctx)

	code, body, err := c.do(ctx, c.timeout, http.MethodGet, c.stateURL(name), nil)
	if err == nil && code == http.StatusOK {
		data := gjson.GetBytes(body, "ietf-interfaces:interface")
		return core.InterfaceState{
			Admin: leafStatus(data, "admin-status"),
			Oper:  leafStatus(data, "oper-status"),
		}
	}
	logger.Debug().Err(err).Int("code", code).Str("interface", name).Msg("interfaces-state unavailable, reading config")

	code, body, err = c.do(ctx, c.timeout, http.MethodGet, c.interfaceURL(name), nil)
	if err != nil || code < 200 || code > 299 {
		logger.Warn().Err(err).Int("code", code).Str("interface", name).Msg("restconf status fallback failed")
		return core.DownState()
	}

	if gjson.GetBytes(body, "ietf-interfaces:interface.enabled").Bool() {
		return core.InterfaceState{Admin: core.StatusUp, Oper: core.StatusDown}
	}
	return core.DownState()
}

func (c *Client) interfaceURL(name string) string {
	return c.baseURL + "/" + interfacesPath + url.PathEscape(name)
}

func (c *Client) stateURL(name string) string {
	return c.baseURL + "/" + interfacesStatePath + url.PathEscape(name)
}

func (c *Client) accept(ctx context.Context, op string, code int, body []byte, ok ...int) bool {
	for _, want := range ok {
		if code == want {
			return true
		}
	}
	log.FromCtx(ctx).Warn().
		Str("op", op).
		Int("code", code).
		Str("body", string(body)).
		Msg("restconf request rejected")
	return false
}

// do runs one request bounded by timeout, including the body read.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, target string, payload any) (int, []byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", mediaType)
	req.Header.Set("Accept", mediaType)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read body: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("method", method).Str("url", target).Int("code", resp.StatusCode).Msg("restconf exchange")
	return resp.StatusCode, body, nil
}

func leafStatus(data gjson.Result, leaf string) core.LinkStatus {
	if v := data.Get(leaf).String(); v != "" {
		return core.LinkStatus(v)
	}
	return core.StatusDown
}

func ptr[T any](v T) *T {
	return &v
}
