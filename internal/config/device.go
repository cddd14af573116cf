package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/routerbot/pkg/log"
)

// DeviceConfig holds connection parameters and transport policy for the router.
// It is built once at startup and never mutated.
type DeviceConfig struct {
	Host     string `env:"ROUTER_IP,required,notEmpty"`
	Username string `env:"ROUTER_USERNAME" envDefault:"admin"`
	Password string `env:"ROUTER_PASSWORD" envDefault:"cisco"`

	// InsecureSkipVerify disables TLS certificate and SSH host key checks.
	// Meant for lab routers with self-signed certificates only.
	InsecureSkipVerify bool   `env:"ROUTER_INSECURE_SKIP_VERIFY" envDefault:"false"`
	KnownHostsPath     string `env:"ROUTER_KNOWN_HOSTS"`

	RestconfBaseURL string        `env:"ROUTER_RESTCONF_URL"`
	RestconfTimeout time.Duration `env:"ROUTER_RESTCONF_TIMEOUT" envDefault:"10s"`
	// Creating an interface takes longer on IOS XE than reads and patches.
	RestconfCreateTimeout time.Duration `env:"ROUTER_RESTCONF_CREATE_TIMEOUT" envDefault:"15s"`

	NetconfPort    int           `env:"ROUTER_NETCONF_PORT" envDefault:"830"`
	NetconfTimeout time.Duration `env:"ROUTER_NETCONF_TIMEOUT" envDefault:"15s"`

	SSHPort    int           `env:"ROUTER_SSH_PORT" envDefault:"22"`
	CLITimeout time.Duration `env:"ROUTER_CLI_TIMEOUT" envDefault:"30s"`
}

func NewDeviceConfig(ctx context.Context) *DeviceConfig {
	c := &DeviceConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Device config")
	}
	if !c.InsecureSkipVerify && c.KnownHostsPath == "" {
		path, err := defaultKnownHostsPath()
		if err != nil {
			log.FromCtx(ctx).Fatal().Err(err).Msg("set ROUTER_KNOWN_HOSTS or ROUTER_INSECURE_SKIP_VERIFY")
		}
		c.KnownHostsPath = path
	}
	return c
}

func defaultKnownHostsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate known_hosts: %w", err)
	}
	return filepath.Join(home, ".ssh", "known_hosts"), nil
}

func (c DeviceConfig) GetRestconfBaseURL() string {
	if c.RestconfBaseURL != "" {
		return c.RestconfBaseURL
	}
	return fmt.Sprintf("https://%s/restconf/data", c.Host)
}

func (c DeviceConfig) GetNetconfAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.NetconfPort)
}

func (c DeviceConfig) GetSSHAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.SSHPort)
}
