// Package device selects the protocol driver for the configured router.
package device

import (
	"context"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/internal/providers/device/netconf"
	"github.com/sandevgo/routerbot/internal/providers/device/restconf"
	"github.com/sandevgo/routerbot/pkg/log"
)

// NewDriver returns the RESTCONF driver when useRestconf is set, NETCONF otherwise.
func NewDriver(ctx context.Context, appCfg core.DriverConfig, devCfg *config.DeviceConfig) core.Driver {
	logger := log.FromCtx(ctx)

	if devCfg.InsecureSkipVerify {
		logger.Warn().Str("host", devCfg.Host).Msg("certificate and host key verification disabled")
	}

	switch appCfg.GetDriverName() {
	case core.DriverNetconf:
		logger.Info().Str("addr", devCfg.GetNetconfAddr()).Msg("using netconf driver")
		return netconf.NewClient(devCfg)
	default:
		logger.Info().Str("url", devCfg.GetRestconfBaseURL()).Msg("using restconf driver")
		return restconf.NewClient(devCfg)
	}
}
