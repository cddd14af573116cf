package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/routerbot/pkg/log"
)

type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR"`
}

func NewMetricsConfig(ctx context.Context) *MetricsConfig {
	c := &MetricsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Metrics config")
	}
	return c
}

func (c MetricsConfig) Enabled() bool {
	return c.Addr != ""
}
