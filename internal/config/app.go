package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/pkg/log"
)

type AppConfig struct {
	StudentID string `env:"STUDENT_ID,required,notEmpty"`

	// Driver selection
	UseRestconf bool `env:"USE_RESTCONF" envDefault:"true"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetStudentID() string {
	return c.StudentID
}

func (c AppConfig) GetDriverName() string {
	if c.UseRestconf {
		return core.DriverRestconf
	}
	return core.DriverNetconf
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
