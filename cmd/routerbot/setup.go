package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/internal/observability"
	"github.com/sandevgo/routerbot/internal/providers/ansible"
	"github.com/sandevgo/routerbot/internal/providers/device"
	"github.com/sandevgo/routerbot/internal/providers/sshcli"
	"github.com/sandevgo/routerbot/internal/service/command"
	"github.com/sandevgo/routerbot/internal/service/gigabit"
	"github.com/sandevgo/routerbot/internal/transport/telegram"
	"github.com/sandevgo/routerbot/pkg/log"
	"github.com/sandevgo/routerbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Device, collaborators and dispatcher
	router, services := newRouter(ctx, appCfg, true)

	// 3. Transports
	transports, err := initTransports(ctx, appCfg, router)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Warn().Msg("no chat transport enabled, use 'routerbot exec' to send commands")
	}
	services = append(services, transports...)

	return services
}

// newRouter builds the dispatcher for the configured student. The metrics
// endpoint is only served by long-running processes.
func newRouter(ctx context.Context, appCfg *config.AppConfig, serveMetrics bool) (*command.Router, []srv.Service) {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	devCfg := config.NewDeviceConfig(ctx)
	driver := device.NewDriver(ctx, appCfg, devCfg)

	metricsCfg := config.NewMetricsConfig(ctx)
	if serveMetrics && metricsCfg.Enabled() {
		collector, err := observability.NewDeviceCollector(prometheus.NewRegistry())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to register device metrics")
		}
		driver = observability.InstrumentDriver(driver, collector, appCfg.GetDriverName())
		services = append(services, observability.NewServer(metricsCfg.Addr, collector))
	}

	reporter := gigabit.NewReporter(sshcli.NewClient(devCfg))
	dumper := ansible.NewRunner(config.NewAnsibleConfig(ctx))

	logger.Info().
		Str("student_id", appCfg.GetStudentID()).
		Str("driver", appCfg.GetDriverName()).
		Str("router", devCfg.Host).
		Msg("dispatcher ready")

	return command.NewRouter(appCfg.GetStudentID(), driver, reporter, dumper), services
}

func initTransports(ctx context.Context, cfg core.AppConfig, router core.CmdRouter) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

// initEnv loads the runtime .env and then ./.env. Variables already set in
// the environment always win.
func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)

	for _, envFile := range []string{filepath.Join(runtimePath, ".env"), ".env"} {
		if _, err := os.Stat(envFile); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
			return err
		}

		logger.Debug().Str("path", envFile).Msg("loaded .env file")
	}
	return nil
}
