package srv

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/routerbot/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices runs every service in its own goroutine. The first service
// that fails to start cancels the application with its error as the cause.
func StartServices(ctx context.Context, cancel context.CancelCauseFunc, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Error().Err(err).Msgf("%T failed to start", service)
				cancel(fmt.Errorf("%T: %w", service, err))
			}
		}(service)
	}
}

// ShutdownServices waits for ctx to end, then stops the services in reverse
// start order, giving them timeout in total.
func ShutdownServices(ctx context.Context, services []Service, timeout time.Duration) {
	<-ctx.Done()

	logger := log.FromCtx(ctx)
	if cause := context.Cause(ctx); cause != nil && cause != context.Canceled {
		logger.Warn().Err(cause).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
