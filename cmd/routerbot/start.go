package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandevgo/routerbot/pkg/log"
	"github.com/sandevgo/routerbot/pkg/srv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the RouterBot services",
	Long:  `Starts the chat transport and the metrics endpoint and serves commands until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stdout)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting routerbot")

		services := NewServices(ctx)

		srv.StartServices(ctx, cancel, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services, shutdownTimeout)
		logger.Info().Msg("routerbot has been shut down gracefully")

		if cause := context.Cause(ctx); cause != nil && cause != context.Canceled {
			return cause
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
