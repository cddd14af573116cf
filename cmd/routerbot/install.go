package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/service/installer"
	"github.com/sandevgo/routerbot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure RouterBot for your student ID and router",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")

		// run wizard (includes save step)
		state, err := installer.RunWizard(envPath)
		if err != nil {
			return err
		}

		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().
			Str("student_id", state.Answers.StudentID).
			Msgf("configuration written to %s", envPath)
		logger.Info().Msg("Installation complete! You can now run 'routerbot start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
