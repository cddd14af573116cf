package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/transport/cli"
	"github.com/sandevgo/routerbot/pkg/log"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec [message]",
	Short: "Dispatch one chat message and print the reply",
	Long:  `Runs a single "/<studentID> <command>" message against the router. Without an argument the message is read from stdin.`,
	Example: `  routerbot exec "/66070046 create"
  echo "/66070046 status" | routerbot exec`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Replies go to stdout, so logs move to stderr.
		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		input, err := readMessage(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return fmt.Errorf("failed to init env: %w", err)
		}

		appCfg := config.NewAppConfig(ctx)
		router, _ := newRouter(ctx, appCfg, false)

		color := isatty.IsTerminal(os.Stdout.Fd())
		if !router.Handle(ctx, cli.NewNotifier(cmd.OutOrStdout(), color), input) {
			log.FromCtx(ctx).Info().Str("input", input).Msg("message ignored")
		}
		return nil
	},
}

func readMessage(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read message from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	rootCmd.AddCommand(execCmd)
}
