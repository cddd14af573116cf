package gigabit

import (
	"context"
	"fmt"

	"github.com/sandevgo/routerbot/pkg/log"
)

const briefCommand = "show ip interface brief"

type runner interface {
	Run(ctx context.Context, cmd string) (string, error)
}

// Reporter collects interface status over a CLI session.
type Reporter struct {
	cli runner
}

func NewReporter(cli runner) *Reporter {
	return &Reporter{cli: cli}
}

func (r *Reporter) Report(ctx context.Context) (string, error) {
	out, err := r.cli.Run(ctx, briefCommand)
	if err != nil {
		return "", fmt.Errorf("failed to run %q: %w", briefCommand, err)
	}

	rows, err := ParseBrief(out)
	if err != nil {
		return "", err
	}
	log.FromCtx(ctx).Debug().Int("rows", len(rows)).Msg("parsed interface brief")
	return Summarize(rows), nil
}
