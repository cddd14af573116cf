// Package ansible runs the show-running-config playbook and locates its artifact.
package ansible

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/pkg/log"
)

const maxLoggedOutput = 2000

type Runner struct {
	cfg *config.AnsibleConfig
}

func NewRunner(cfg *config.AnsibleConfig) *Runner {
	return &Runner{cfg: cfg}
}

// ShowRun runs the playbook and waits for it within the configured timeout.
// It reports the artifact path and whether the file exists; any failure of
// the playbook itself yields ("", false).
func (r *Runner) ShowRun(ctx context.Context) (string, bool) {
	logger := log.FromCtx(ctx)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.cfg.Binary, r.cfg.Playbook)
	cmd.Dir = r.cfg.Dir
	cmd.Env = append(os.Environ(),
		"ANSIBLE_STUDENT_ID="+r.cfg.StudentID,
		"ANSIBLE_ROUTER_NAME="+r.cfg.RouterName,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		event := logger.Warn().Err(err).
			Str("playbook", r.cfg.Playbook).
			Str("stderr", truncate(stderr.String())).
			Str("stdout", truncate(stdout.String()))
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			event.Dur("timeout", r.cfg.Timeout).Msg("ansible playbook timed out")
		} else {
			event.Msg("ansible playbook failed")
		}
		return "", false
	}

	path := r.cfg.GetArtifactPath()
	_, statErr := os.Stat(path)
	logger.Info().
		Str("path", path).
		Bool("exists", statErr == nil).
		Dur("took", time.Since(start)).
		Msg("ansible playbook finished")
	return path, statErr == nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLoggedOutput {
		return s
	}
	return "..." + s[len(s)-maxLoggedOutput:]
}
