package command

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/pkg/log"
)

const badFormatMessage = "Bad command format. Use: /<studentID> <command>"

type Router struct {
	mu        sync.Mutex
	studentID string
	commands  map[string]core.Command
}

func New(studentID string, commands []core.Command) *Router {
	c := &Router{
		studentID: studentID,
		commands:  make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.Register(cmd)
	}
	return c
}

func (c *Router) Register(cmd core.Command) {
	c.commands[cmd.Name()] = cmd
}

// Handle dispatches "/<studentID> <command>". It reports whether the input
// was addressed to this bot; handled input always yields one notification.
// Calls are serialized so at most one device exchange is in flight.
func (c *Router) Handle(ctx context.Context, n core.Notifier, input string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := log.FromCtx(ctx)

	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return false
	}

	studentID, name, ok := parse(input)
	if !ok {
		c.notify(ctx, n, badFormatMessage)
		return true
	}

	if studentID != c.studentID {
		logger.Debug().Str("student_id", studentID).Msg("ignoring command for another student")
		return false
	}

	cmd, ok := c.commands[name]
	if !ok {
		c.notify(ctx, n, "Unknown command: "+name)
		return true
	}

	logger.Info().Str("command", name).Msg("executing command")
	if err := cmd.Execute(ctx, n, studentID); err != nil {
		logger.Error().Err(err).Str("command", name).Msg("command failed")
	}
	return true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})
	return res
}

func (c *Router) notify(ctx context.Context, n core.Notifier, text string) {
	if err := n.SendText(ctx, text); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to send notification")
	}
}

func parse(input string) (studentID, command string, ok bool) {
	parts := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], strings.ToLower(parts[1]), true
}
