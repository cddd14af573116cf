// Package cli delivers command outcomes to a terminal for one-shot use.
package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sandevgo/routerbot/internal/service/ui"
)

// Notifier prints notifications to out, one per line. Files are reported by
// path since there is no chat to upload them to.
type Notifier struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

func NewNotifier(out io.Writer, color bool) *Notifier {
	return &Notifier{out: out, color: color}
}

func (n *Notifier) SendText(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintln(n.out, text)
	return err
}

// SendMarkdown prints md as is; markdown reads fine in a terminal.
func (n *Notifier) SendMarkdown(ctx context.Context, md string) error {
	return n.SendText(ctx, md)
}

func (n *Notifier) SendFile(ctx context.Context, path, caption string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	label := caption + ":"
	if n.color {
		label = ui.TitleStyle.UnsetMarginBottom().Render(label)
	}
	_, err := fmt.Fprintln(n.out, label, path)
	return err
}
