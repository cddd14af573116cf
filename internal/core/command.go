package core

import "context"

type CmdRouter interface {
	Handle(ctx context.Context, n Notifier, input string) bool
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, n Notifier, studentID string) error
}

// Notifier delivers command outcomes back to the chat the command came from.
// SendText delivers text verbatim; SendMarkdown lets the transport render
// formatting.
type Notifier interface {
	SendText(ctx context.Context, text string) error
	SendMarkdown(ctx context.Context, md string) error
	SendFile(ctx context.Context, path, caption string) error
}
