package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sandevgo/routerbot/pkg/conv"
	"github.com/sandevgo/routerbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// api is the part of *tele.Bot the notifier needs.
type api interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Notify(to tele.Recipient, action tele.ChatAction, threadID ...int) error
}

// notifier replies to a single chat. It implements core.Notifier.
type notifier struct {
	api api
	to  tele.Recipient
}

func newNotifier(api api, to tele.Recipient) *notifier {
	return &notifier{api: api, to: to}
}

// SendText sends text verbatim, escaped for Telegram HTML.
func (n *notifier) SendText(ctx context.Context, text string) error {
	return n.sendHTML(ctx, conv.TextToTelegramHTML(text))
}

// SendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed.
func (n *notifier) SendMarkdown(ctx context.Context, md string) error {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		html = conv.TextToTelegramHTML(md)
	}
	return n.sendHTML(ctx, html)
}

func (n *notifier) sendHTML(ctx context.Context, html string) error {
	logger := log.FromCtx(ctx)
	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		if _, err := n.api.Send(n.to, chunk, tele.ModeHTML); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

func (n *notifier) SendFile(ctx context.Context, path, caption string) error {
	_ = n.api.Notify(n.to, tele.UploadingDocument)

	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: filepath.Base(path),
		Caption:  caption,
	}
	if _, err := n.api.Send(n.to, doc); err != nil {
		return fmt.Errorf("failed to upload %s: %w", doc.FileName, err)
	}

	log.FromCtx(ctx).Info().Str("file", doc.FileName).Msg("document sent")
	return nil
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
