package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/core"
	"github.com/sandevgo/routerbot/pkg/log"
	"github.com/sandevgo/routerbot/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot    *tele.Bot
	cfg    *config.TelegramConfig
	router core.CmdRouter
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	router core.CmdRouter,
) (*Bot, error) {
	return newBot(ctx, settings(cfg), cfg, router, retry.NewDefaultRetrier())
}

// settings handles updates on the poller goroutine, one at a time.
func settings(cfg *config.TelegramConfig) tele.Settings {
	return tele.Settings{
		Token:       cfg.Token,
		Poller:      &tele.LongPoller{Timeout: 10 * time.Second},
		Synchronous: true,
	}
}

func newBot(
	ctx context.Context,
	pref tele.Settings,
	cfg *config.TelegramConfig,
	router core.CmdRouter,
	retrier *retry.Retrier,
) (*Bot, error) {
	logger := log.FromCtx(ctx)
	pref.OnError = func(err error, c tele.Context) {
		logger.Error().Err(err).Msg("telegram handler failed")
	}

	// NewBot calls getMe, which fails while the network comes up.
	retrier.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("telegram unavailable, retrying")
	}
	var b *tele.Bot
	err := retrier.Do(ctx, func() error {
		var err error
		b, err = tele.NewBot(pref)
		if errors.Is(err, tele.ErrUnauthorized) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		cfg:    cfg,
		router: router,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: only the configured chat may drive the router
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Chat() == nil || c.Chat().ID != bot.cfg.ChatID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Int64("chat_id", b.cfg.ChatID).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	ctx = log.With(ctx, "chat_id", strconv.FormatInt(c.Chat().ID, 10))

	n := newNotifier(b.bot, c.Chat())
	if !b.router.Handle(ctx, n, c.Text()) {
		log.FromCtx(ctx).Debug().Msg("message not addressed to this bot")
	}
	return nil
}
