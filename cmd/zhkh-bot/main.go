// Command zhkh-bot relays Telegram chats to the complaints API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zhkh/internal/adapters/backend"
	"zhkh/internal/adapters/telegram"
	"zhkh/internal/platform/config"
	"zhkh/internal/platform/logger"

	"zhkh/internal/services/bot"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Get().Warn().Err(err).Msg("ignoring unreadable .env")
	}
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	tg := root.Prefix("TELEGRAM_")
	bc := root.Prefix("BOT_")

	wait := bc.MayDuration("POLL_TIMEOUT", 25*time.Second)
	tgc, err := telegram.New(tg.MayString("TOKEN", ""), tg.MayString("API_URL", telegram.DefaultBaseURL),
		&http.Client{Timeout: wait + 10*time.Second})
	if err != nil {
		l.Panic().Err(err).Msg("telegram client")
	}
	api, err := backend.New(bc.MayString("BACKEND_URL", backend.DefaultBaseURL), nil)
	if err != nil {
		l.Panic().Err(err).Msg("backend client")
	}

	b := bot.New(tgc, api)
	if err := b.Run(ctx, tgc, bot.RunOptions{
		Wait:    wait,
		Workers: bc.MayInt("WORKERS", 8),
	}); err != nil {
		l.Error().Err(err).Msg("bot stopped")
		os.Exit(1)
	}
}
