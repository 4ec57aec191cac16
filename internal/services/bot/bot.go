// Package bot is the chat front end: it checks the template locally and forwards complaints to the API
package bot

import (
	"context"
	"strings"

	"zhkh/internal/adapters/backend"
	"zhkh/internal/adapters/telegram"
	"zhkh/internal/core/template"
	"zhkh/internal/platform/logger"
	"zhkh/internal/services/complaints/domain"
)

// Replies other than the template texts
const (
	ReplyAccepted   = "Спасибо! Ваша жалоба принята и будет рассмотрена."
	ReplyRejected   = "Ошибка при обработке жалобы. Попробуйте ещё раз."
	ReplyConnection = "Ошибка соединения с сервером. Попробуйте позже."
)

// Sender delivers a reply to a chat
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Submitter forwards a complaint, backend.Client satisfies it
type Submitter interface {
	Submit(ctx context.Context, text string) (domain.Ack, error)
}

// Bot turns updates into replies
type Bot struct {
	send   Sender
	submit Submitter
}

// New builds a Bot
func New(send Sender, submit Submitter) *Bot {
	return &Bot{send: send, submit: submit}
}

// Handle answers one update; only send failures are returned
func (b *Bot) Handle(ctx context.Context, u telegram.Update) error {
	if u.Message == nil || u.Message.Text == "" {
		return nil
	}
	chat := u.Message.Chat.ID
	ctx = logger.WithChat(ctx, chat)
	log := logger.C(ctx)
	text := u.Message.Text

	if cmd, ok := command(text); ok {
		if cmd != "start" {
			return nil
		}
		return b.send.SendMessage(ctx, chat, template.Welcome)
	}

	if !template.Validate(text) {
		log.Info().Int("len", len(text)).Msg("template not filled")
		return b.send.SendMessage(ctx, chat, template.Message)
	}

	ack, err := b.submit.Submit(ctx, text)
	switch {
	case err == nil:
		log.Info().Int64("id", ack.ID).Str("category", ack.Category.String()).Msg("complaint accepted")
		return b.send.SendMessage(ctx, chat, ReplyAccepted)
	case backend.IsStatus(err):
		log.Error().Err(err).Msg("api rejected complaint")
		return b.send.SendMessage(ctx, chat, ReplyRejected)
	default:
		log.Error().Err(err).Msg("api unreachable")
		return b.send.SendMessage(ctx, chat, ReplyConnection)
	}
}

// command parses "/name" and "/name@botname"
func command(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name), true
}
