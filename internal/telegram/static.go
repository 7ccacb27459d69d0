package telegram

import (
	"context"

	"bazarino-order-bot/internal/telegram/internal/fsm"
	"bazarino-order-bot/internal/telegram/internal/presentation"

	"github.com/go-telegram/bot/models"
)

func (b *Bot) handleStatic(key string, withMenu bool) func(context.Context, fsm.Event) {
	return func(ctx context.Context, event fsm.Event) {
		var markup models.ReplyMarkup
		if withMenu {
			markup = presentation.MenuKbd()
		}
		b.reply(ctx, event.ChatID, b.catalog.Get(key), markup)
	}
}
