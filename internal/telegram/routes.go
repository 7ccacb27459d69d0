package telegram

import (
	"context"

	"bazarino-order-bot/internal/telegram/internal/fsm"
	"bazarino-order-bot/internal/telegram/internal/presentation"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type route struct {
	handlerType bot.HandlerType
	pattern     string
	matchType   bot.MatchType
	handle      func(ctx context.Context, event fsm.Event)
}

func command(name string, handle func(context.Context, fsm.Event)) route {
	return route{bot.HandlerTypeMessageText, name, bot.MatchTypeCommandStartOnly, handle}
}

func text(value string, handle func(context.Context, fsm.Event)) route {
	return route{bot.HandlerTypeMessageText, value, bot.MatchTypeExact, handle}
}

func callback(data string, handle func(context.Context, fsm.Event)) route {
	return route{bot.HandlerTypeCallbackQueryData, data, bot.MatchTypeExact, handle}
}

// routes lists the handlers reached when no conversation step consumed the update.
func (b *Bot) routes() []route {
	return []route{
		command("start", b.handleStatic(presentation.KeyWelcome, true)),
		command("help", b.handleStatic(presentation.KeyWelcome, true)),
		command("about", b.handleStatic(presentation.KeyAboutUs, false)),
		command("contact", b.handleStatic(presentation.KeyContact, false)),
		command("privacy", b.handleStatic(presentation.KeyPrivacy, false)),
		command("order", b.handleOrderStart),
		command("photo", b.handleUploadStart),
		command("cancel", b.handleCancel),
		text(presentation.MenuOrder, b.handleOrderStart),
		text(presentation.MenuPhoto, b.handleUploadStart),
		text(presentation.MenuAbout, b.handleStatic(presentation.KeyAboutUs, false)),
		text(presentation.MenuContact, b.handleStatic(presentation.KeyContact, false)),
		callback(presentation.CallbackCancel, b.handleCancel),
	}
}

func (r route) adapt() bot.HandlerFunc {
	return func(ctx context.Context, _ *bot.Bot, update *models.Update) {
		event, ok := fsm.NewEvent(update)
		if !ok {
			return
		}
		r.handle(ctx, event)
	}
}
