package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bazarino-order-bot/internal/order"
	"bazarino-order-bot/internal/pkg"
	"bazarino-order-bot/internal/pkg/config"
	"bazarino-order-bot/internal/telegram/internal/fsm"
	"bazarino-order-bot/internal/telegram/internal/presentation"

	"github.com/benbjohnson/clock"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const pollTimeout = 50 * time.Second

type Bot struct {
	orderService order.Service
	api          *bot.Bot
	sender       fsm.Sender
	state        *fsm.FSM
	router       *fsm.Router
	catalog      *presentation.Catalog
	adminID      int64
	webhook      bool
}

// NewBot builds the bot and its Bot API client. Updates are handled one at a
// time so a user's messages reach the conversation in the order they were sent.
func NewBot(orderService order.Service, clk clock.Clock, cfg *config.Config, opts ...bot.Option) (*Bot, error) {
	state := fsm.NewFSM(clk)
	router := fsm.NewRouter(state, cfg.Conversation.IdleTimeout)

	b := newBot(orderService, state, router, presentation.NewCatalog(cfg.Messages), cfg.Telegram.AdminID)
	b.webhook = cfg.UseWebhook()

	botOpts := []bot.Option{
		bot.WithMiddlewares(router.Middleware),
		bot.WithDefaultHandler(b.handleDefault),
		bot.WithHTTPClient(pollTimeout, pkg.HTTPClient),
		bot.WithNotAsyncHandlers(),
		bot.WithWorkers(1),
	}
	if b.webhook {
		botOpts = append(botOpts, bot.WithWebhookSecretToken(cfg.Webhook.Secret))
	}
	botOpts = append(botOpts, opts...)
	api, err := bot.New(cfg.Telegram.Token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot instance: %w", err)
	}

	b.api = api
	b.sender = newThrottledSender(api, cfg.Telegram.RateLimit)
	router.SetSender(b.sender)
	return b, nil
}

func newBot(orderService order.Service, state *fsm.FSM, router *fsm.Router, catalog *presentation.Catalog, adminID int64) *Bot {
	b := &Bot{
		orderService: orderService,
		state:        state,
		router:       router,
		catalog:      catalog,
		adminID:      adminID,
	}
	router.OnExpire(b.handleExpired)
	router.OnError(b.handleFlowError)
	router.Passthrough(presentation.MenuOrder, presentation.MenuPhoto)
	b.SetupOrderCreationFlow()
	b.SetupUploadFlow()
	return b
}

func (b *Bot) registerHandlers() {
	for _, r := range b.routes() {
		b.api.RegisterHandler(r.handlerType, r.pattern, r.matchType, r.adapt())
	}
}

func (b *Bot) Start(ctx context.Context) {
	b.registerHandlers()

	if b.webhook {
		slog.Info("Started Telegram Bot", "mode", "webhook")
		go b.api.StartWebhook(ctx)
		return
	}
	slog.Info("Started Telegram Bot", "mode", "polling")
	go b.api.Start(ctx)
}

// FSM exposes the conversation store to background maintenance.
func (b *Bot) FSM() *fsm.FSM {
	return b.state
}

func (b *Bot) API() *bot.Bot {
	return b.api
}

// Stop waits for the updates being handled to finish. Updates arriving after
// Stop are dropped.
func (b *Bot) Stop(ctx context.Context) error {
	return b.router.Drain(ctx)
}

func (b *Bot) SendMessage(ctx context.Context, params *bot.SendMessageParams) {
	if _, err := b.sender.SendMessage(ctx, params); err != nil {
		slog.Error("Error sending message", "error", err, "chatID", params.ChatID)
	}
}

func (b *Bot) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) {
	if _, err := b.sender.AnswerCallbackQuery(ctx, params); err != nil {
		slog.Error("Error answering callback query", "error", err)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	b.SendMessage(ctx, params)
}

func (b *Bot) handleFlowError(ctx context.Context, _ fsm.Sender, event fsm.Event, err error) {
	if errors.Is(err, fsm.ErrUnexpectedState) {
		b.reply(ctx, event.ChatID, presentation.StateConversionErrorMsg(), presentation.MenuKbd())
		return
	}
	b.reply(ctx, event.ChatID, presentation.GenericErrorMsg(), presentation.MenuKbd())
}

func (b *Bot) handleDefault(ctx context.Context, _ *bot.Bot, update *models.Update) {
	event, ok := fsm.NewEvent(update)
	if !ok {
		return
	}
	if event.IsCallback() {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: event.CallbackID})
	}
	slog.Debug("Ignoring unhandled update", "userID", event.UserID, "updateID", event.UpdateID)
}
