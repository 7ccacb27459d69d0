package telegram

import (
	"context"
	"log/slog"
	"strings"

	"bazarino-order-bot/internal/order"
	"bazarino-order-bot/internal/telegram/internal/fsm"
	"bazarino-order-bot/internal/telegram/internal/presentation"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var stepPrompts = map[fsm.ConversationStep]func() string{
	fsm.StepAwaitingName:    presentation.AskNameMsg,
	fsm.StepAwaitingAddress: presentation.AskAddressMsg,
	fsm.StepAwaitingPhone:   presentation.AskPhoneMsg,
	fsm.StepAwaitingProduct: presentation.AskProductMsg,
	fsm.StepAwaitingQty:     presentation.AskQtyMsg,
	fsm.StepAwaitingNotes:   presentation.AskNotesMsg,
}

func (b *Bot) SetupOrderCreationFlow() {
	fsm.Chain[*fsm.OrderData](b.router, "order_creation", fsm.StepAwaitingName).
		OnText(collectField(func(d *fsm.OrderData, v string) { d.Name = v }, fsm.StepAwaitingAddress)).
		Then(fsm.StepAwaitingAddress).
		OnText(collectField(func(d *fsm.OrderData, v string) { d.Address = v }, fsm.StepAwaitingPhone)).
		Then(fsm.StepAwaitingPhone).
		OnText(collectField(func(d *fsm.OrderData, v string) { d.Phone = v }, fsm.StepAwaitingProduct)).
		Then(fsm.StepAwaitingProduct).
		OnText(collectField(func(d *fsm.OrderData, v string) { d.Product = v }, fsm.StepAwaitingQty)).
		Then(fsm.StepAwaitingQty).
		OnText(collectField(func(d *fsm.OrderData, v string) { d.Qty = v }, fsm.StepAwaitingNotes)).
		Then(fsm.StepAwaitingNotes).
		OnText(b.handleNotes).
		OnCallback(b.handleNotesCallback)
}

func (b *Bot) handleOrderStart(ctx context.Context, event fsm.Event) {
	if b.router.Cancel(event.UserID) {
		slog.Info("Restarting order", "userID", event.UserID)
	}
	b.router.Transition(event.UserID, fsm.StepAwaitingName, &fsm.OrderData{Handle: event.Handle()})

	b.reply(ctx, event.ChatID, presentation.StartOrderMsg(), presentation.RemoveKbd())
	b.reply(ctx, event.ChatID, presentation.AskNameMsg(), presentation.CancelKbd())
}

func (b *Bot) handleCancel(ctx context.Context, event fsm.Event) {
	if event.IsCallback() {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: event.CallbackID})
	}

	step := b.router.Step(event.UserID)
	if !b.router.Cancel(event.UserID) {
		b.reply(ctx, event.ChatID, presentation.NothingToCancelMsg(), presentation.MenuKbd())
		return
	}
	if step == fsm.StepAwaitingPhoto {
		slog.Info("Photo upload cancelled", "userID", event.UserID)
		b.reply(ctx, event.ChatID, presentation.UploadCancelledMsg(), presentation.MenuKbd())
		return
	}
	slog.Info("Order cancelled", "userID", event.UserID)
	b.reply(ctx, event.ChatID, presentation.OrderCancelledMsg(), presentation.MenuKbd())
}

func (b *Bot) handleExpired(ctx context.Context, _ fsm.Sender, event fsm.Event) {
	b.reply(ctx, event.ChatID, presentation.OrderExpiredMsg(), presentation.MenuKbd())
}

// NotifyExpired tells users whose unfinished order was dropped by the sweeper.
func (b *Bot) NotifyExpired(ctx context.Context, userID int64) {
	b.reply(ctx, userID, presentation.OrderExpiredMsg(), presentation.MenuKbd())
}

func collectField(assign func(*fsm.OrderData, string), next fsm.ConversationStep) fsm.TextHandler[*fsm.OrderData] {
	return func(ctx *fsm.ConversationContext[*fsm.OrderData], text string) error {
		value := strings.TrimSpace(text)
		if value == "" {
			return ctx.SendMessage(stepPrompts[ctx.Step()](), presentation.CancelKbd())
		}
		assign(ctx.Data, value)

		ctx.Transition(next, ctx.Data)
		var markup models.ReplyMarkup = presentation.CancelKbd()
		if next == fsm.StepAwaitingNotes {
			markup = presentation.SkipCancelKbd()
		}
		return ctx.SendMessage(stepPrompts[next](), markup)
	}
}

func (b *Bot) handleNotes(ctx *fsm.ConversationContext[*fsm.OrderData], text string) error {
	ctx.Data.Notes = strings.TrimSpace(text)
	return b.completeOrder(ctx)
}

func (b *Bot) handleNotesCallback(ctx *fsm.ConversationContext[*fsm.OrderData], data string) error {
	if data != presentation.CallbackSkip {
		return fsm.IncompatibleHandler
	}
	if err := ctx.AnswerCallback(); err != nil {
		slog.Error("Error answering callback query", "error", err, "userID", ctx.UserID)
	}
	ctx.Data.Notes = ""
	return b.completeOrder(ctx)
}

func (b *Bot) completeOrder(ctx *fsm.ConversationContext[*fsm.OrderData]) error {
	if handle := ctx.Event.Handle(); handle != "" {
		ctx.Data.Handle = handle
	}

	resp, err := b.orderService.NewOrder(ctx.Ctx, order.RequestNewOrder{
		Name:    ctx.Data.Name,
		Address: ctx.Data.Address,
		Phone:   ctx.Data.Phone,
		Product: ctx.Data.Product,
		Qty:     ctx.Data.Qty,
		Notes:   ctx.Data.Notes,
		Handle:  ctx.Data.Handle,
	})
	if err != nil {
		slog.Error("Failed to create order", "error", err, "userID", ctx.UserID)
		ctx.Transition(fsm.StepAwaitingNotes, ctx.Data)
		return ctx.SendMessage(presentation.OrderSaveErrorMsg(), presentation.SkipCancelKbd())
	}

	b.notifyAdmin(ctx.Ctx, resp)
	slog.Info("Order completed", "userID", ctx.UserID, "reference", resp.Reference)
	return ctx.Complete(presentation.OrderConfirmedMsg(), presentation.MenuKbd())
}

func (b *Bot) notifyAdmin(ctx context.Context, resp *order.ResponseOrder) {
	if b.adminID == 0 {
		return
	}
	_, err := b.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    b.adminID,
		Text:      presentation.AdminOrderMsg(resp),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		slog.Error("Failed to notify admin", "error", err, "reference", resp.Reference)
	}
}
