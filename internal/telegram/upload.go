package telegram

import (
	"context"
	"log/slog"

	"bazarino-order-bot/internal/order"
	"bazarino-order-bot/internal/telegram/internal/fsm"
	"bazarino-order-bot/internal/telegram/internal/presentation"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const maxPhotoSize = 2 * 1024 * 1024

func (b *Bot) SetupUploadFlow() {
	fsm.Chain[*fsm.UploadData](b.router, "photo_upload", fsm.StepAwaitingPhoto).
		OnPhoto(b.handlePhoto).
		OnText(func(ctx *fsm.ConversationContext[*fsm.UploadData], _ string) error {
			return ctx.SendMessage(presentation.PhotoExpectedMsg(), presentation.CancelKbd())
		})
}

func (b *Bot) handleUploadStart(ctx context.Context, event fsm.Event) {
	if b.router.Cancel(event.UserID) {
		slog.Info("Abandoning conversation for photo upload", "userID", event.UserID)
	}
	b.router.Transition(event.UserID, fsm.StepAwaitingPhoto, &fsm.UploadData{Handle: event.Handle()})

	b.reply(ctx, event.ChatID, presentation.AskPhotoMsg(), presentation.CancelKbd())
}

func (b *Bot) handlePhoto(ctx *fsm.ConversationContext[*fsm.UploadData], photo fsm.Photo) error {
	if photo.FileSize > maxPhotoSize {
		slog.Info("Rejecting oversized photo", "userID", ctx.UserID, "size", photo.FileSize)
		return ctx.Complete(presentation.PhotoTooLargeMsg(), presentation.MenuKbd())
	}

	resp, err := b.orderService.NewUpload(ctx.Ctx, order.RequestNewUpload{
		UserID: ctx.UserID,
		Handle: ctx.Data.Handle,
		FileID: photo.FileID,
		Note:   photo.Caption,
	})
	if err != nil {
		slog.Error("Failed to save photo upload", "error", err, "userID", ctx.UserID)
		return ctx.Complete(presentation.UploadErrorMsg(), presentation.MenuKbd())
	}

	b.forwardPhoto(ctx.Ctx, resp)
	slog.Info("Photo uploaded", "userID", ctx.UserID)
	return ctx.Complete(presentation.PhotoUploadedMsg(), presentation.MenuKbd())
}

func (b *Bot) forwardPhoto(ctx context.Context, resp *order.ResponseUpload) {
	if b.adminID == 0 {
		return
	}
	_, err := b.sender.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    b.adminID,
		Photo:     &models.InputFileString{Data: resp.Record.FileID},
		Caption:   presentation.AdminPhotoCaption(resp),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		slog.Error("Failed to forward photo to admin", "error", err, "userID", resp.Record.UserID)
	}
}
