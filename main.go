package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazarino-order-bot/internal/order"
	"bazarino-order-bot/internal/pkg/config"
	"bazarino-order-bot/internal/sweeper"
	"bazarino-order-bot/internal/telegram"

	"github.com/benbjohnson/clock"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	orderRepo, err := newOrderRepo(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	clk := clock.New()
	orderService := order.NewDefaultService(orderRepo, clk)

	bot, err := telegram.NewBot(orderService, clk, cfg)
	if err != nil {
		log.Fatal(err)
	}

	var webhookServer *telegram.WebhookServer
	if cfg.UseWebhook() {
		if err := bot.RegisterWebhook(ctx, cfg.Webhook.BaseURL, cfg.Webhook.Secret); err != nil {
			log.Fatal(err)
		}
		webhookServer = telegram.NewWebhookServer(cfg.Webhook.Port, cfg.Webhook.Secret, bot.API().WebhookHandler())
		webhookServer.Start()
	} else {
		// A webhook left over from a previous deployment blocks getUpdates.
		bot.UnregisterWebhook(ctx)
	}
	bot.Start(ctx)

	sweeperService := sweeper.NewDefaultService(bot.FSM(), bot.NotifyExpired, clk, cfg.Conversation.IdleTimeout, cfg.Conversation.SweepInterval)
	sweeperService.Start(ctx)

	<-ctx.Done()
	slog.Info("Shutting down...")
	ctx, shutdown := context.WithTimeout(context.Background(), time.Second*15)
	defer shutdown()

	if err := sweeperService.Stop(ctx); err != nil {
		slog.Error("Failed to stop sweeper", "error", err)
	}

	if webhookServer != nil {
		bot.UnregisterWebhook(ctx)
		if err := webhookServer.Shutdown(ctx); err != nil {
			slog.Error("Failed to stop webhook server", "error", err)
		}
	}

	if err := bot.Stop(ctx); err != nil {
		slog.Error("Failed to wait for in-flight updates", "error", err)
	}

	if err := orderRepo.Close(); err != nil {
		slog.Error("Failed to close order repo", "error", err)
	}
}

func newOrderRepo(ctx context.Context, cfg *config.Config) (order.Repo, error) {
	switch cfg.RowStore.Kind {
	case config.RowStorePostgres:
		return order.NewPostgresRepo(ctx, cfg.RowStore.DatabaseURL)
	case config.RowStoreSheets:
		sheetsSvc, driveSvc, err := order.NewGoogleServices(ctx, cfg.RowStore.CredentialsPath)
		if err != nil {
			return nil, err
		}
		spreadsheetID := cfg.RowStore.SpreadsheetID
		if spreadsheetID == "" {
			spreadsheetID, err = order.ResolveSpreadsheetID(ctx, driveSvc, cfg.RowStore.SpreadsheetName)
			if err != nil {
				return nil, err
			}
		}
		return order.NewSheetsRepo(ctx, sheetsSvc, spreadsheetID, order.Worksheets{
			Orders:  cfg.Sheets.Orders.Name,
			Uploads: cfg.Sheets.Uploads.Name,
		})
	default:
		return nil, fmt.Errorf("%w: %s", order.ErrUnknownRowStore, cfg.RowStore.Kind)
	}
}
