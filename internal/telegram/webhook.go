package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
)

const webhookPath = "/webhook/"

// WebhookServer receives Telegram updates over HTTPS and answers keep-alive probes.
type WebhookServer struct {
	srv *http.Server
}

func NewWebhookServer(port int, secret string, updates http.Handler) *WebhookServer {
	return &WebhookServer{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           setupRouter(secret, updates),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func setupRouter(secret string, updates http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})

	r.POST(webhookPath+":secret", func(c *gin.Context) {
		if c.Param("secret") != secret {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		updates.ServeHTTP(c.Writer, c.Request)
	})

	return r
}

func (s *WebhookServer) Start() {
	go func() {
		slog.Info("Started webhook server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Webhook server failed", "error", err)
		}
	}()
}

func (s *WebhookServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// WebhookURL joins the public base URL with the secret webhook path.
func WebhookURL(baseURL, secret string) string {
	return strings.TrimRight(baseURL, "/") + webhookPath + secret
}

func (b *Bot) RegisterWebhook(ctx context.Context, baseURL, secret string) error {
	_, err := b.api.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         WebhookURL(baseURL, secret),
		SecretToken: secret,
	})
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	slog.Info("Registered webhook", "baseURL", baseURL)
	return nil
}

func (b *Bot) UnregisterWebhook(ctx context.Context) {
	if _, err := b.api.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
		slog.Error("Failed to delete webhook", "error", err)
	}
}
