package telegram

import (
	"context"

	"bazarino-order-bot/internal/telegram/internal/fsm"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/ratelimit"
)

// throttledSender keeps outgoing calls under the Bot API flood limit.
type throttledSender struct {
	next    fsm.Sender
	limiter ratelimit.Limiter
}

func newThrottledSender(next fsm.Sender, perSecond int) fsm.Sender {
	return &throttledSender{
		next:    next,
		limiter: ratelimit.New(perSecond),
	}
}

func (s *throttledSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.limiter.Take()
	return s.next.SendMessage(ctx, params)
}

func (s *throttledSender) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	s.limiter.Take()
	return s.next.AnswerCallbackQuery(ctx, params)
}

func (s *throttledSender) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	s.limiter.Take()
	return s.next.SendPhoto(ctx, params)
}
