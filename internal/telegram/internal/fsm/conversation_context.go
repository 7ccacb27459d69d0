package fsm

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ConversationContext[T StateData] struct {
	Ctx    context.Context
	Sender Sender
	Event  Event
	UserID int64
	Data   T
	router *Router
	step   ConversationStep
}

func (c *ConversationContext[T]) SendMessage(text string, markup models.ReplyMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    c.Event.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	_, err := c.Sender.SendMessage(c.Ctx, params)
	return err
}

func (c *ConversationContext[T]) AnswerCallback() error {
	if !c.Event.IsCallback() {
		return nil
	}
	_, err := c.Sender.AnswerCallbackQuery(c.Ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: c.Event.CallbackID,
	})
	return err
}

func (c *ConversationContext[T]) Step() ConversationStep {
	return c.step
}

func (c *ConversationContext[T]) Transition(nextStep ConversationStep, data StateData) {
	c.router.Transition(c.UserID, nextStep, data)
	c.step = nextStep
}

func (c *ConversationContext[T]) Complete(text string, markup models.ReplyMarkup) error {
	c.Transition(StepIdle, &IdleData{})
	return c.SendMessage(text, markup)
}
