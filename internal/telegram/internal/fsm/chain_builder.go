package fsm

import (
	"errors"
	"fmt"
)

var (
	IncompatibleHandler = errors.New("incompatible handler")
	ErrUnexpectedState  = errors.New("unexpected state data")
)

type TextHandler[T StateData] func(*ConversationContext[T], string) error

type CallbackHandler[T StateData] func(*ConversationContext[T], string) error

type PhotoHandler[T StateData] func(*ConversationContext[T], Photo) error

func Chain[T StateData](router *Router, name string, initialStep ConversationStep) *ChainDefinition[T] {
	return &ChainDefinition[T]{
		name:    name,
		router:  router,
		current: initialStep,
	}
}

type ChainDefinition[T StateData] struct {
	name    string
	router  *Router
	current ConversationStep
}

func (c *ChainDefinition[T]) OnText(handler TextHandler[T]) *ChainDefinition[T] {
	c.router.RegisterHandler(c.current, func(ctx *ConversationContext[StateData]) error {
		if ctx.Event.IsCallback() || ctx.Event.Text == "" {
			return IncompatibleHandler
		}
		typedCtx, err := c.typed(ctx)
		if err != nil {
			return err
		}
		return handler(typedCtx, ctx.Event.Text)
	})
	return c
}

func (c *ChainDefinition[T]) OnCallback(handler CallbackHandler[T]) *ChainDefinition[T] {
	c.router.RegisterHandler(c.current, func(ctx *ConversationContext[StateData]) error {
		if !ctx.Event.IsCallback() {
			return IncompatibleHandler
		}
		typedCtx, err := c.typed(ctx)
		if err != nil {
			return err
		}
		return handler(typedCtx, ctx.Event.CallbackData)
	})
	return c
}

func (c *ChainDefinition[T]) OnPhoto(handler PhotoHandler[T]) *ChainDefinition[T] {
	c.router.RegisterHandler(c.current, func(ctx *ConversationContext[StateData]) error {
		if !ctx.Event.HasPhoto() {
			return IncompatibleHandler
		}
		typedCtx, err := c.typed(ctx)
		if err != nil {
			return err
		}
		return handler(typedCtx, *ctx.Event.Photo)
	})
	return c
}

func (c *ChainDefinition[T]) Then(nextStep ConversationStep) *ChainDefinition[T] {
	c.current = nextStep
	return c
}

func (c *ChainDefinition[T]) typed(ctx *ConversationContext[StateData]) (*ConversationContext[T], error) {
	typedData, ok := ctx.Data.(T)
	if !ok {
		ctx.router.Transition(ctx.UserID, StepIdle, &IdleData{})
		return nil, fmt.Errorf("%s: %w %T at step %s", c.name, ErrUnexpectedState, ctx.Data, ctx.step)
	}
	return &ConversationContext[T]{
		Ctx:    ctx.Ctx,
		Sender: ctx.Sender,
		Event:  ctx.Event,
		UserID: ctx.UserID,
		Data:   typedData,
		router: ctx.router,
		step:   ctx.step,
	}, nil
}
