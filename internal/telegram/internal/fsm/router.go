package fsm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type HandlerFunc func(ctx *ConversationContext[StateData]) error

type ExpireFunc func(ctx context.Context, sender Sender, event Event)

type ErrorFunc func(ctx context.Context, sender Sender, event Event, err error)

type Router struct {
	fsm         *FSM
	sender      Sender
	handlers    map[ConversationStep][]HandlerFunc
	passthrough map[string]struct{}
	mu          *sync.RWMutex
	idleTimeout time.Duration
	onExpire    ExpireFunc
	onError     ErrorFunc

	inflight *sync.WaitGroup
	drainMu  *sync.RWMutex
	draining bool
}

func NewRouter(fsm *FSM, idleTimeout time.Duration) *Router {
	return &Router{
		fsm:         fsm,
		handlers:    make(map[ConversationStep][]HandlerFunc),
		passthrough: make(map[string]struct{}),
		mu:          &sync.RWMutex{},
		idleTimeout: idleTimeout,
		inflight:    &sync.WaitGroup{},
		drainMu:     &sync.RWMutex{},
	}
}

func (r *Router) SetSender(sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = sender
}

func (r *Router) OnExpire(f ExpireFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpire = f
}

// OnError is called when a step handler fails.
func (r *Router) OnError(f ErrorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = f
}

// Passthrough marks texts that are never taken as a step answer, such as menu
// buttons that start a new conversation.
func (r *Router) Passthrough(texts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, text := range texts {
		r.passthrough[text] = struct{}{}
	}
}

// RegisterHandler adds a handler for step. Handlers of a step are tried in
// registration order until one does not return IncompatibleHandler.
func (r *Router) RegisterHandler(step ConversationStep, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[step] = append(r.handlers[step], handler)
}

func (r *Router) Middleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if !r.begin() {
			slog.Warn("Dropping update received during shutdown", "updateID", update.ID)
			return
		}
		defer r.inflight.Done()

		event, ok := NewEvent(update)
		if !ok {
			next(ctx, b, update)
			return
		}

		unlock := r.fsm.Lock(event.UserID)
		defer unlock()

		if r.dispatch(ctx, event) {
			return
		}
		next(ctx, b, update)
	}
}

func (r *Router) begin() bool {
	r.drainMu.RLock()
	defer r.drainMu.RUnlock()
	if r.draining {
		return false
	}
	r.inflight.Add(1)
	return true
}

// Drain stops accepting updates and waits for the ones being handled.
func (r *Router) Drain(ctx context.Context) error {
	r.drainMu.Lock()
	r.draining = true
	r.drainMu.Unlock()

	done := make(chan struct{})
	go func() {
		r.inflight.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Dispatch routes event to the handler of the user's current step and reports
// whether the event was consumed.
func (r *Router) Dispatch(ctx context.Context, event Event) bool {
	unlock := r.fsm.Lock(event.UserID)
	defer unlock()

	return r.dispatch(ctx, event)
}

func (r *Router) dispatch(ctx context.Context, event Event) bool {
	if event.UpdateID != 0 && !r.fsm.Accept(event.UserID, event.UpdateID) {
		slog.Warn("Dropping duplicate or out-of-order update", "userID", event.UserID, "updateID", event.UpdateID)
		return true
	}

	r.mu.RLock()
	sender, onExpire, onError := r.sender, r.onExpire, r.onError
	_, passthrough := r.passthrough[event.Text]
	r.mu.RUnlock()

	state := r.fsm.GetOrCreateState(event.UserID)
	if state.Step != StepIdle && r.fsm.Expired(state, r.idleTimeout) {
		slog.Info("Conversation expired", "userID", event.UserID, "step", state.Step)
		r.fsm.ResetState(event.UserID)
		if onExpire != nil {
			onExpire(ctx, sender, event)
		}
		state = r.fsm.GetOrCreateState(event.UserID)
	}

	if state.Step == StepIdle || event.IsCommand() || (passthrough && !event.IsCallback()) {
		return false
	}

	r.mu.RLock()
	handlers := r.handlers[state.Step]
	r.mu.RUnlock()

	if len(handlers) == 0 {
		slog.Warn("No handler for conversation step", "userID", event.UserID, "step", state.Step)
		r.fsm.ResetState(event.UserID)
		return false
	}

	convCtx := &ConversationContext[StateData]{
		Ctx:    ctx,
		Sender: sender,
		Event:  event,
		UserID: event.UserID,
		Data:   state.Data,
		router: r,
		step:   state.Step,
	}
	for _, handler := range handlers {
		err := handler(convCtx)
		if errors.Is(err, IncompatibleHandler) {
			continue
		}
		if err != nil {
			slog.Error("Conversation handler failed", "error", err, "userID", event.UserID, "step", state.Step)
			if onError != nil {
				onError(ctx, sender, event, err)
			}
		}
		return true
	}
	return false
}

func (r *Router) Transition(userID int64, nextStep ConversationStep, data StateData) {
	if nextStep == StepIdle {
		r.fsm.ResetState(userID)
		return
	}
	r.fsm.SetState(userID, nextStep, data)
}

// Cancel drops the user's conversation and reports whether one was in progress.
func (r *Router) Cancel(userID int64) bool {
	return r.fsm.ResetState(userID) != StepIdle
}

func (r *Router) Step(userID int64) ConversationStep {
	return r.fsm.GetOrCreateState(userID).Step
}
