package fsm

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type FSM struct {
	states  map[int64]State
	mu      *sync.RWMutex
	locks   map[int64]*userLock
	locksMu sync.Mutex
	clock   clock.Clock
}

type State struct {
	Step         ConversationStep
	Data         StateData
	UpdatedAt    time.Time
	LastUpdateID int64
	AcceptedAt   time.Time
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewFSM(clk clock.Clock) *FSM {
	if clk == nil {
		clk = clock.New()
	}
	return &FSM{
		states: make(map[int64]State),
		mu:     &sync.RWMutex{},
		locks:  make(map[int64]*userLock),
		clock:  clk,
	}
}

func (f *FSM) GetOrCreateState(userID int64) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.getOrCreate(userID)
}

func (f *FSM) getOrCreate(userID int64) State {
	state, ok := f.states[userID]
	if !ok {
		state = State{
			Step:      StepIdle,
			Data:      &IdleData{},
			UpdatedAt: f.clock.Now(),
		}
		f.states[userID] = state
	}
	return state
}

func (f *FSM) SetState(userID int64, step ConversationStep, data StateData) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.getOrCreate(userID)
	state.Step = step
	if data != nil {
		state.Data = data
	}
	state.UpdatedAt = f.clock.Now()
	f.states[userID] = state
}

// ResetState returns the user to StepIdle and reports the step it was in.
func (f *FSM) ResetState(userID int64) ConversationStep {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.getOrCreate(userID)
	previous := state.Step
	state.Step = StepIdle
	state.Data = &IdleData{}
	state.UpdatedAt = f.clock.Now()
	f.states[userID] = state

	return previous
}

// Accept records updateID as the latest update seen for the user. Duplicate and
// out-of-order IDs are rejected.
func (f *FSM) Accept(userID, updateID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.getOrCreate(userID)
	if updateID <= state.LastUpdateID {
		return false
	}
	state.LastUpdateID = updateID
	state.AcceptedAt = f.clock.Now()
	f.states[userID] = state
	return true
}

func (f *FSM) Expired(state State, ttl time.Duration) bool {
	return ttl > 0 && f.clock.Since(state.UpdatedAt) >= ttl
}

// ExpireIdle resets conversations untouched for ttl and returns the users whose
// unfinished conversation was dropped. Users with an update in flight are
// skipped. An idle user is forgotten only once both its state and its last
// accepted update are older than ttl, so redelivered updates stay rejected.
func (f *FSM) ExpireIdle(ttl time.Duration) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locksMu.Lock()
	defer f.locksMu.Unlock()

	var expired []int64
	for userID, state := range f.states {
		if !f.Expired(state, ttl) {
			continue
		}
		if _, busy := f.locks[userID]; busy {
			continue
		}
		if state.Step != StepIdle {
			expired = append(expired, userID)
			state.Step = StepIdle
			state.Data = &IdleData{}
			f.states[userID] = state
			continue
		}
		if f.clock.Since(state.AcceptedAt) >= ttl {
			delete(f.states, userID)
		}
	}
	return expired
}

func (f *FSM) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.states)
}

// Lock serializes work on a single user's conversation. The returned func releases it.
func (f *FSM) Lock(userID int64) func() {
	f.locksMu.Lock()
	l, ok := f.locks[userID]
	if !ok {
		l = &userLock{}
		f.locks[userID] = l
	}
	l.refs++
	f.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		f.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(f.locks, userID)
		}
		f.locksMu.Unlock()
	}
}
