package fsm

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSM_UsersAreIsolated(t *testing.T) {
	f := NewFSM(clock.NewMock())

	f.SetState(1, StepAwaitingAddress, &OrderData{Name: "Ali"})

	assert.Equal(t, StepAwaitingAddress, f.GetOrCreateState(1).Step)
	assert.Equal(t, StepIdle, f.GetOrCreateState(2).Step)
	assert.IsType(t, &IdleData{}, f.GetOrCreateState(2).Data)
}

func TestFSM_SetStateKeepsDataWhenNil(t *testing.T) {
	f := NewFSM(clock.NewMock())
	data := &OrderData{Name: "Ali"}

	f.SetState(1, StepAwaitingAddress, data)
	f.SetState(1, StepAwaitingPhone, nil)

	state := f.GetOrCreateState(1)
	assert.Equal(t, StepAwaitingPhone, state.Step)
	assert.Same(t, data, state.Data)
}

func TestFSM_ResetState(t *testing.T) {
	f := NewFSM(clock.NewMock())
	f.SetState(1, StepAwaitingQty, &OrderData{Name: "Ali"})

	assert.Equal(t, StepAwaitingQty, f.ResetState(1))
	assert.Equal(t, StepIdle, f.ResetState(1))
	assert.IsType(t, &IdleData{}, f.GetOrCreateState(1).Data)
}

func TestFSM_Accept(t *testing.T) {
	f := NewFSM(clock.NewMock())

	assert.True(t, f.Accept(1, 10))
	assert.False(t, f.Accept(1, 10))
	assert.False(t, f.Accept(1, 9))
	assert.True(t, f.Accept(1, 11))
	assert.True(t, f.Accept(2, 5))
}

func TestFSM_ExpireIdle(t *testing.T) {
	mock := clock.NewMock()
	f := NewFSM(mock)

	f.SetState(1, StepAwaitingName, &OrderData{})
	f.GetOrCreateState(2)
	mock.Add(10 * time.Minute)
	f.SetState(3, StepAwaitingPhone, &OrderData{})
	mock.Add(25 * time.Minute)

	expired := f.ExpireIdle(30 * time.Minute)

	assert.Equal(t, []int64{1}, expired)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, StepIdle, f.GetOrCreateState(1).Step)
	assert.Equal(t, StepAwaitingPhone, f.GetOrCreateState(3).Step)

	assert.Empty(t, f.ExpireIdle(30*time.Minute))
	assert.Equal(t, 1, f.Len())
}

func TestFSM_ExpireIdleKeepsRecentUpdateIDs(t *testing.T) {
	mock := clock.NewMock()
	f := NewFSM(mock)

	f.GetOrCreateState(1)
	mock.Add(time.Hour)
	require.True(t, f.Accept(1, 10))

	assert.Empty(t, f.ExpireIdle(30*time.Minute))
	assert.False(t, f.Accept(1, 10), "redelivered update must stay rejected after a sweep")

	mock.Add(31 * time.Minute)
	f.ExpireIdle(30 * time.Minute)
	assert.Zero(t, f.Len())
}

func TestFSM_Expired(t *testing.T) {
	mock := clock.NewMock()
	f := NewFSM(mock)

	state := f.GetOrCreateState(1)
	assert.False(t, f.Expired(state, time.Minute))

	mock.Add(time.Minute)
	assert.True(t, f.Expired(state, time.Minute))
	assert.False(t, f.Expired(state, 0))
}

func TestFSM_LockSerializesUser(t *testing.T) {
	f := NewFSM(clock.NewMock())

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := f.Lock(1)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, 50, counter)
	f.locksMu.Lock()
	defer f.locksMu.Unlock()
	assert.Empty(t, f.locks)
}

func TestFSM_ExpireIdleSkipsBusyUsers(t *testing.T) {
	mock := clock.NewMock()
	f := NewFSM(mock)

	f.SetState(1, StepAwaitingName, &OrderData{})
	mock.Add(time.Hour)

	unlock := f.Lock(1)
	assert.Empty(t, f.ExpireIdle(30*time.Minute))
	unlock()

	assert.Equal(t, []int64{1}, f.ExpireIdle(30*time.Minute))
}
