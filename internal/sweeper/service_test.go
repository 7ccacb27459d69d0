package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	pending [][]int64
	calls   int
}

func (s *fakeStore) ExpireIdle(ttl time.Duration) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.pending) == 0 {
		return nil
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	return next
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSweep_NotifiesExpiredUsers(t *testing.T) {
	store := &fakeStore{pending: [][]int64{{1, 2}}}
	var notified []int64
	svc := NewDefaultService(store, func(_ context.Context, userID int64) {
		notified = append(notified, userID)
	}, clock.NewMock(), 30*time.Minute, 5*time.Minute)

	assert.Equal(t, 2, svc.Sweep(context.Background()))
	assert.Equal(t, 0, svc.Sweep(context.Background()))

	assert.Equal(t, []int64{1, 2}, notified)
	assert.Equal(t, int64(2), svc.Expired())
}

func TestSweep_NilNotify(t *testing.T) {
	store := &fakeStore{pending: [][]int64{{1}}}
	svc := NewDefaultService(store, nil, clock.NewMock(), time.Minute, time.Minute)

	assert.Equal(t, 1, svc.Sweep(context.Background()))
}

func TestStartStop(t *testing.T) {
	mock := clock.NewMock()
	store := &fakeStore{}
	svc := NewDefaultService(store, nil, mock, 30*time.Minute, 5*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	// Give the loop goroutine time to block on the ticker.
	time.Sleep(10 * time.Millisecond)
	mock.Add(5 * time.Minute)
	assert.Eventually(t, func() bool { return store.callCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, svc.Stop(stopCtx))
}
