package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
)

// Store is the conversation store swept for stale entries.
type Store interface {
	ExpireIdle(ttl time.Duration) []int64
}

type NotifyFunc func(ctx context.Context, userID int64)

type Service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Sweep(ctx context.Context) int
	Expired() int64
}

type DefaultService struct {
	store    Store
	notify   NotifyFunc
	clock    clock.Clock
	ttl      time.Duration
	interval time.Duration
	expired  *atomic.Int64
	wg       *sync.WaitGroup
}

func NewDefaultService(store Store, notify NotifyFunc, clk clock.Clock, ttl, interval time.Duration) Service {
	if clk == nil {
		clk = clock.New()
	}
	return &DefaultService{
		store:    store,
		notify:   notify,
		clock:    clk,
		ttl:      ttl,
		interval: interval,
		expired:  atomic.NewInt64(0),
		wg:       &sync.WaitGroup{},
	}
}

func (d *DefaultService) Start(ctx context.Context) {
	d.startSweepLoop(ctx)
	slog.Info("Started sweeper service", "interval", d.interval, "ttl", d.ttl)
}

func (d *DefaultService) Stop(ctx context.Context) error {
	stop := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(stop)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stop:
		return nil
	}
}

func (d *DefaultService) startSweepLoop(ctx context.Context) {
	ticker := d.clock.Ticker(d.interval)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.Sweep(ctx)
			}
		}
	}()
}

// Sweep drops conversations idle for longer than the ttl and returns how many
// unfinished orders were discarded.
func (d *DefaultService) Sweep(ctx context.Context) int {
	userIDs := d.store.ExpireIdle(d.ttl)
	if len(userIDs) == 0 {
		return 0
	}

	d.expired.Add(int64(len(userIDs)))
	slog.Info("Expired idle conversations", "count", len(userIDs), "total", d.expired.Load())

	if d.notify != nil {
		for _, userID := range userIDs {
			d.notify(ctx, userID)
		}
	}
	return len(userIDs)
}

func (d *DefaultService) Expired() int64 {
	return d.expired.Load()
}
