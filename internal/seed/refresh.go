package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sadopc/agenda/internal/events"
	appLog "github.com/sadopc/agenda/internal/log"
)

// Refresher re-fetches a seed source on a cron schedule and hands the result
// to deliver. deliver runs on the cron goroutine; callers forward it to
// whatever owns the event store.
type Refresher struct {
	src     events.SeedSource
	deliver func([]events.Event, error)
	timeout time.Duration

	cron *cron.Cron

	mu      sync.Mutex
	running bool
}

func NewRefresher(src events.SeedSource, schedule string, deliver func([]events.Event, error)) (*Refresher, error) {
	if src == nil {
		return nil, fmt.Errorf("refresher needs a seed source")
	}
	r := &Refresher{
		src:     src,
		deliver: deliver,
		timeout: 30 * time.Second,
		cron:    cron.New(),
	}
	if _, err := r.cron.AddFunc(schedule, r.RunOnce); err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// RunOnce fetches immediately. Overlapping runs are skipped.
func (r *Refresher) RunOnce() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		appLog.Debug("seed refresh skipped, previous run still active")
		return
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	evs, err := r.src.Fetch(ctx)
	if err != nil {
		appLog.Error("seed refresh failed", err)
	} else {
		appLog.Info("seed refreshed", "event_count", len(evs))
	}
	if r.deliver != nil {
		r.deliver(evs, err)
	}
}

func (r *Refresher) Start() { r.cron.Start() }

// Stop halts the schedule and waits for a running fetch to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
