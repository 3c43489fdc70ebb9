package services

import (
	"context"
	"time"

	"github.com/xvierd/unfocus/internal/domain"
)

// Tickable is anything driven by the scheduler.
type Tickable interface {
	Tick(ctx context.Context)
	Snapshot() domain.Snapshot
}

// Scheduler drives a Tickable once per interval until its context ends.
type Scheduler struct {
	target   Tickable
	interval time.Duration
	onTick   func(domain.Snapshot)
}

// NewScheduler creates a 1 Hz scheduler for target.
func NewScheduler(target Tickable) *Scheduler {
	return &Scheduler{target: target, interval: time.Second}
}

// SetInterval overrides the tick period.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// OnTick registers a callback that receives the snapshot after every tick.
func (s *Scheduler) OnTick(fn func(domain.Snapshot)) {
	s.onTick = fn
}

// Run ticks until ctx is cancelled. It always returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.target.Tick(ctx)
			if s.onTick != nil {
				s.onTick(s.target.Snapshot())
			}
		}
	}
}
