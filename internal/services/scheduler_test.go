package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/unfocus/internal/domain"
)

type countingTicker struct {
	ticks atomic.Int32
}

func (c *countingTicker) Tick(ctx context.Context) {
	c.ticks.Add(1)
}

func (c *countingTicker) Snapshot() domain.Snapshot {
	return domain.Snapshot{RemainingSeconds: int(c.ticks.Load())}
}

func TestScheduler_RunTicksUntilCancelled(t *testing.T) {
	target := &countingTicker{}
	s := NewScheduler(target)
	s.SetInterval(5 * time.Millisecond)

	var observed atomic.Int32
	s.OnTick(func(snap domain.Snapshot) {
		observed.Store(int32(snap.RemainingSeconds))
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return target.ticks.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	stopped := target.ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, target.ticks.Load())
	assert.Positive(t, observed.Load())
}

func TestScheduler_DrivesController(t *testing.T) {
	f := setupController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setInterval(t, f.ctrl, 1)
	assert.NoError(t, f.ctrl.StartSession(ctx))

	s := NewScheduler(f.ctrl)
	s.SetInterval(time.Millisecond)
	go func() { _ = s.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return f.ctrl.Snapshot().LastBreakType != ""
	}, 5*time.Second, 5*time.Millisecond)
}

func TestScheduler_IgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler(&countingTicker{})
	s.SetInterval(0)
	assert.Equal(t, time.Second, s.interval)
}
