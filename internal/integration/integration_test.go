package integration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/unfocus/internal/adapters/export"
	"github.com/xvierd/unfocus/internal/adapters/storage"
	"github.com/xvierd/unfocus/internal/commands"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
	"github.com/xvierd/unfocus/internal/services"
)

// firstRand always picks the first candidate.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// app is one process lifetime: a store opened on the shared database file
// and a controller loaded from it.
type app struct {
	store ports.Storage
	ctrl  *services.Controller
}

// open opens the database at dbPath the way the CLI does.
func open(t *testing.T, dbPath string, clk *clock) *app {
	t.Helper()

	store, err := storage.New(dbPath)
	require.NoError(t, err, "failed to create storage")

	ctrl := services.NewController(storage.WithPrefix(store.KV(), "unfocus-"), store.History())
	ctrl.SetClock(clk.Now)
	ctrl.SetRandom(firstRand{})
	ctrl.Load(context.Background())

	return &app{store: store, ctrl: ctrl}
}

func (a *app) close(t *testing.T) {
	t.Helper()
	require.NoError(t, a.store.Close())
}

// tickN advances the controller and the clock n seconds.
func tickN(ctx context.Context, a *app, clk *clock, n int) {
	for i := 0; i < n; i++ {
		clk.Advance(time.Second)
		a.ctrl.Tick(ctx)
	}
}

// TestDayAcrossRestarts drives a full session, restarts, and checks that
// settings, stats and history survive and that the daily rules apply.
func TestDayAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "unfocus.db")
	clk := &clock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}

	// Day 1: one-minute interval, one automatic break, then end.
	a := open(t, dbPath, clk)
	interval := 1
	require.NoError(t, a.ctrl.UpdateSettings(ctx, domain.SettingsPatch{Interval: &interval}))
	require.NoError(t, a.ctrl.StartSession(ctx))

	tickN(ctx, a, clk, 59)
	require.Equal(t, domain.ScreenAmbient, a.ctrl.Snapshot().Screen)
	tickN(ctx, a, clk, 1)

	snap := a.ctrl.Snapshot()
	require.Equal(t, domain.ScreenBreak, snap.Screen)
	require.NotNil(t, snap.ActiveBreak)
	assert.Equal(t, domain.BreakEyes, snap.ActiveBreak.Type)

	tickN(ctx, a, clk, snap.ActiveBreak.DurationSeconds)
	snap = a.ctrl.Snapshot()
	assert.Equal(t, domain.ScreenAmbient, snap.Screen, "break auto-completes at its duration")
	assert.Equal(t, 60, snap.RemainingSeconds)
	assert.Equal(t, 1, snap.Stats.BreaksTaken)
	assert.Equal(t, 20, snap.Stats.PresenceSeconds)
	assert.Equal(t, 1, snap.Stats.StreakDays)

	require.NoError(t, a.ctrl.EndSession(ctx))
	a.close(t)

	// Same day, new process: everything persisted.
	a = open(t, dbPath, clk)
	snap = a.ctrl.Snapshot()
	assert.Equal(t, domain.ScreenSetup, snap.Screen)
	assert.Equal(t, 1, snap.Settings.Interval)
	assert.Equal(t, 1, snap.Stats.BreaksTaken)
	assert.Equal(t, 1, snap.Stats.StreakDays)

	sessions, err := a.store.History().FindSessions(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].BreaksTaken)
	assert.Equal(t, 20, sessions[0].PresenceSeconds)
	a.close(t)

	// Day 2: today's counters roll over, the streak grows on start.
	clk.Advance(24 * time.Hour)
	a = open(t, dbPath, clk)
	snap = a.ctrl.Snapshot()
	assert.Zero(t, snap.Stats.BreaksTaken, "counters roll over on load")
	assert.Equal(t, 1, snap.Stats.StreakDays)

	require.NoError(t, a.ctrl.StartSession(ctx))
	assert.Equal(t, 2, a.ctrl.Snapshot().Stats.StreakDays)
	require.NoError(t, a.ctrl.EndSession(ctx))
	a.close(t)

	// Day 5: a gap of more than one day resets the streak.
	clk.Advance(3 * 24 * time.Hour)
	a = open(t, dbPath, clk)
	assert.Zero(t, a.ctrl.Snapshot().Stats.StreakDays)
	require.NoError(t, a.ctrl.StartSession(ctx))
	assert.Equal(t, 1, a.ctrl.Snapshot().Stats.StreakDays)

	totals, err := a.ctrl.DailyTotals(ctx, domain.DaysBack(clk.Now(), 7))
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "2026-03-14", totals[0].Date)
	assert.Equal(t, 1, totals[0].BreaksTaken)
	a.close(t)
}

// TestPromptSessionAndExport runs a session from the prompt and exports the
// history it produced.
func TestPromptSessionAndExport(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "unfocus.db")
	clk := &clock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}

	a := open(t, dbPath, clk)
	defer a.close(t)

	interp := commands.New(a.ctrl)

	run := func(line string) commands.Result {
		t.Helper()
		return interp.Execute(ctx, line)
	}

	for _, line := range []string{"/interval 20", "/start", "/hydrate"} {
		for _, l := range run(line).Lines {
			require.NotEqual(t, commands.LineError, l.Kind, "%s: %s", line, l.Text)
		}
	}

	snap := a.ctrl.Snapshot()
	require.Equal(t, domain.ScreenBreak, snap.Screen)
	assert.Equal(t, domain.BreakHydration, snap.ActiveBreak.Type)
	assert.Equal(t, 20, snap.Settings.Interval)

	// A second start from the prompt is refused and changes nothing.
	res := run("/start")
	require.NotEmpty(t, res.Lines)
	assert.Equal(t, commands.LineError, res.Lines[len(res.Lines)-1].Kind)
	assert.Equal(t, domain.ScreenBreak, a.ctrl.Snapshot().Screen)

	run("/skip")
	run("/break")
	run("/done")

	snap = a.ctrl.Snapshot()
	assert.Equal(t, domain.ScreenAmbient, snap.Screen)
	assert.Equal(t, 1, snap.Stats.BreaksTaken)
	assert.Equal(t, domain.BreakEyes, snap.LastBreakType, "random pick excludes the previous type")

	breaks, err := a.ctrl.RecentBreaks(ctx, domain.DaysBack(clk.Now(), 1))
	require.NoError(t, err)
	require.Len(t, breaks, 2)
	assert.Equal(t, domain.OutcomeSkipped, breaks[0].Outcome)
	assert.Equal(t, domain.OutcomeCompleted, breaks[1].Outcome)

	// The export sees the same history the prompt produced.
	sessions, err := a.store.History().FindSessions(ctx, time.Time{})
	require.NoError(t, err)
	doc := export.NewDocument(clk.Now(), domain.DaysBack(clk.Now(), 1), snap.Stats, nil, sessions, breaks)

	var sb strings.Builder
	require.NoError(t, export.Write(&sb, export.FormatJSON, doc))

	var decoded export.Document
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &decoded))
	assert.Len(t, decoded.Breaks, 2)
	assert.Equal(t, 1, decoded.Today.BreaksTaken)
	assert.Equal(t, "2026-03-14", decoded.Since)
}
