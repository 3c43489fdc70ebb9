package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/unfocus/internal/adapters/export"
	"github.com/xvierd/unfocus/internal/adapters/storage"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/services"
)

// seedHistory writes two breaks, one session and today's stats into db
// before any command opens it.
func seedHistory(t *testing.T, db string) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.New(db)
	require.NoError(t, err)
	defer store.Close()

	// Anchor on today's early hours so every record lands on the same day.
	now := time.Now()
	base := domain.DateOf(now).Start(now.Location()).Add(3 * time.Hour)
	eyes, _ := domain.FindBreak(domain.DefaultCatalog(), domain.BreakEyes)
	breath, _ := domain.FindBreak(domain.DefaultCatalog(), domain.BreakBreath)

	require.NoError(t, store.History().RecordBreak(ctx, domain.NewBreakRecord("s1", eyes, domain.OutcomeCompleted, base.Add(-20*time.Minute))))
	require.NoError(t, store.History().RecordBreak(ctx, domain.NewBreakRecord("s1", breath, domain.OutcomeSkipped, base.Add(-10*time.Minute))))
	require.NoError(t, store.History().RecordSession(ctx, domain.SessionRecord{
		ID:          "s1",
		StartedAt:   base.Add(-90 * time.Minute),
		EndedAt:     base.Add(-5 * time.Minute),
		BreaksTaken: 1,
	}))

	stats := domain.Stats{
		BreaksTaken:     1,
		PresenceSeconds: eyes.DurationSeconds,
		StreakDays:      3,
		LastSessionDate: domain.DateOf(now),
	}
	kv := storage.WithPrefix(store.KV(), "unfocus-")
	require.NoError(t, storage.Save(ctx, kv, storage.KeyStats, stats))
}

func decodeStatus(t *testing.T, out string) statusJSON {
	t.Helper()
	var got statusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	return got
}

func TestStatusCmd(t *testing.T) {
	_, run := newTestEnv(t)

	out, err := run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Interval:      45 min")
	assert.Contains(t, out, "Theme:         Dracula")
	assert.Contains(t, out, "Breaks taken:  0")

	out, err = run("status", "--json")
	require.NoError(t, err)
	got := decodeStatus(t, out)
	assert.Equal(t, 45, got.Settings.Interval)
	assert.Equal(t, "dracula", got.Settings.ThemeID)
	assert.Equal(t, "Dracula", got.Theme)
}

func TestStatusCmd_SeededStats(t *testing.T) {
	db, run := newTestEnv(t)
	seedHistory(t, db)

	out, err := run("status", "--json")
	require.NoError(t, err)
	got := decodeStatus(t, out)
	assert.Equal(t, 1, got.Today.BreaksTaken)
	assert.Equal(t, 3, got.Today.StreakDays)
}

func TestConfigCmd_SetPersists(t *testing.T) {
	_, run := newTestEnv(t)

	out, err := run("config", "set", "interval", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "interval = 30 min")

	_, err = run("config", "set", "sound", "off")
	require.NoError(t, err)

	out, err = run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "interval       30 min")
	assert.Contains(t, out, "sound          off")

	out, err = run("status", "--json")
	require.NoError(t, err)
	got := decodeStatus(t, out)
	assert.Equal(t, 30, got.Settings.Interval)
	assert.False(t, got.Settings.SoundEnabled)
}

func TestConfigCmd_SetRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"interval zero", []string{"interval", "0"}, domain.ErrInvalidInterval},
		{"interval too large", []string{"interval", "1441"}, domain.ErrInvalidInterval},
		{"interval not a number", []string{"interval", "soon"}, domain.ErrInvalidInterval},
		{"unknown theme", []string{"theme", "solarized"}, domain.ErrUnknownTheme},
	}

	_, run := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(append([]string{"config", "set"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}

	out, err := run("status", "--json")
	require.NoError(t, err)
	got := decodeStatus(t, out)
	assert.Equal(t, 45, got.Settings.Interval, "rejected values must change nothing")
	assert.Equal(t, "dracula", got.Settings.ThemeID)
}

func TestParseSettingsPatch(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(t *testing.T, p domain.SettingsPatch)
		wantErr    bool
	}{
		{key: "interval", value: "20", check: func(t *testing.T, p domain.SettingsPatch) {
			require.NotNil(t, p.Interval)
			assert.Equal(t, 20, *p.Interval)
		}},
		{key: "interval", value: "90m", check: func(t *testing.T, p domain.SettingsPatch) {
			require.NotNil(t, p.Interval)
			assert.Equal(t, 90, *p.Interval)
		}},
		{key: "Sound", value: "on", check: func(t *testing.T, p domain.SettingsPatch) {
			require.NotNil(t, p.SoundEnabled)
			assert.True(t, *p.SoundEnabled)
		}},
		{key: "notify", value: "false", check: func(t *testing.T, p domain.SettingsPatch) {
			require.NotNil(t, p.NotificationsEnabled)
			assert.False(t, *p.NotificationsEnabled)
		}},
		{key: "theme", value: " nord ", check: func(t *testing.T, p domain.SettingsPatch) {
			require.NotNil(t, p.ThemeID)
			assert.Equal(t, "nord", *p.ThemeID)
		}},
		{key: "sound", value: "loud", wantErr: true},
		{key: "volume", value: "11", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			p, err := parseSettingsPatch(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestThemesCmd(t *testing.T) {
	_, run := newTestEnv(t)

	out, err := run("themes")
	require.NoError(t, err)
	for _, th := range domain.Themes() {
		assert.Contains(t, out, th.ID)
	}

	out, err = run("themes", "nord", "--json")
	require.NoError(t, err)

	var list []themeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, len(domain.Themes()))
	for _, th := range list {
		assert.Equal(t, th.ID == "nord", th.Selected, th.ID)
	}

	_, err = run("themes", "solarized")
	assert.ErrorIs(t, err, domain.ErrUnknownTheme)
}

func TestResetCmd(t *testing.T) {
	db, run := newTestEnv(t)
	seedHistory(t, db)

	rootCmd.SetIn(strings.NewReader("no\n"))
	resetFlags()
	out, _, err := executeCmd(rootCmd, "--db", db, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = run("status", "--json")
	require.NoError(t, err)
	assert.Equal(t, 1, decodeStatus(t, out).Today.BreaksTaken)

	out, err = run("reset", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Stats reset.")

	out, err = run("status", "--json")
	require.NoError(t, err)
	got := decodeStatus(t, out)
	assert.Zero(t, got.Today.BreaksTaken)
	assert.Zero(t, got.Today.StreakDays)

	// history survives a plain reset
	out, err = run("export", "--format", "csv", "--period", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "eyes")

	out, err = run("reset", "--force", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Stats and history cleared.")

	out, err = run("export", "--format", "csv", "--period", "all")
	require.NoError(t, err)
	assert.NotContains(t, out, "eyes")
}

func TestExportCmd_Formats(t *testing.T) {
	db, run := newTestEnv(t)
	seedHistory(t, db)

	t.Run("json", func(t *testing.T) {
		out, err := run("export", "--format", "json")
		require.NoError(t, err)

		var doc export.Document
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Len(t, doc.Breaks, 2)
		assert.Len(t, doc.Sessions, 1)
		assert.Equal(t, 1, doc.Today.BreaksTaken)
		assert.NotEmpty(t, doc.Since)
	})

	t.Run("csv", func(t *testing.T) {
		out, err := run("export", "--format", "csv", "--days", "1")
		require.NoError(t, err)

		rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, csvHeaderForTest, rows[0])
	})

	t.Run("markdown to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.md")
		out, err := run("export", "--output", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# unfocus export")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run("export", "--format", "xml")
		assert.Error(t, err)
	})

	t.Run("unknown period", func(t *testing.T) {
		_, err := run("export", "--period", "decade")
		assert.Error(t, err)
	})
}

var csvHeaderForTest = []string{"date", "time", "type", "outcome", "duration_sec", "session_id"}

func TestExportSince(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)

	tests := []struct {
		period string
		days   int
		want   time.Time
	}{
		{"week", 0, time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local)},
		{"", 0, time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local)},
		{"today", 0, time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)},
		{"month", 0, time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local)},
		{"all", 0, time.Time{}},
		{"all", 3, time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := exportSince(now, tt.period, tt.days)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestStatsCmd(t *testing.T) {
	db, run := newTestEnv(t)

	out, err := run("stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Last 7 days")
	assert.Contains(t, out, "No breaks recorded")

	seedHistory(t, db)
	out, err = run("stats", "--days", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Last 1 day")
	assert.Contains(t, out, "Breaks by day")
	assert.Contains(t, out, "(+1 skipped)")
	assert.Contains(t, out, "eye rest")
	assert.NotContains(t, out, "breathing", "skipped breaks are not favourites")
}

func TestSummaryCmd(t *testing.T) {
	db, run := newTestEnv(t)
	seedHistory(t, db)

	out, err := run("summary", "--quote", "rest is part of the work")
	require.NoError(t, err)
	assert.Contains(t, out, "U N F O C U S")
	assert.Contains(t, out, "rest is part of the work")
	assert.Contains(t, out, "3 days")
	assert.Contains(t, out, "1h 25m")
}

func TestWatchReporter(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	eyes, _ := domain.FindBreak(domain.DefaultCatalog(), domain.BreakEyes)

	var buf bytes.Buffer
	r := newWatchReporter(&buf, domain.Snapshot{Screen: domain.ScreenAmbient})

	r.report(domain.Snapshot{Screen: domain.ScreenAmbient, RemainingSeconds: 10, Now: now})
	assert.Empty(t, buf.String(), "no transition, no output")

	r.report(domain.Snapshot{Screen: domain.ScreenBreak, ActiveBreak: &eyes, Now: now})
	assert.Contains(t, buf.String(), "[10:00:00] eye rest")
	assert.Contains(t, buf.String(), eyes.Invitation)

	buf.Reset()
	r.report(domain.Snapshot{Screen: domain.ScreenBreak, ActiveBreak: &eyes, BreakElapsedSecs: 5, Now: now})
	assert.Empty(t, buf.String())

	r.report(domain.Snapshot{
		Screen:           domain.ScreenAmbient,
		Stats:            domain.Stats{BreaksTaken: 1},
		RemainingSeconds: 45 * 60,
		Now:              now.Add(20 * time.Second),
	})
	assert.Contains(t, buf.String(), "welcome back · 1 break today · next in 45:00")
}

func TestFinishSession_RecordsInterruptedSession(t *testing.T) {
	ctx := context.Background()

	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	prev := app
	t.Cleanup(func() { app = prev })
	app.storage = store
	app.controller = services.NewController(storage.WithPrefix(store.KV(), "unfocus-"), store.History())
	app.controller.Load(ctx)

	// Nothing running: closing the timer from setup records nothing.
	require.NoError(t, finishSession(ctx))
	sessions, err := store.History().FindSessions(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, sessions)

	tests := []struct {
		name  string
		setup func()
	}{
		{"quit from ambient", func() {}},
		{"quit during a break", func() { require.NoError(t, app.controller.TriggerBreak(ctx)) }},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, beginSession(ctx, 0))
			tt.setup()

			require.NoError(t, finishSession(ctx))
			assert.Equal(t, domain.ScreenSummary, app.controller.Snapshot().Screen)

			sessions, err := store.History().FindSessions(ctx, time.Time{})
			require.NoError(t, err)
			assert.Len(t, sessions, i+1)
		})
	}

	// Already on the summary: a second close does not record again.
	require.NoError(t, finishSession(ctx))
	sessions, err = store.History().FindSessions(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, sessions, len(tests))
}
