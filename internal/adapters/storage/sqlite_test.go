package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
)

func newTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewMemory(t *testing.T) {
	storage := newTestStorage(t)

	if storage == nil {
		t.Error("NewMemory() returned nil storage")
	}
	if err := storage.Migrate(); err != nil {
		t.Errorf("Migrate() twice error = %v", err)
	}
}

func TestKV_PutGetDelete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	kv := storage.KV()

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "absent")
		if !errors.Is(err, domain.ErrKeyNotFound) {
			t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "a", []byte(`{"x":1}`)))
		got, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, `{"x":1}`, string(got))
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "a", []byte(`{"x":2}`)))
		got, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, `{"x":2}`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, kv.Delete(ctx, "a"))
		_, err := kv.Get(ctx, "a")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
		assert.NoError(t, kv.Delete(ctx, "a"))
	})
}

func TestWithPrefix(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	prefixed := WithPrefix(storage.KV(), "unfocus-")
	require.NoError(t, prefixed.Put(ctx, KeySettings, []byte(`{}`)))

	raw, err := storage.KV().Get(ctx, "unfocus-settings")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))

	assert.Same(t, storage.KV(), WithPrefix(storage.KV(), ""))
}

func TestLoadSave_RoundTrip(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	kv := storage.KV()

	settings := domain.Settings{Interval: 30, SoundEnabled: false, NotificationsEnabled: true, ThemeID: "nord"}
	require.NoError(t, Save(ctx, kv, KeySettings, settings))
	assert.Equal(t, settings, Load(ctx, kv, KeySettings, domain.DefaultSettings()))

	today, _ := domain.ParseDate("2026-10-16")
	stats := domain.Stats{BreaksTaken: 2, PresenceSeconds: 35, StreakDays: 3, LastSessionDate: today}
	require.NoError(t, Save(ctx, kv, KeyStats, stats))
	assert.Equal(t, stats, Load(ctx, kv, KeyStats, domain.Stats{}))

	raw, err := kv.Get(ctx, KeyStats)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"breaksTaken":2,"presenceSeconds":35,"streakDays":3,"lastSessionDate":"2026-10-16"}`,
		string(raw))
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	kv := storage.KV()
	def := domain.DefaultSettings()

	tests := []struct {
		name  string
		setup func()
		kv    ports.KeyValueStore
	}{
		{name: "missing key", setup: func() {}, kv: kv},
		{name: "malformed json", setup: func() { _ = kv.Put(ctx, KeySettings, []byte("{not json")) }, kv: kv},
		{name: "wrong shape", setup: func() { _ = kv.Put(ctx, KeySettings, []byte(`[1,2,3]`)) }, kv: kv},
		{name: "nil store", setup: func() {}, kv: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			assert.Equal(t, def, Load(ctx, tt.kv, KeySettings, def))
		})
	}
}

func TestLoad_PartialDocumentKeepsDefaults(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	kv := storage.KV()

	require.NoError(t, kv.Put(ctx, KeySettings, []byte(`{"interval":20}`)))

	got := Load(ctx, kv, KeySettings, domain.DefaultSettings())
	assert.Equal(t, 20, got.Interval)
	assert.True(t, got.SoundEnabled)
	assert.Equal(t, domain.DefaultThemeID, got.ThemeID)
}

func TestSave_NilStore(t *testing.T) {
	err := Save(context.Background(), nil, KeyStats, domain.Stats{})
	assert.Error(t, err)
}

func TestHistory_Breaks(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.History()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local)
	catalog := domain.DefaultCatalog()

	records := []domain.BreakRecord{
		domain.NewBreakRecord("s1", catalog[0], domain.OutcomeCompleted, now.Add(-49*time.Hour)),
		domain.NewBreakRecord("s1", catalog[1], domain.OutcomeCompleted, now.Add(-2*time.Hour)),
		domain.NewBreakRecord("s1", catalog[2], domain.OutcomeSkipped, now.Add(-time.Hour)),
		domain.NewBreakRecord("", catalog[3], domain.OutcomeCompleted, now),
	}
	for _, rec := range records {
		require.NoError(t, repo.RecordBreak(ctx, rec))
	}

	t.Run("find since", func(t *testing.T) {
		got, err := repo.FindBreaks(ctx, now.Add(-3*time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, domain.BreakBreath, got[0].Type)
		assert.Equal(t, domain.OutcomeSkipped, got[1].Outcome)
		assert.Equal(t, "", got[2].SessionID)
		assert.True(t, got[2].At.Equal(now))
	})

	t.Run("daily totals", func(t *testing.T) {
		got, err := repo.DailyTotals(ctx, now.Add(-72*time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "2026-10-14", got[0].Date)
		assert.Equal(t, 1, got[0].BreaksTaken)
		assert.Equal(t, 20, got[0].PresenceSeconds)

		assert.Equal(t, "2026-10-16", got[1].Date)
		assert.Equal(t, 2, got[1].BreaksTaken)
		assert.Equal(t, 1, got[1].BreaksSkipped)
		assert.Equal(t, 30, got[1].PresenceSeconds)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx))
		got, err := repo.FindBreaks(ctx, time.Time{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestHistory_Sessions(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.History()

	started := time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)
	rec := domain.SessionRecord{
		ID:              "session-1",
		StartedAt:       started,
		EndedAt:         started.Add(90 * time.Minute),
		GitBranch:       "main",
		GitRepository:   "unfocus",
		BreaksTaken:     2,
		BreaksSkipped:   1,
		PresenceSeconds: 35,
	}
	require.NoError(t, repo.RecordSession(ctx, rec))

	got, err := repo.FindSessions(ctx, started.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "session-1", got[0].ID)
	assert.Equal(t, "main", got[0].GitBranch)
	assert.Equal(t, 90*time.Minute, got[0].Duration())
	assert.Equal(t, 2, got[0].BreaksTaken)

	got, err = repo.FindSessions(ctx, started.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, got)
}
