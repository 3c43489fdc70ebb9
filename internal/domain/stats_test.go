package domain

import (
	"testing"
	"time"
)

func day(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStats_BeginSession_Streak(t *testing.T) {
	today := day("2026-10-16")

	tests := []struct {
		name       string
		stats      Stats
		wantStreak int
	}{
		{
			name:       "first ever session",
			stats:      Stats{},
			wantStreak: 1,
		},
		{
			name:       "last session yesterday",
			stats:      Stats{StreakDays: 4, LastSessionDate: day("2026-10-15")},
			wantStreak: 5,
		},
		{
			name:       "last session two days ago",
			stats:      Stats{StreakDays: 4, LastSessionDate: day("2026-10-14")},
			wantStreak: 1,
		},
		{
			name:       "last session weeks ago",
			stats:      Stats{StreakDays: 9, LastSessionDate: day("2026-09-01")},
			wantStreak: 1,
		},
		{
			name:       "second session same day",
			stats:      Stats{StreakDays: 3, LastSessionDate: today},
			wantStreak: 3,
		},
		{
			name:       "same day after streak was zeroed",
			stats:      Stats{StreakDays: 0, LastSessionDate: today},
			wantStreak: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.stats.BeginSession(today)
			if got.StreakDays != tt.wantStreak {
				t.Errorf("StreakDays = %d, want %d", got.StreakDays, tt.wantStreak)
			}
			if got.LastSessionDate != today {
				t.Errorf("LastSessionDate = %v, want %v", got.LastSessionDate, today)
			}
		})
	}
}

func TestStats_Rollover(t *testing.T) {
	today := day("2026-10-16")

	tests := []struct {
		name  string
		stats Stats
		want  Stats
	}{
		{
			name:  "today keeps everything",
			stats: Stats{BreaksTaken: 3, PresenceSeconds: 45, StreakDays: 2, LastSessionDate: today},
			want:  Stats{BreaksTaken: 3, PresenceSeconds: 45, StreakDays: 2, LastSessionDate: today},
		},
		{
			name:  "yesterday clears daily counters only",
			stats: Stats{BreaksTaken: 3, PresenceSeconds: 45, StreakDays: 2, LastSessionDate: day("2026-10-15")},
			want:  Stats{BreaksTaken: 0, PresenceSeconds: 0, StreakDays: 2, LastSessionDate: day("2026-10-15")},
		},
		{
			name:  "skipped day clears streak too",
			stats: Stats{BreaksTaken: 3, PresenceSeconds: 45, StreakDays: 2, LastSessionDate: day("2026-10-13")},
			want:  Stats{BreaksTaken: 0, PresenceSeconds: 0, StreakDays: 0, LastSessionDate: day("2026-10-13")},
		},
		{
			name:  "never started",
			stats: Stats{},
			want:  Stats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Rollover(today); got != tt.want {
				t.Errorf("Rollover() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStats_CreditBreak(t *testing.T) {
	s := Stats{BreaksTaken: 1, PresenceSeconds: 20}
	got := s.CreditBreak(15)

	if got.BreaksTaken != 2 {
		t.Errorf("BreaksTaken = %d, want 2", got.BreaksTaken)
	}
	if got.PresenceSeconds != 35 {
		t.Errorf("PresenceSeconds = %d, want 35", got.PresenceSeconds)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := DateOf(time.Date(2026, time.March, 1, 23, 30, 0, 0, time.Local))

	if got := d.AddDays(-1).String(); got != "2026-02-28" {
		t.Errorf("AddDays(-1) = %s, want 2026-02-28", got)
	}
	if got := d.DaysUntil(d.AddDays(10)); got != 10 {
		t.Errorf("DaysUntil = %d, want 10", got)
	}
	if !d.AddDays(-1).Before(d) {
		t.Error("yesterday should be before today")
	}
}

func TestDate_JSON(t *testing.T) {
	var zero Date
	b, err := zero.MarshalJSON()
	if err != nil || string(b) != "null" {
		t.Errorf("zero MarshalJSON = %s, %v; want null", b, err)
	}

	d := day("2026-10-16")
	b, err = d.MarshalJSON()
	if err != nil || string(b) != `"2026-10-16"` {
		t.Errorf("MarshalJSON = %s, %v", b, err)
	}

	var parsed Date
	if err := parsed.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON error = %v", err)
	}
	if parsed != d {
		t.Errorf("UnmarshalJSON = %v, want %v", parsed, d)
	}

	if err := parsed.UnmarshalJSON([]byte(`"not a date"`)); err == nil {
		t.Error("UnmarshalJSON should reject malformed dates")
	}
}

func TestDaysBack(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		n    int
		want time.Time
	}{
		{1, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{2, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{0, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{31, time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := DaysBack(now, tt.n); !got.Equal(tt.want) {
			t.Errorf("DaysBack(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
