package domain

import (
	"errors"
	"testing"
)

func TestSettingsPatch_Validate(t *testing.T) {
	zero, neg, ok, huge := 0, -5, 30, MaxInterval+1
	good, bad := "nord", "solarized"

	tests := []struct {
		name    string
		patch   SettingsPatch
		wantErr error
	}{
		{"empty", SettingsPatch{}, nil},
		{"valid interval", SettingsPatch{Interval: &ok}, nil},
		{"zero interval", SettingsPatch{Interval: &zero}, ErrInvalidInterval},
		{"negative interval", SettingsPatch{Interval: &neg}, ErrInvalidInterval},
		{"interval too large", SettingsPatch{Interval: &huge}, ErrInvalidInterval},
		{"known theme", SettingsPatch{ThemeID: &good}, nil},
		{"unknown theme", SettingsPatch{ThemeID: &bad}, ErrUnknownTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsPatch_Apply(t *testing.T) {
	interval := 20
	sound := false
	theme := "amber"

	got := SettingsPatch{Interval: &interval, SoundEnabled: &sound, ThemeID: &theme}.Apply(DefaultSettings())

	want := Settings{Interval: 20, SoundEnabled: false, NotificationsEnabled: false, ThemeID: "amber"}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}
}

func TestSettings_Sanitize(t *testing.T) {
	stored := Settings{Interval: -3, SoundEnabled: true, ThemeID: "missing"}
	got := stored.Sanitize(DefaultSettings())

	if got.Interval != DefaultInterval {
		t.Errorf("Interval = %d, want %d", got.Interval, DefaultInterval)
	}
	if got.ThemeID != DefaultThemeID {
		t.Errorf("ThemeID = %q, want %q", got.ThemeID, DefaultThemeID)
	}
	if !got.SoundEnabled {
		t.Error("SoundEnabled should be kept")
	}
}

func TestThemes(t *testing.T) {
	if got := NextThemeID("amber"); got != "dracula" {
		t.Errorf("NextThemeID(amber) = %q, want dracula", got)
	}
	if got := NextThemeID("dracula"); got != "nord" {
		t.Errorf("NextThemeID(dracula) = %q, want nord", got)
	}
	if got := NextThemeID("nope"); got != "dracula" {
		t.Errorf("NextThemeID(nope) = %q, want dracula", got)
	}
	if got := ThemeOrDefault("nope"); got.ID != DefaultThemeID {
		t.Errorf("ThemeOrDefault(nope) = %q", got.ID)
	}
	if len(Themes()) != 8 {
		t.Errorf("Themes() len = %d, want 8", len(Themes()))
	}
}

func TestSnapshot_BreakProgress(t *testing.T) {
	b := DefaultCatalog()[0] // 20s
	snap := Snapshot{ActiveBreak: &b, BreakElapsedSecs: 5}

	if got := snap.BreakProgress(); got != 0.25 {
		t.Errorf("BreakProgress() = %v, want 0.25", got)
	}
	if got := snap.BreakRemainingSeconds(); got != 15 {
		t.Errorf("BreakRemainingSeconds() = %d, want 15", got)
	}

	snap.BreakElapsedSecs = 40
	if got := snap.BreakProgress(); got != 1 {
		t.Errorf("BreakProgress() overrun = %v, want 1", got)
	}
	if got := (Snapshot{}).BreakProgress(); got != 0 {
		t.Errorf("BreakProgress() without break = %v, want 0", got)
	}
}

func TestSummaryQuote(t *testing.T) {
	got := SummaryQuote(4, fixedRand(0))
	if got != "you logged off 4 times. rare behavior." {
		t.Errorf("SummaryQuote() = %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{2700, "45:00"},
		{90, "01:30"},
		{0, "00:00"},
		{-4, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
