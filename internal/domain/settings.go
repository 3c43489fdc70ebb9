package domain

import "fmt"

// Interval bounds in minutes.
const (
	MinInterval = 1
	MaxInterval = 24 * 60
)

// Default preference values used on first run.
const (
	DefaultInterval = 45
	DefaultThemeID  = "dracula"
)

// IntervalChoices are the intervals offered on the setup screen.
var IntervalChoices = []int{20, 30, 45, 60, 90}

// Settings holds user preferences. JSON keys match the persisted layout.
type Settings struct {
	Interval             int    `json:"interval"`
	SoundEnabled         bool   `json:"soundEnabled"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	ThemeID              string `json:"themeId"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Interval:             DefaultInterval,
		SoundEnabled:         true,
		NotificationsEnabled: false,
		ThemeID:              DefaultThemeID,
	}
}

// IntervalSeconds returns the countdown length for one focus stretch.
func (s Settings) IntervalSeconds() int {
	return s.Interval * 60
}

// Sanitize repairs values that could have come from a stale or hand-edited
// store, falling back to the given defaults field by field.
func (s Settings) Sanitize(defaults Settings) Settings {
	if ValidateInterval(s.Interval) != nil {
		s.Interval = defaults.Interval
	}
	if _, ok := LookupTheme(s.ThemeID); !ok {
		s.ThemeID = defaults.ThemeID
	}
	return s
}

// ValidateInterval checks that an interval in minutes is usable.
func ValidateInterval(minutes int) error {
	if minutes < MinInterval || minutes > MaxInterval {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, minutes)
	}
	return nil
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	Interval             *int
	SoundEnabled         *bool
	NotificationsEnabled *bool
	ThemeID              *string
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p.Interval == nil && p.SoundEnabled == nil && p.NotificationsEnabled == nil && p.ThemeID == nil
}

// Validate checks every set field. A patch is applied all-or-nothing.
func (p SettingsPatch) Validate() error {
	if p.Interval != nil {
		if err := ValidateInterval(*p.Interval); err != nil {
			return err
		}
	}
	if p.ThemeID != nil {
		if _, ok := LookupTheme(*p.ThemeID); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTheme, *p.ThemeID)
		}
	}
	return nil
}

// Apply returns s with the patch merged in. Call Validate first.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Interval != nil {
		s.Interval = *p.Interval
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.ThemeID != nil {
		s.ThemeID = *p.ThemeID
	}
	return s
}
