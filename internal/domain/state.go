package domain

import "time"

// Snapshot is a read-only copy of the controller state handed to
// presentation code. Mutating it has no effect on the controller.
type Snapshot struct {
	Screen   Screen
	Settings Settings
	Theme    Theme
	Stats    Stats

	Session *Session

	// RemainingSeconds counts down to the next break while ambient.
	RemainingSeconds int

	ActiveBreak       *BreakContent
	BreakElapsedSecs  int
	LastBreakType     BreakType
	NotificationsHint string

	Now time.Time
}

// BreakProgress returns the active break's completion fraction in [0, 1].
func (s Snapshot) BreakProgress() float64 {
	if s.ActiveBreak == nil || s.ActiveBreak.DurationSeconds <= 0 {
		return 0
	}
	p := float64(s.BreakElapsedSecs) / float64(s.ActiveBreak.DurationSeconds)
	if p > 1 {
		return 1
	}
	return p
}

// BreakRemainingSeconds returns the seconds left in the active break.
func (s Snapshot) BreakRemainingSeconds() int {
	if s.ActiveBreak == nil {
		return 0
	}
	left := s.ActiveBreak.DurationSeconds - s.BreakElapsedSecs
	if left < 0 {
		return 0
	}
	return left
}

// SessionElapsed returns how long the current or last session has run.
func (s Snapshot) SessionElapsed() time.Duration {
	if s.Session == nil {
		return 0
	}
	return s.Session.Elapsed(s.Now)
}
