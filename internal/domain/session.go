package domain

import "time"

// Screen is the state of the session/break machine.
type Screen string

const (
	ScreenSetup   Screen = "setup"
	ScreenAmbient Screen = "ambient"
	ScreenBreak   Screen = "break"
	ScreenSummary Screen = "summary"
)

// Label returns a human-readable label for the screen.
func (s Screen) Label() string {
	switch s {
	case ScreenSetup:
		return "Setup"
	case ScreenAmbient:
		return "Focusing"
	case ScreenBreak:
		return "On break"
	case ScreenSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// IsActive reports whether a session is running on this screen.
func (s Screen) IsActive() bool {
	return s == ScreenAmbient || s == ScreenBreak
}

// Session is one continuous period between starting and ending focus.
type Session struct {
	ID            string
	StartedAt     time.Time
	EndedAt       *time.Time
	GitBranch     string
	GitRepository string
	BreaksTaken   int
	BreaksSkipped int
	PresenceSecs  int
}

// NewSession creates a session starting at the given time.
func NewSession(startedAt time.Time) *Session {
	return &Session{
		ID:        generateID(),
		StartedAt: startedAt,
	}
}

// End stamps the end time. Ending twice keeps the first timestamp.
func (s *Session) End(at time.Time) {
	if s.EndedAt != nil {
		return
	}
	s.EndedAt = &at
}

// Elapsed returns the session length, measured up to now while running.
func (s *Session) Elapsed(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// SetGitContext stores where the session was started.
func (s *Session) SetGitContext(branch, repository string) {
	s.GitBranch = branch
	s.GitRepository = repository
}

// Record converts the session into its history form.
func (s *Session) Record() SessionRecord {
	rec := SessionRecord{
		ID:              s.ID,
		StartedAt:       s.StartedAt,
		GitBranch:       s.GitBranch,
		GitRepository:   s.GitRepository,
		BreaksTaken:     s.BreaksTaken,
		BreaksSkipped:   s.BreaksSkipped,
		PresenceSeconds: s.PresenceSecs,
	}
	if s.EndedAt != nil {
		rec.EndedAt = *s.EndedAt
	}
	return rec
}
