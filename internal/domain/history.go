package domain

import "time"

// BreakOutcome records how a break ended.
type BreakOutcome string

const (
	OutcomeCompleted BreakOutcome = "completed"
	OutcomeSkipped   BreakOutcome = "skipped"
)

// BreakRecord is one finished break in the history log.
type BreakRecord struct {
	ID              string       `json:"id" yaml:"id" toml:"id"`
	SessionID       string       `json:"session_id" yaml:"session_id" toml:"session_id"`
	Type            BreakType    `json:"type" yaml:"type" toml:"type"`
	DurationSeconds int          `json:"duration_seconds" yaml:"duration_seconds" toml:"duration_seconds"`
	Outcome         BreakOutcome `json:"outcome" yaml:"outcome" toml:"outcome"`
	At              time.Time    `json:"at" yaml:"at" toml:"at"`
}

// NewBreakRecord creates a history entry for a finished break.
func NewBreakRecord(sessionID string, b BreakContent, outcome BreakOutcome, at time.Time) BreakRecord {
	return BreakRecord{
		ID:              generateID(),
		SessionID:       sessionID,
		Type:            b.Type,
		DurationSeconds: b.DurationSeconds,
		Outcome:         outcome,
		At:              at,
	}
}

// SessionRecord is one finished session in the history log.
type SessionRecord struct {
	ID              string    `json:"id" yaml:"id" toml:"id"`
	StartedAt       time.Time `json:"started_at" yaml:"started_at" toml:"started_at"`
	EndedAt         time.Time `json:"ended_at" yaml:"ended_at" toml:"ended_at"`
	GitBranch       string    `json:"git_branch,omitempty" yaml:"git_branch,omitempty" toml:"git_branch,omitempty"`
	GitRepository   string    `json:"git_repository,omitempty" yaml:"git_repository,omitempty" toml:"git_repository,omitempty"`
	BreaksTaken     int       `json:"breaks_taken" yaml:"breaks_taken" toml:"breaks_taken"`
	BreaksSkipped   int       `json:"breaks_skipped" yaml:"breaks_skipped" toml:"breaks_skipped"`
	PresenceSeconds int       `json:"presence_seconds" yaml:"presence_seconds" toml:"presence_seconds"`
}

// Duration returns the session length.
func (r SessionRecord) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// DailyTotal aggregates break history for one calendar day.
type DailyTotal struct {
	Date            string `json:"date" yaml:"date" toml:"date"`
	BreaksTaken     int    `json:"breaks_taken" yaml:"breaks_taken" toml:"breaks_taken"`
	BreaksSkipped   int    `json:"breaks_skipped" yaml:"breaks_skipped" toml:"breaks_skipped"`
	PresenceSeconds int    `json:"presence_seconds" yaml:"presence_seconds" toml:"presence_seconds"`
}
