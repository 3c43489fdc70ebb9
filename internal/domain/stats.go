package domain

// Stats holds the daily counters and the streak. JSON keys match the
// persisted layout.
type Stats struct {
	BreaksTaken     int  `json:"breaksTaken"`
	PresenceSeconds int  `json:"presenceSeconds"`
	StreakDays      int  `json:"streakDays"`
	LastSessionDate Date `json:"lastSessionDate"`
}

// Rollover clears counters that no longer describe today. BreaksTaken and
// PresenceSeconds are per-day; the streak survives a one-day gap only.
func (s Stats) Rollover(today Date) Stats {
	if s.LastSessionDate.IsZero() || s.LastSessionDate == today {
		return s
	}
	s.BreaksTaken = 0
	s.PresenceSeconds = 0
	if s.LastSessionDate != today.AddDays(-1) {
		s.StreakDays = 0
	}
	return s
}

// BeginSession applies the streak rule for a session starting today and
// stamps LastSessionDate. The rule is evaluated against the previous
// LastSessionDate before any rollover happens.
func (s Stats) BeginSession(today Date) Stats {
	prev := s.LastSessionDate
	s = s.Rollover(today)

	switch {
	case prev.IsZero():
		s.StreakDays = 1
	case prev == today:
		if s.StreakDays < 1 {
			s.StreakDays = 1
		}
	case prev == today.AddDays(-1):
		s.StreakDays++
	default:
		s.StreakDays = 1
	}

	s.LastSessionDate = today
	return s
}

// CreditBreak records one completed break of the given length.
func (s Stats) CreditBreak(durationSeconds int) Stats {
	s.BreaksTaken++
	s.PresenceSeconds += durationSeconds
	return s
}

// PresenceMinutes returns presence rounded down to whole minutes.
func (s Stats) PresenceMinutes() int {
	return s.PresenceSeconds / 60
}
