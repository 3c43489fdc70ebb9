package domain

import (
	"fmt"
	"strings"
	"time"
)

// BreakType identifies the kind of guided micro-break.
type BreakType string

const (
	BreakEyes      BreakType = "eyes"
	BreakBreath    BreakType = "breath"
	BreakPosture   BreakType = "posture"
	BreakHands     BreakType = "hands"
	BreakHydration BreakType = "hydration"
	BreakWindow    BreakType = "window"
)

// ValidBreakTypes lists every supported break type in catalog order.
var ValidBreakTypes = []BreakType{
	BreakEyes,
	BreakBreath,
	BreakPosture,
	BreakHands,
	BreakHydration,
	BreakWindow,
}

// ParseBreakType validates a break type name. "hydrate" is accepted as an
// alias for hydration.
func ParseBreakType(s string) (BreakType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "hydrate" {
		return BreakHydration, nil
	}
	for _, t := range ValidBreakTypes {
		if BreakType(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBreakType, s)
}

// Label returns a human-readable label.
func (t BreakType) Label() string {
	switch t {
	case BreakEyes:
		return "Eye rest"
	case BreakBreath:
		return "Breathing"
	case BreakPosture:
		return "Posture check"
	case BreakHands:
		return "Hand stretch"
	case BreakHydration:
		return "Hydration"
	case BreakWindow:
		return "Window gaze"
	default:
		return "Break"
	}
}

// BreakContent is an immutable catalog entry.
type BreakContent struct {
	Type            BreakType `json:"type"`
	Noticing        string    `json:"noticing"`
	Invitation      string    `json:"invitation"`
	DurationSeconds int       `json:"durationSeconds"`
}

// Duration returns the break length as a time.Duration.
func (b BreakContent) Duration() time.Duration {
	return time.Duration(b.DurationSeconds) * time.Second
}

// DefaultCatalog returns the built-in break catalog.
func DefaultCatalog() []BreakContent {
	return []BreakContent{
		{
			Type:            BreakEyes,
			Noticing:        "your eyes have been focused on this distance for a while.",
			Invitation:      "find something 20 feet away. rest your gaze there.",
			DurationSeconds: 20,
		},
		{
			Type:            BreakBreath,
			Noticing:        "when did you last take a full breath?",
			Invitation:      "one deep inhale... hold... slow exhale.",
			DurationSeconds: 15,
		},
		{
			Type:            BreakPosture,
			Noticing:        "notice how you're sitting right now.",
			Invitation:      "feet flat. shoulders back. crown lifted.",
			DurationSeconds: 10,
		},
		{
			Type:            BreakHands,
			Noticing:        "your hands have been working hard.",
			Invitation:      "open your palms. spread fingers wide. release.",
			DurationSeconds: 15,
		},
		{
			Type:            BreakHydration,
			Noticing:        "bodies are mostly water.",
			Invitation:      "take a sip. or go fill your glass.",
			DurationSeconds: 20,
		},
		{
			Type:            BreakWindow,
			Noticing:        "screens don't have depth. the world does.",
			Invitation:      "look out a window. let your eyes wander.",
			DurationSeconds: 20,
		},
	}
}

// FilterCatalog keeps only entries whose type is listed. An empty type list
// keeps the whole catalog.
func FilterCatalog(catalog []BreakContent, types []BreakType) []BreakContent {
	if len(types) == 0 {
		return catalog
	}
	allowed := make(map[BreakType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	var out []BreakContent
	for _, b := range catalog {
		if allowed[b.Type] {
			out = append(out, b)
		}
	}
	return out
}

// FindBreak returns the catalog entry for a type.
func FindBreak(catalog []BreakContent, t BreakType) (BreakContent, bool) {
	for _, b := range catalog {
		if b.Type == t {
			return b, true
		}
	}
	return BreakContent{}, false
}

// RandSource is the random source used for selection. *math/rand/v2.Rand
// satisfies it.
type RandSource interface {
	IntN(n int) int
}

// SelectNext picks a break uniformly at random, excluding the given type
// whenever at least one other candidate remains.
func SelectNext(catalog []BreakContent, exclude BreakType, rnd RandSource) (BreakContent, error) {
	if len(catalog) == 0 {
		return BreakContent{}, ErrEmptyCatalog
	}

	candidates := catalog
	if exclude != "" {
		filtered := make([]BreakContent, 0, len(catalog))
		for _, b := range catalog {
			if b.Type != exclude {
				filtered = append(filtered, b)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	return candidates[rnd.IntN(len(candidates))], nil
}
