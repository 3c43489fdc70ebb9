// Package domain contains the core entities of unfocus: settings, daily
// stats, the break catalog, themes and the session snapshot consumed by
// every presentation layer. Nothing here depends on storage or terminals.
package domain

import "errors"

// Common domain errors.
var (
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrSessionAlreadyActive = errors.New("session already active")
	ErrNoActiveBreak        = errors.New("no active break")
	ErrInvalidInterval      = errors.New("interval must be between 1 and 1440 minutes")
	ErrUnknownTheme         = errors.New("unknown theme")
	ErrUnknownBreakType     = errors.New("unknown break type")
	ErrEmptyCatalog         = errors.New("break catalog is empty")
	ErrKeyNotFound          = errors.New("key not found")
)
