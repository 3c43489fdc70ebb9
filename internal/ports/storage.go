// Package ports defines the interfaces (driven and driving ports)
// for the unfocus application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/unfocus/internal/domain"
)

// KeyValueStore persists small JSON documents such as settings and stats.
// This is a driven port (implemented by adapters).
type KeyValueStore interface {
	// Get returns the raw value stored under key, or domain.ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// HistoryRepository records finished breaks and sessions.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// RecordBreak appends a finished break.
	RecordBreak(ctx context.Context, rec domain.BreakRecord) error

	// RecordSession appends a finished session.
	RecordSession(ctx context.Context, rec domain.SessionRecord) error

	// FindBreaks returns breaks recorded at or after since, oldest first.
	FindBreaks(ctx context.Context, since time.Time) ([]domain.BreakRecord, error)

	// FindSessions returns sessions started at or after since, oldest first.
	FindSessions(ctx context.Context, since time.Time) ([]domain.SessionRecord, error)

	// DailyTotals aggregates break history per local calendar day.
	DailyTotals(ctx context.Context, since time.Time) ([]domain.DailyTotal, error)

	// Clear removes all history.
	Clear(ctx context.Context) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// KV provides access to the key/value document store.
	KV() KeyValueStore

	// History provides access to break and session history.
	History() HistoryRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
