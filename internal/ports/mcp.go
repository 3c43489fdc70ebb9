package ports

import (
	"context"
	"time"

	"github.com/xvierd/unfocus/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// Controller is the session/break state machine as seen by presentation
// layers (TUI, MCP, command interpreter).
// This is a driven port (implemented by the services layer).
type Controller interface {
	Snapshot() domain.Snapshot

	StartSession(ctx context.Context) error
	Tick(ctx context.Context)
	TriggerBreak(ctx context.Context) error
	TriggerSpecificBreak(ctx context.Context, t domain.BreakType) error
	CompleteBreak(ctx context.Context) error
	SkipBreak(ctx context.Context) error
	RepeatBreak(ctx context.Context) error
	EndSession(ctx context.Context) error
	ReturnToSetup(ctx context.Context) error

	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) error
	CycleTheme(ctx context.Context) error
	ResetStats(ctx context.Context) error
}

// HistoryProvider exposes recorded history to read-only consumers.
// This is a driven port (implemented by the services layer).
type HistoryProvider interface {
	RecentBreaks(ctx context.Context, since time.Time) ([]domain.BreakRecord, error)
	DailyTotals(ctx context.Context, since time.Time) ([]domain.DailyTotal, error)
}
