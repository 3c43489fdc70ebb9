package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/unfocus/internal/ports"
)

// Run starts the full-screen interface and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, ctrl ports.Controller, tick time.Duration) error {
	model := NewModel(ctx, ctrl, tick)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
