package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/adapters/tui"
	"github.com/xvierd/unfocus/internal/domain"
)

var startInterval int

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a session and open the timer",
	Long: `Start a session right away, skipping the setup screen. Use --interval
to change the minutes between breaks first; the new interval is saved.`,
	Annotations: map[string]string{annotationFullscreen: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := beginSession(cmd.Context(), startInterval); err != nil {
			return err
		}

		return runTimer(cmd.Context())
	},
}

func init() {
	startCmd.Flags().IntVarP(&startInterval, "interval", "i", 0, "Minutes between breaks (saved as the new default)")
}

// beginSession applies an optional interval override and starts a session.
func beginSession(ctx context.Context, interval int) error {
	if interval != 0 {
		err := app.controller.UpdateSettings(ctx, domain.SettingsPatch{Interval: &interval})
		if err != nil {
			return fmt.Errorf("failed to set interval: %w", err)
		}
	}
	if err := app.controller.StartSession(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

// runTimer opens the full-screen timer and ends whatever session is still
// running when it closes.
func runTimer(ctx context.Context) error {
	runErr := tui.Run(setupSignalHandler(ctx), app.controller, app.config.TickInterval())

	// The signal context may be done; persist with the parent.
	if err := finishSession(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// finishSession ends the current session if one is running, so quitting
// mid-session still records it.
func finishSession(ctx context.Context) error {
	if !app.controller.Snapshot().Screen.IsActive() {
		return nil
	}
	if err := app.controller.EndSession(ctx); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}
