package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/services"
)

var watchInterval int

// watchCmd runs the timer without the full-screen interface.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the break timer headless",
	Long: `Start a session and keep time in the background, printing a line when a
break begins and ends. Desktop notifications and the chime fire as usual.
Press Ctrl+C to end the session and print a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler(cmd.Context())
		out := cmd.OutOrStdout()

		if err := beginSession(ctx, watchInterval); err != nil {
			return err
		}

		snap := app.controller.Snapshot()
		fmt.Fprintf(out, "session started · next break in %s\n", domain.FormatClock(snap.RemainingSeconds))

		reporter := newWatchReporter(out, snap)
		scheduler := services.NewScheduler(app.controller)
		scheduler.SetInterval(app.config.TickInterval())
		scheduler.OnTick(reporter.report)

		// Run only returns once ctx is cancelled.
		_ = scheduler.Run(ctx)

		// The signal context is done; persist with a fresh one.
		endCtx := cmd.Context()
		if err := app.controller.EndSession(endCtx); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
		printSessionEnd(out, app.controller.Snapshot())
		return nil
	},
}

func init() {
	watchCmd.Flags().IntVarP(&watchInterval, "interval", "i", 0, "Minutes between breaks (saved as the new default)")
}

// watchReporter prints screen transitions seen between ticks.
type watchReporter struct {
	out    io.Writer
	screen domain.Screen
}

func newWatchReporter(out io.Writer, snap domain.Snapshot) *watchReporter {
	return &watchReporter{out: out, screen: snap.Screen}
}

func (r *watchReporter) report(snap domain.Snapshot) {
	prev := r.screen
	r.screen = snap.Screen
	if prev == snap.Screen {
		return
	}

	stamp := snap.Now.Format("15:04:05")
	switch {
	case snap.Screen == domain.ScreenBreak && snap.ActiveBreak != nil:
		b := snap.ActiveBreak
		fmt.Fprintf(r.out, "[%s] %s · %ds\n", stamp, strings.ToLower(b.Type.Label()), b.DurationSeconds)
		fmt.Fprintf(r.out, "           %s\n", b.Noticing)
		fmt.Fprintf(r.out, "           %s\n", b.Invitation)
	case prev == domain.ScreenBreak && snap.Screen == domain.ScreenAmbient:
		fmt.Fprintf(r.out, "[%s] welcome back · %d %s today · next in %s\n",
			stamp, snap.Stats.BreaksTaken, plural(snap.Stats.BreaksTaken, "break", "breaks"),
			domain.FormatClock(snap.RemainingSeconds))
	}
}

func printSessionEnd(out io.Writer, snap domain.Snapshot) {
	stats := snap.Stats
	fmt.Fprintln(out)
	fmt.Fprintf(out, "session ended after %s\n", domain.FormatElapsed(snap.SessionElapsed()))
	fmt.Fprintf(out, "  breaks:   %d\n", stats.BreaksTaken)
	fmt.Fprintf(out, "  presence: %d min\n", stats.PresenceMinutes())
	fmt.Fprintf(out, "  streak:   %d %s\n", stats.StreakDays, plural(stats.StreakDays, "day", "days"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
