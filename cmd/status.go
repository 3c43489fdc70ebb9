package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display your saved settings and today's break statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := app.controller.Snapshot()

		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), snap)
		}

		printStatusText(cmd.OutOrStdout(), snap)
		return nil
	},
}

// statusJSON is the --json layout of the status command.
type statusJSON struct {
	Settings domain.Settings `json:"settings"`
	Theme    string          `json:"theme"`
	Today    domain.Stats    `json:"today"`
	Presence int             `json:"presence_minutes"`
	Hint     string          `json:"notifications_hint,omitempty"`
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, snap domain.Snapshot) error {
	result := statusJSON{
		Settings: snap.Settings,
		Theme:    snap.Theme.Name,
		Today:    snap.Stats,
		Presence: snap.Stats.PresenceMinutes(),
		Hint:     snap.NotificationsHint,
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, snap domain.Snapshot) {
	s := snap.Settings
	fmt.Fprintln(w, "Settings:")
	fmt.Fprintf(w, "   Interval:      %d min\n", s.Interval)
	fmt.Fprintf(w, "   Sound:         %s\n", onOff(s.SoundEnabled))
	fmt.Fprintf(w, "   Notifications: %s\n", onOff(s.NotificationsEnabled))
	fmt.Fprintf(w, "   Theme:         %s\n", snap.Theme.Name)

	stats := snap.Stats
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Today:")
	fmt.Fprintf(w, "   Breaks taken:  %d\n", stats.BreaksTaken)
	fmt.Fprintf(w, "   Presence:      %d min\n", stats.PresenceMinutes())
	fmt.Fprintf(w, "   Streak:        %d %s\n", stats.StreakDays, plural(stats.StreakDays, "day", "days"))
	if !stats.LastSessionDate.IsZero() {
		fmt.Fprintf(w, "   Last session:  %s\n", stats.LastSessionDate)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
