package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/domain"
)

var statsDays int

// maxBarWidth caps the bar charts on wide terminals.
const maxBarWidth = 30

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of break statistics",
	Long:  `Display a terminal dashboard with breaks per day, presence time, skipped breaks and your favourite break types.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		snap := app.controller.Snapshot()
		since := domain.DaysBack(snap.Now, statsDays)

		totals, err := app.controller.DailyTotals(ctx, since)
		if err != nil {
			return fmt.Errorf("failed to get daily totals: %w", err)
		}

		breaks, err := app.controller.RecentBreaks(ctx, since)
		if err != nil {
			return fmt.Errorf("failed to get break history: %w", err)
		}

		sessions, err := app.storage.History().FindSessions(ctx, since)
		if err != nil {
			sessions = nil // non-fatal
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), dashboard{
			Label:    fmt.Sprintf("Last %d %s", max(statsDays, 1), plural(max(statsDays, 1), "day", "days")),
			Theme:    snap.Theme,
			Today:    snap.Stats,
			Totals:   totals,
			Breaks:   breaks,
			Sessions: len(sessions),
			BarWidth: barWidth(),
		})
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 7, "Number of days to include, today included")
}

// dashboard is everything the stats view draws.
type dashboard struct {
	Label    string
	Theme    domain.Theme
	Today    domain.Stats
	Totals   []domain.DailyTotal
	Breaks   []domain.BreakRecord
	Sessions int
	BarWidth int
}

// barWidth sizes the charts to the terminal, falling back to the cap when
// stdout is not a terminal.
func barWidth() int {
	w, ok := terminalWidth()
	if !ok {
		return maxBarWidth
	}
	return max(min(w-30, maxBarWidth), 10)
}

func renderDashboard(w io.Writer, d dashboard) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(d.Theme.Accent))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Theme.Muted))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(d.Theme.Text))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Theme.Accent))
	streakStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Theme.Success))

	// Header
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(d.Label))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	// Today
	fmt.Fprintf(w, "  Today: %s breaks, %s presence, %s\n\n",
		valueStyle.Render(fmt.Sprintf("%d", d.Today.BreaksTaken)),
		valueStyle.Render(formatMinutes(d.Today.PresenceSeconds)),
		streakStyle.Render(fmt.Sprintf("%d-day streak", d.Today.StreakDays)),
	)

	taken, skipped, presence := 0, 0, 0
	for _, t := range d.Totals {
		taken += t.BreaksTaken
		skipped += t.BreaksSkipped
		presence += t.PresenceSeconds
	}

	// Summary line
	fmt.Fprintf(w, "  Total: %s breaks, %s skipped, %s presence across %s sessions\n\n",
		valueStyle.Render(fmt.Sprintf("%d", taken)),
		valueStyle.Render(fmt.Sprintf("%d", skipped)),
		valueStyle.Render(formatMinutes(presence)),
		valueStyle.Render(fmt.Sprintf("%d", d.Sessions)),
	)

	if taken+skipped == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No breaks recorded in this period."))
		return
	}

	// Bar chart: breaks per day, skipped breaks shaded
	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Breaks by day"))
	maxCount := 0
	for _, t := range d.Totals {
		maxCount = max(maxCount, t.BreaksTaken+t.BreaksSkipped)
	}
	for _, t := range d.Totals {
		done := scaleBar(t.BreaksTaken, maxCount, d.BarWidth)
		missed := scaleBar(t.BreaksSkipped, maxCount, d.BarWidth)
		fmt.Fprintf(w, "  %s %s%s %d",
			dimStyle.Render(t.Date),
			barColor.Render(buildBar(done, "█")),
			dimStyle.Render(buildBar(missed, "░")),
			t.BreaksTaken,
		)
		if t.BreaksSkipped > 0 {
			fmt.Fprintf(w, " (+%d skipped)", t.BreaksSkipped)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	renderBreakTypes(w, d.Breaks, dimStyle, valueStyle)
}

// typeCount pairs a break type with how often it was completed.
type typeCount struct {
	Type  domain.BreakType
	Count int
}

// renderBreakTypes lists completed break types, most frequent first.
func renderBreakTypes(w io.Writer, breaks []domain.BreakRecord, dimStyle, valueStyle lipgloss.Style) {
	counts := make(map[domain.BreakType]int)
	for _, b := range breaks {
		if b.Outcome == domain.OutcomeCompleted {
			counts[b.Type]++
		}
	}
	if len(counts) == 0 {
		return
	}

	entries := make([]typeCount, 0, len(counts))
	for t, c := range counts {
		entries = append(entries, typeCount{Type: t, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Type < entries[j].Type
	})

	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Favourite breaks"))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %s\n",
			dimStyle.Render(fmt.Sprintf("%-10s", strings.ToLower(e.Type.Label()))),
			valueStyle.Render(fmt.Sprintf("%d", e.Count)),
		)
	}
	fmt.Fprintln(w)
}

// scaleBar maps n out of total onto width cells, never hiding a non-zero
// count.
func scaleBar(n, total, width int) int {
	if n <= 0 || total <= 0 {
		return 0
	}
	cells := int(math.Round(float64(n) / float64(total) * float64(width)))
	return max(cells, 1)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int, block string) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(block, width)
}

// formatMinutes formats seconds as "Xh Ym".
func formatMinutes(seconds int) string {
	minutes := seconds / 60
	if minutes < 1 {
		return "0m"
	}
	hours := minutes / 60
	minutes %= 60
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
