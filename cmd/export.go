package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/adapters/export"
	"github.com/xvierd/unfocus/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
	exportDays   int
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export break history",
	Long:  "Export today's stats and your break and session history as markdown, CSV, JSON, YAML or TOML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}

		return runExport(cmd.Context(), out, format)
	},
}

func init() {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Output format: "+strings.Join(names, ", "))
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: today, week, month, or all")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Number of days to include (overrides --period)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(ctx context.Context, w io.Writer, format export.Format) error {
	snap := app.controller.Snapshot()
	since, err := exportSince(snap.Now, exportPeriod, exportDays)
	if err != nil {
		return err
	}

	history := app.storage.History()

	breaks, err := history.FindBreaks(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch breaks: %w", err)
	}

	sessions, err := history.FindSessions(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch sessions: %w", err)
	}

	// DailyTotals buckets in since's zone, so all-time exports still need
	// a local location.
	totalsSince := since
	if totalsSince.IsZero() {
		totalsSince = time.Time{}.In(snap.Now.Location())
	}
	totals, err := history.DailyTotals(ctx, totalsSince)
	if err != nil {
		return fmt.Errorf("failed to fetch daily totals: %w", err)
	}

	doc := export.NewDocument(snap.Now, since, snap.Stats, totals, sessions, breaks)
	return export.Write(w, format, doc)
}

// exportSince resolves the export window. A positive days wins over period;
// a zero time means all history.
func exportSince(now time.Time, period string, days int) (time.Time, error) {
	if days > 0 {
		return domain.DaysBack(now, days), nil
	}
	switch strings.ToLower(period) {
	case "today", "day":
		return domain.DaysBack(now, 1), nil
	case "week", "":
		return domain.DaysBack(now, 7), nil
	case "month":
		return domain.DateOf(now.AddDate(0, -1, 0)).Start(now.Location()), nil
	case "all":
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("invalid period %q (want today, week, month or all)", period)
}
