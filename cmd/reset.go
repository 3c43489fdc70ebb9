package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	resetForce   bool
	resetHistory bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset today's counters and the streak",
	Long: `Zeroes breaks taken, presence time and the streak. With --history the
recorded break and session history is deleted too. Settings are kept.
This cannot be undone. Use --force to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if !resetForce {
			what := "your stats and streak"
			if resetHistory {
				what = "your stats, streak and all break history"
			}
			fmt.Fprintf(out, "This will permanently reset %s.\n", what)
			fmt.Fprint(out, "Are you sure? Type 'yes' to confirm: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := app.controller.ResetStats(ctx); err != nil {
			return err
		}

		if resetHistory {
			if err := app.storage.History().Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(out, "Stats and history cleared. Fresh start.")
			return nil
		}

		fmt.Fprintln(out, "Stats reset. Fresh start.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	resetCmd.Flags().BoolVar(&resetHistory, "history", false, "Also delete break and session history")
}
