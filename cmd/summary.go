package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/adapters/tui"
	"github.com/xvierd/unfocus/internal/domain"
)

var summaryQuote string

// summaryCmd prints the shareable session card.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print today's summary card",
	Long: `Print a plain-text card with today's breaks, presence time and streak,
ready to paste into a chat or a standup note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		snap := app.controller.Snapshot()

		quote := summaryQuote
		if quote == "" {
			rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x63617264))
			quote = domain.SummaryQuote(snap.Stats.BreaksTaken, rnd)
		}

		card := tui.NewCard(snap, quote)

		// The last session finished today fills in the session length.
		sessions, err := app.storage.History().FindSessions(ctx, domain.DaysBack(snap.Now, 1))
		if err == nil && len(sessions) > 0 {
			card.Elapsed = sessions[len(sessions)-1].Duration()
		}

		out := tui.RenderCard(card)
		if width, ok := terminalWidth(); ok {
			out = lipgloss.PlaceHorizontal(width, lipgloss.Center, out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryQuote, "quote", "q", "", "Quote to print instead of a random one")
}

// terminalWidth reports the width of stdout when it is a terminal.
func terminalWidth() (int, bool) {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}
