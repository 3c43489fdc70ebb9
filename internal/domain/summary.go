package domain

import (
	"fmt"
	"strings"
	"time"
)

var summaryQuotes = []string{
	"you logged off {breaks} times. rare behavior.",
	"touch grass? you at least looked at it through a window.",
	"kernel panic averted. you took breaks.",
	"{breaks} breaks. that's {breaks} more than your vim config needed.",
	"segfault in burnout.exe. breaks applied successfully.",
	"sudo rest --force executed successfully.",
	"garbage collection complete. you took out the mental trash.",
}

// SummaryQuote picks a closing line for the summary screen with the break
// count substituted in.
func SummaryQuote(breaks int, rnd RandSource) string {
	q := summaryQuotes[rnd.IntN(len(summaryQuotes))]
	return strings.ReplaceAll(q, "{breaks}", fmt.Sprintf("%d", breaks))
}

// FormatElapsed renders a duration as "1h 5m" or "12m".
func FormatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
