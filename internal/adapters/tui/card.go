package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xvierd/unfocus/internal/domain"
)

// cardInner is the number of cells between the card's side borders.
const cardInner = 40

// quoteLine is how much of the quote fits on one card line.
const quoteLine = 34

// Card is the data printed on a shareable session summary.
type Card struct {
	Date            time.Time
	Elapsed         time.Duration
	BreaksTaken     int
	PresenceMinutes int
	StreakDays      int
	Quote           string
}

// NewCard builds a card from a controller snapshot.
func NewCard(snap domain.Snapshot, quote string) Card {
	return Card{
		Date:            snap.Now,
		Elapsed:         snap.SessionElapsed(),
		BreaksTaken:     snap.Stats.BreaksTaken,
		PresenceMinutes: snap.Stats.PresenceMinutes(),
		StreakDays:      snap.Stats.StreakDays,
		Quote:           quote,
	}
}

// RenderCard draws the card as a fixed-width box of plain text.
func RenderCard(c Card) string {
	rule := "   " + strings.Repeat("─", cardInner-6) + "   "
	streak := fmt.Sprintf("%d %s", c.StreakDays, plural(c.StreakDays, "day", "days"))
	if c.StreakDays > 1 {
		streak += " █▓▒░"
	}

	lines := []string{
		"",
		center("U N F O C U S"),
		"",
		rule,
		"",
		field("date", strings.ToLower(c.Date.Format("Jan 2, 2006"))),
		field("breaks", fmt.Sprintf("%d", c.BreaksTaken)),
		field("presence", fmt.Sprintf("%d min", c.PresenceMinutes)),
		field("streak", streak),
	}
	if c.Elapsed > 0 {
		lines = append(lines, field("session", domain.FormatElapsed(c.Elapsed)))
	}
	if c.Quote != "" {
		first, rest := splitRunes(c.Quote, quoteLine)
		second, _ := splitRunes(rest, quoteLine+2)
		lines = append(lines, "", rule, "", `   "`+first+`"`)
		if second != "" {
			lines = append(lines, "   "+second)
		}
	}
	lines = append(lines, "", rule, "", center("unfocus"), "")

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", cardInner) + "┐\n")
	for _, l := range lines {
		b.WriteString("│" + pad(l, cardInner) + "│\n")
	}
	b.WriteString("└" + strings.Repeat("─", cardInner) + "┘")
	return b.String()
}

func field(label, value string) string {
	return fmt.Sprintf("   %-12s%s", label, value)
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	left := (cardInner - n) / 2
	if left < 0 {
		left = 0
	}
	return strings.Repeat(" ", left) + s
}

// pad right-pads s with spaces to width runes, truncating longer input.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		r := []rune(s)
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

// splitRunes cuts s after at most n runes.
func splitRunes(s string, n int) (string, string) {
	r := []rune(s)
	if len(r) <= n {
		return s, ""
	}
	return string(r[:n]), string(r[n:])
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
