package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphHeight is the number of rows in every big-digit glyph.
const glyphHeight = 3

// digitMap maps digits and the colon to half-block glyphs. Digits are three
// cells wide, the colon one.
var digitMap = map[rune][glyphHeight]string{
	'0': {"█▀█", "█ █", "▀▀▀"},
	'1': {"▀█ ", " █ ", "▀▀▀"},
	'2': {"▀▀█", "█▀▀", "▀▀▀"},
	'3': {"▀▀█", " ▀█", "▀▀▀"},
	'4': {"█ █", "▀▀█", "  ▀"},
	'5': {"█▀▀", "▀▀█", "▀▀▀"},
	'6': {"█▀▀", "█▀█", "▀▀▀"},
	'7': {"▀▀█", "  █", "  ▀"},
	'8': {"█▀█", "█▀█", "▀▀▀"},
	'9': {"█▀█", "▀▀█", "▀▀▀"},
	':': {"▄", " ", "▀"},
}

// wordmark is shown above the countdown when the terminal is tall enough.
const wordmark = `█ █ █▄ █ █▀▀ █▀█ █▀▀ █ █ █▀▀
█ █ █ ▀█ █▀  █ █ █   █ █ ▀▀█
▀▀▀ ▀  ▀ ▀   ▀▀▀ ▀▀▀ ▀▀▀ ▀▀▀`

// renderBigTime renders a clock string like "44:59" in big glyphs. Narrow
// terminals get a single bold line instead.
func renderBigTime(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < 30 {
		return style.Render(clock)
	}

	var rows [glyphHeight]strings.Builder
	first := true
	for _, ch := range clock {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range rows {
			if !first {
				rows[i].WriteString(" ")
			}
			rows[i].WriteString(glyph[i])
		}
		first = false
	}

	lines := make([]string, glyphHeight)
	for i := range rows {
		lines[i] = style.Render(rows[i].String())
	}
	return strings.Join(lines, "\n")
}

// blockBar renders a fixed-width bar of filled and empty blocks for a
// fraction in [0, 1].
func blockBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
