package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/unfocus/internal/domain"
)

// styles holds the lipgloss styles derived from the selected theme.
type styles struct {
	theme domain.Theme

	text    lipgloss.Style
	accent  lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	danger  lipgloss.Style
	bold    lipgloss.Style

	// selected renders an active choice inverted on the accent color.
	selected lipgloss.Style
	frame    lipgloss.Style
	box      lipgloss.Style
}

const dangerColor = "#ff5555"

func newStyles(theme domain.Theme) styles {
	return styles{
		theme:    theme,
		text:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text)),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Success)),
		danger:   lipgloss.NewStyle().Foreground(lipgloss.Color(dangerColor)),
		bold:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Accent)),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Bg)).Background(lipgloss.Color(theme.Accent)).Padding(0, 1),
		frame: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(theme.Accent)).
			Padding(1, 4),
		box: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(theme.Muted)).
			Padding(1, 2),
	}
}

// prompt renders a shell-style "$ cmd" heading.
func (s styles) prompt(cmd string) string {
	return s.success.Render("$") + " " + s.text.Render(cmd)
}

// checkbox renders "[x] --flag" or "[ ] --flag".
func (s styles) checkbox(on bool, label string) string {
	if on {
		return s.accent.Render("[x] " + label)
	}
	return s.muted.Render("[ ] " + label)
}
