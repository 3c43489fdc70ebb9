package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/unfocus/internal/domain"
)

// breakBarWidth is the number of cells in the break progress bar.
const breakBarWidth = 20

func (m Model) viewSetup(st styles) string {
	s := m.snap.Settings
	var sections []string

	sections = append(sections, st.bold.Render("unfocus"), st.muted.Render("a terminal for humans who forget to rest"), "")

	sections = append(sections, st.prompt("set --interval"))
	sections = append(sections, m.intervals.view(st, m.row == rowInterval), "")

	sections = append(sections, st.prompt("set --flags"))
	notify := st.checkbox(s.NotificationsEnabled, "--notify")
	if s.NotificationsEnabled && m.snap.NotificationsHint != "" {
		notify += st.danger.Render(" (blocked)")
	}
	sections = append(sections, "  "+st.checkbox(s.SoundEnabled, "--sound")+"   "+notify, "")

	sections = append(sections, st.prompt("set --theme"))
	sections = append(sections, m.themes.view(st, m.row == rowTheme), "")

	sections = append(sections, st.selected.Render("$ ./start-session"), "")
	sections = append(sections, st.muted.Render("↑/↓ row · ←/→ choose · [s]ound · [n]otify · enter start · / command · [q]uit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewAmbient(st styles) string {
	var sections []string

	if m.height >= 24 && m.width >= 40 {
		sections = append(sections, st.accent.Render(wordmark), "")
	}

	clock := renderBigTime(domain.FormatClock(m.snap.RemainingSeconds), lipgloss.Color(m.snap.Theme.Accent), m.width)
	sections = append(sections, st.frame.Render(clock))
	sections = append(sections, st.muted.Render("next break in"), "")

	total := m.snap.Settings.IntervalSeconds()
	if total > 0 {
		done := float64(total-m.snap.RemainingSeconds) / float64(total)
		bar := m.progress
		bar.FullColor = m.snap.Theme.Accent
		bar.EmptyColor = m.snap.Theme.Muted
		sections = append(sections, bar.ViewAs(done), "")
	}

	breaks := st.accent.Render(fmt.Sprintf("%d", m.snap.Stats.BreaksTaken)) + " " + st.muted.Render("breaks")
	elapsed := st.accent.Render(domain.FormatElapsed(m.snap.SessionElapsed())) + " " + st.muted.Render("session")
	sections = append(sections, breaks+"    "+elapsed)

	if sess := m.snap.Session; sess != nil && sess.GitRepository != "" {
		where := sess.GitRepository
		if sess.GitBranch != "" {
			where += " @ " + sess.GitBranch
		}
		sections = append(sections, st.muted.Render(where))
	}

	sections = append(sections, "", st.muted.Render("[b]reak now · [e]nd session · [t]heme · / command · [q]uit"))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m Model) viewBreak(st styles) string {
	b := m.snap.ActiveBreak
	if b == nil {
		return st.muted.Render("no active break")
	}

	width := min(max(m.width-10, 30), 56)

	header := st.success.Render("> BREAK_TYPE: " + strings.ToUpper(string(b.Type)))
	content := lipgloss.JoinVertical(lipgloss.Left,
		st.text.Width(width).Render(b.Noticing),
		"",
		st.accent.Width(width).Render(b.Invitation),
	)

	bar := st.accent.Render("[" + blockBar(m.snap.BreakProgress(), breakBarWidth) + "]")
	remaining := st.muted.Render(fmt.Sprintf("%ds remaining", m.snap.BreakRemainingSeconds()))

	return lipgloss.JoinVertical(lipgloss.Center,
		header,
		"",
		st.box.Render(content),
		"",
		bar,
		remaining,
		"",
		st.muted.Render("[ CTRL+C or s to skip ] · [r]epeat · enter done"),
	)
}

func (m Model) viewSummary(st styles) string {
	stats := m.snap.Stats

	row := func(label, value string, style lipgloss.Style) string {
		return st.muted.Render(fmt.Sprintf("%-10s", label)) + style.Render(value)
	}

	streak := fmt.Sprintf("%d %s", stats.StreakDays, plural(stats.StreakDays, "day", "days"))
	if stats.StreakDays > 1 {
		streak += " █▓▒░"
	}

	rows := lipgloss.JoinVertical(lipgloss.Left,
		row("duration:", domain.FormatElapsed(m.snap.SessionElapsed()), st.accent),
		row("breaks:", fmt.Sprintf("%d", stats.BreaksTaken), st.accent),
		row("presence:", fmt.Sprintf("%d min", stats.PresenceMinutes()), st.accent),
		row("streak:", streak, st.success),
	)

	var sections []string
	sections = append(sections, st.success.Render("D O N E"), "")
	sections = append(sections, st.muted.Render(strings.ToLower(m.snap.Now.Format("Monday, January 2, 2006"))), "")
	sections = append(sections, st.box.Render(rows), "")
	if m.quote != "" {
		sections = append(sections, st.success.Render("#")+" "+st.text.Render(m.quote), "")
	}
	sections = append(sections, st.muted.Render("enter ./new-session · esc config · [t]heme · / command · [q]uit"))

	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}
