// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/unfocus/internal/commands"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
)

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// statusLifetime is how many ticks a status message stays visible.
const statusLifetime = 4

// setup screen rows
const (
	rowInterval = iota
	rowTheme
	rowCount
)

// Model represents the TUI state.
type Model struct {
	ctx    context.Context
	ctrl   ports.Controller
	snap   domain.Snapshot
	prompt prompt

	tick     time.Duration
	rnd      domain.RandSource
	progress progress.Model

	width  int
	height int

	// setup screen
	row       int
	intervals picker
	themes    picker

	// status is a one-line message from the last action, cleared after
	// statusTicks ticks. statusErr styles it as an error.
	status      string
	statusErr   bool
	statusTicks int

	// quote is picked once per visit to the summary screen.
	quote string
}

// NewModel creates a TUI model driving ctrl. tick is the period of the
// Tick calls the model makes while running.
func NewModel(ctx context.Context, ctrl ports.Controller, tick time.Duration) Model {
	if tick <= 0 {
		tick = time.Second
	}
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		prompt:   newPrompt(commands.New(ctrl)),
		tick:     tick,
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7175)),
		progress: progress.New(progress.WithoutPercentage()),
	}
	m.refresh()
	return m
}

// SetRandom sets the source used to pick summary quotes.
func (m *Model) SetRandom(r domain.RandSource) {
	m.rnd = r
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// tickCmd creates a command that sends a tick message.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh pulls a fresh snapshot and syncs view state derived from it.
func (m *Model) refresh() {
	m.snap = m.ctrl.Snapshot()
	m.intervals = newPicker(intervalItems(m.snap.Settings.Interval), strconv.Itoa(m.snap.Settings.Interval))
	m.themes = newPicker(themeItems(), m.snap.Settings.ThemeID)

	if m.snap.Screen == domain.ScreenSummary {
		if m.quote == "" {
			m.quote = domain.SummaryQuote(m.snap.Stats.BreaksTaken, m.rnd)
		}
	} else {
		m.quote = ""
	}
}

// act runs a controller operation and records its outcome in the status
// line.
func (m *Model) act(op func(context.Context) error, ok string) {
	if err := op(m.ctx); err != nil {
		m.status, m.statusErr = err.Error(), true
	} else {
		m.status, m.statusErr = ok, false
	}
	m.statusTicks = statusLifetime
	m.refresh()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.ctrl.Tick(m.ctx)
		if m.statusTicks > 0 {
			m.statusTicks--
			if m.statusTicks == 0 {
				m.status = ""
			}
		}
		m.refresh()
		return m, m.tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-8, 60), 10)
		return m, nil

	case tea.KeyMsg:
		if m.prompt.active {
			ran, cmd := m.prompt.update(m.ctx, msg)
			if ran {
				m.status = ""
				m.refresh()
			}
			return m, cmd
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.prompt.active {
		_, cmd = m.prompt.update(m.ctx, msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "/" {
		m.status = ""
		return m, m.prompt.open()
	}

	switch m.snap.Screen {
	case domain.ScreenSetup:
		return m.handleSetupKey(key)
	case domain.ScreenAmbient:
		return m.handleAmbientKey(key)
	case domain.ScreenBreak:
		return m.handleBreakKey(key)
	case domain.ScreenSummary:
		return m.handleSummaryKey(key)
	}
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleSetupKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.row = (m.row + rowCount - 1) % rowCount
	case "down", "j", "tab":
		m.row = (m.row + 1) % rowCount
	case "left", "h", "right", "l":
		delta := 1
		if key == "left" || key == "h" {
			delta = -1
		}
		m.pick(delta)
	case "s":
		sound := !m.snap.Settings.SoundEnabled
		m.act(func(ctx context.Context) error {
			return m.ctrl.UpdateSettings(ctx, domain.SettingsPatch{SoundEnabled: &sound})
		}, "sound: "+onOff(sound))
	case "n":
		notify := !m.snap.Settings.NotificationsEnabled
		m.act(func(ctx context.Context) error {
			return m.ctrl.UpdateSettings(ctx, domain.SettingsPatch{NotificationsEnabled: &notify})
		}, "notifications: "+onOff(notify))
	case "enter":
		m.act(m.ctrl.StartSession, "session started")
	}
	return m, nil
}

// pick moves the focused setup row and applies the new choice.
func (m *Model) pick(delta int) {
	switch m.row {
	case rowInterval:
		if !m.intervals.move(delta) {
			return
		}
		interval, err := strconv.Atoi(m.intervals.current().Value)
		if err != nil {
			return
		}
		m.act(func(ctx context.Context) error {
			return m.ctrl.UpdateSettings(ctx, domain.SettingsPatch{Interval: &interval})
		}, fmt.Sprintf("interval: %dm", interval))
	case rowTheme:
		if !m.themes.move(delta) {
			return
		}
		theme := m.themes.current().Value
		m.act(func(ctx context.Context) error {
			return m.ctrl.UpdateSettings(ctx, domain.SettingsPatch{ThemeID: &theme})
		}, "theme: "+theme)
	}
}

func (m Model) handleAmbientKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "b":
		m.act(m.ctrl.TriggerBreak, "")
	case "e":
		m.act(m.ctrl.EndSession, "")
	case "t":
		m.act(m.ctrl.CycleTheme, "")
	}
	return m, nil
}

func (m Model) handleBreakKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "s":
		m.act(m.ctrl.SkipBreak, "break skipped")
	case "r":
		m.act(m.ctrl.RepeatBreak, "once more, from the top")
	case "enter":
		m.act(m.ctrl.CompleteBreak, "break complete. welcome back.")
	}
	return m, nil
}

func (m Model) handleSummaryKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter", "n":
		m.act(m.ctrl.StartSession, "session started")
	case "esc", "c":
		m.act(m.ctrl.ReturnToSetup, "")
	case "t":
		m.act(m.ctrl.CycleTheme, "")
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	st := newStyles(m.snap.Theme)

	var body string
	switch m.snap.Screen {
	case domain.ScreenAmbient:
		body = m.viewAmbient(st)
	case domain.ScreenBreak:
		body = m.viewBreak(st)
	case domain.ScreenSummary:
		body = m.viewSummary(st)
	default:
		body = m.viewSetup(st)
	}

	sections := []string{body}
	if m.status != "" {
		style := st.muted
		if m.statusErr {
			style = st.danger
		}
		sections = append(sections, "", style.Render(m.status))
	}
	if m.snap.NotificationsHint != "" {
		sections = append(sections, st.danger.Render(m.snap.NotificationsHint))
	}
	if out := m.prompt.view(st); out != "" {
		sections = append(sections, "", lipgloss.NewStyle().Align(lipgloss.Left).Render(out))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func intervalItems(current int) []pickerItem {
	choices := append([]int(nil), domain.IntervalChoices...)
	found := false
	for _, c := range choices {
		if c == current {
			found = true
			break
		}
	}
	if !found && current > 0 {
		choices = append(choices, current)
		sort.Ints(choices)
	}

	items := make([]pickerItem, 0, len(choices))
	for _, c := range choices {
		items = append(items, pickerItem{Label: fmt.Sprintf("%dm", c), Value: strconv.Itoa(c)})
	}
	return items
}

func themeItems() []pickerItem {
	themes := domain.Themes()
	items := make([]pickerItem, 0, len(themes))
	for _, t := range themes {
		items = append(items, pickerItem{Label: strings.ToLower(t.Name), Value: t.ID})
	}
	return items
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
