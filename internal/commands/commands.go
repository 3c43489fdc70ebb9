// Package commands implements the slash-command interpreter behind the
// terminal prompt. Commands map one-to-one onto controller operations.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
)

// LineKind classifies a line of prompt output for styling.
type LineKind string

const (
	LineInput  LineKind = "input"
	LineOutput LineKind = "output"
	LineError  LineKind = "error"
	LineSystem LineKind = "system"
)

// Line is one line of prompt output.
type Line struct {
	Kind LineKind
	Text string
}

// Result is the outcome of executing one prompt line.
type Result struct {
	Lines []Line
	// Clear asks the presenter to drop earlier output.
	Clear bool
}

func (r *Result) add(kind LineKind, format string, args ...any) {
	r.Lines = append(r.Lines, Line{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

// Command describes one entry of the help listing.
type Command struct {
	Name        string
	Usage       string
	Description string
}

var registry = []Command{
	{Name: "help", Usage: "/help", Description: "show available commands"},
	{Name: "start", Usage: "/start", Description: "start a new session"},
	{Name: "break", Usage: "/break", Description: "trigger a break now"},
	{Name: "end", Usage: "/end", Description: "end current session"},
	{Name: "skip", Usage: "/skip", Description: "skip the current break"},
	{Name: "done", Usage: "/done", Description: "finish the current break"},
	{Name: "repeat", Usage: "/repeat", Description: "restart the current break"},
	{Name: "theme", Usage: "/theme", Description: "cycle through themes"},
	{Name: "interval", Usage: "/interval N", Description: "set minutes between breaks"},
	{Name: "sound", Usage: "/sound on|off", Description: "toggle the break chime"},
	{Name: "notify", Usage: "/notify on|off", Description: "toggle desktop notifications"},
	{Name: "settings", Usage: "/settings", Description: "show current settings"},
	{Name: "stats", Usage: "/stats", Description: "show today's stats"},
	{Name: "clear", Usage: "/clear", Description: "clear terminal output"},
	{Name: "eyes", Usage: "/eyes", Description: "start eye break"},
	{Name: "breath", Usage: "/breath", Description: "start breathing break"},
	{Name: "posture", Usage: "/posture", Description: "start posture check"},
	{Name: "hands", Usage: "/hands", Description: "start hand stretch"},
	{Name: "hydrate", Usage: "/hydrate", Description: "start hydration break"},
	{Name: "window", Usage: "/window", Description: "start window break"},
}

// Commands returns the documented commands in help order.
func Commands() []Command {
	out := make([]Command, len(registry))
	copy(out, registry)
	return out
}

func commandNames() []string {
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.Name
	}
	return names
}

// Interpreter executes prompt lines against a controller.
type Interpreter struct {
	ctrl ports.Controller
}

// New creates an interpreter bound to ctrl.
func New(ctrl ports.Controller) *Interpreter {
	return &Interpreter{ctrl: ctrl}
}

// Execute runs one prompt line. Blank input yields an empty result.
func (in *Interpreter) Execute(ctx context.Context, raw string) Result {
	var res Result

	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return res
	}
	res.add(LineInput, "> %s", strings.TrimSpace(raw))

	fields := strings.Fields(trimmed)
	name, args := fields[0], fields[1:]
	slashed := strings.HasPrefix(name, "/")
	name = strings.TrimPrefix(name, "/")

	switch name {
	case "help":
		in.help(&res)
	case "start":
		in.start(ctx, &res)
	case "break":
		if err := in.ctrl.TriggerBreak(ctx); err != nil {
			res.add(LineError, "%s", in.transitionError(err, "no active session"))
			break
		}
		res.add(LineSystem, "triggering break...")
	case "end":
		if err := in.ctrl.EndSession(ctx); err != nil {
			res.add(LineError, "no active session")
			break
		}
		res.add(LineSystem, "ending session...")
	case "skip":
		in.breakAction(&res, in.ctrl.SkipBreak(ctx), "break skipped")
	case "done":
		in.breakAction(&res, in.ctrl.CompleteBreak(ctx), "break complete. welcome back.")
	case "repeat":
		in.breakAction(&res, in.ctrl.RepeatBreak(ctx), "once more, from the top")
	case "theme":
		if err := in.ctrl.CycleTheme(ctx); err != nil {
			res.add(LineError, "%v", err)
			break
		}
		res.add(LineSystem, "theme: %s", in.ctrl.Snapshot().Settings.ThemeID)
	case "interval":
		in.interval(ctx, &res, args)
	case "sound":
		in.toggle(ctx, &res, args, "sound", "sound", func(p *domain.SettingsPatch, v bool) { p.SoundEnabled = &v })
	case "notify", "notifications":
		in.toggle(ctx, &res, args, "notify", "notifications", func(p *domain.SettingsPatch, v bool) { p.NotificationsEnabled = &v })
	case "settings", "config":
		in.settings(&res)
	case "stats":
		in.stats(&res)
	case "clear":
		res.Clear = true
		res.Lines = nil
	case "eyes", "breath", "posture", "hands", "window", "hydrate", "hydration":
		in.specificBreak(ctx, &res, name)
	default:
		if slashed || !in.easterEgg(&res, name, args) {
			in.unknown(&res, name, slashed)
		}
	}

	return res
}

func (in *Interpreter) help(res *Result) {
	res.add(LineOutput, "")
	res.add(LineSystem, "UNFOCUS COMMANDS")
	res.add(LineOutput, "%s", strings.Repeat("─", 36))
	for _, c := range registry {
		res.add(LineOutput, "  %-16s %s", c.Usage, c.Description)
	}
	res.add(LineOutput, "")
	res.add(LineOutput, "tip: commands work with or without /")
}

func (in *Interpreter) start(ctx context.Context, res *Result) {
	if err := in.ctrl.StartSession(ctx); err != nil {
		if errors.Is(err, domain.ErrSessionAlreadyActive) {
			res.add(LineError, "session already active")
			return
		}
		res.add(LineError, "%v", err)
		return
	}
	snap := in.ctrl.Snapshot()
	res.add(LineSystem, "initializing session...")
	res.add(LineOutput, "next break in %s", domain.FormatClock(snap.RemainingSeconds))
}

func (in *Interpreter) breakAction(res *Result, err error, ok string) {
	if err != nil {
		res.add(LineError, "no active break")
		return
	}
	res.add(LineSystem, "%s", ok)
}

func (in *Interpreter) specificBreak(ctx context.Context, res *Result, name string) {
	t, err := domain.ParseBreakType(name)
	if err != nil {
		res.add(LineError, "%v", err)
		return
	}
	if err := in.ctrl.TriggerSpecificBreak(ctx, t); err != nil {
		res.add(LineError, "%s", in.transitionError(err, "start a session first with /start"))
		return
	}
	res.add(LineSystem, "starting %s break...", t)
}

func (in *Interpreter) interval(ctx context.Context, res *Result, args []string) {
	if len(args) == 0 {
		res.add(LineOutput, "interval: %d min", in.ctrl.Snapshot().Settings.Interval)
		return
	}
	minutes, err := strconv.Atoi(strings.TrimSuffix(args[0], "m"))
	if err != nil {
		res.add(LineError, "interval: %q is not a number", args[0])
		return
	}
	if err := in.ctrl.UpdateSettings(ctx, domain.SettingsPatch{Interval: &minutes}); err != nil {
		res.add(LineError, "%v", err)
		return
	}
	res.add(LineSystem, "interval: %d min", minutes)
}

func (in *Interpreter) toggle(ctx context.Context, res *Result, args []string, cmd, label string, set func(*domain.SettingsPatch, bool)) {
	if len(args) == 0 {
		res.add(LineError, "usage: /%s on|off", cmd)
		return
	}
	var on bool
	switch args[0] {
	case "on", "true", "yes", "1":
		on = true
	case "off", "false", "no", "0":
		on = false
	default:
		res.add(LineError, "%s: expected on or off, got %q", label, args[0])
		return
	}
	var patch domain.SettingsPatch
	set(&patch, on)
	if err := in.ctrl.UpdateSettings(ctx, patch); err != nil {
		res.add(LineError, "%v", err)
		return
	}
	res.add(LineSystem, "%s: %s", label, onOff(on))
}

func (in *Interpreter) settings(res *Result) {
	s := in.ctrl.Snapshot().Settings
	res.add(LineOutput, "interval:      %d min", s.Interval)
	res.add(LineOutput, "sound:         %s", onOff(s.SoundEnabled))
	res.add(LineOutput, "notifications: %s", onOff(s.NotificationsEnabled))
	res.add(LineOutput, "theme:         %s", s.ThemeID)
}

func (in *Interpreter) stats(res *Result) {
	st := in.ctrl.Snapshot().Stats
	res.add(LineOutput, "breaks today: %d", st.BreaksTaken)
	res.add(LineOutput, "presence:     %dm", st.PresenceMinutes())
	res.add(LineOutput, "streak:       %d %s", st.StreakDays, plural(st.StreakDays, "day", "days"))
}

func (in *Interpreter) easterEgg(res *Result, name string, args []string) bool {
	switch name {
	case "sudo":
		res.add(LineError, "nice try, hacker.")
	case "exit", "quit":
		res.add(LineOutput, "you cannot escape. take a break instead.")
	case "ls":
		res.add(LineOutput, "breaks/  config/  stats/  README.md")
	case "pwd":
		res.add(LineOutput, "/home/human/unfocus")
	case "whoami":
		res.add(LineOutput, "someone who needs to touch grass")
	case "neofetch":
		theme := in.ctrl.Snapshot().Settings.ThemeID
		for _, l := range []string{
			"",
			"       ▄▄▄▄▄▄▄      user@unfocus",
			"      ▐░░░░░░░▌     ─────────────",
			"      ▐░▄▄▄░░░▌     OS: unfocus",
			"      ▐░░░░░░░▌     Shell: /bin/rest",
			"      ▐░░░░░░░▌     Theme: " + theme,
			"       ▀▀▀▀▀▀▀      Mission: touch grass",
			"",
		} {
			res.add(LineOutput, "%s", l)
		}
	case "cat":
		if len(args) > 0 && args[0] == "readme.md" {
			for _, l := range []string{
				"", "# unfocus", "", "a terminal for humans who forget to rest.", "",
				"## usage", "  /start    begin a focus session", "  /break    take a break now",
				"  /end      end session", "",
			} {
				res.add(LineOutput, "%s", l)
			}
			return true
		}
		file := "missing file"
		if len(args) > 0 {
			file = args[0]
		}
		res.add(LineError, "cat: %s: No such file", file)
	default:
		return false
	}
	return true
}

func (in *Interpreter) unknown(res *Result, name string, slashed bool) {
	if slashed {
		res.add(LineError, "unknown command: /%s", name)
	} else {
		res.add(LineError, "command not found: %s", name)
	}
	if s, ok := Suggest(name); ok {
		res.add(LineOutput, "did you mean /%s?", s)
	}
	res.add(LineOutput, "type /help for available commands")
}

// Suggest returns the closest known command name for a mistyped one.
func Suggest(name string) (string, bool) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "/")
	if name == "" {
		return "", false
	}
	matches := fuzzy.Find(name, commandNames())
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}

// Complete returns the commands that start with the typed prefix, with the
// leading slash preserved when it was typed.
func Complete(prefix string) []string {
	p := strings.ToLower(strings.TrimSpace(prefix))
	slashed := strings.HasPrefix(p, "/")
	p = strings.TrimPrefix(p, "/")

	var out []string
	for _, c := range registry {
		if strings.HasPrefix(c.Name, p) {
			if slashed {
				out = append(out, "/"+c.Name)
			} else {
				out = append(out, c.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// transitionError explains a refused break trigger. idle is the message
// used when no session is running.
func (in *Interpreter) transitionError(err error, idle string) string {
	if !errors.Is(err, domain.ErrInvalidTransition) {
		return err.Error()
	}
	if in.ctrl.Snapshot().Screen == domain.ScreenBreak {
		return "already on a break"
	}
	return idle
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
