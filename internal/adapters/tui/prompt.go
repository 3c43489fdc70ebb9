package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/unfocus/internal/commands"
)

// maxPromptLines bounds the scrollback kept under the prompt.
const maxPromptLines = 12

// prompt is the slash-command line opened with "/".
type prompt struct {
	active  bool
	input   textinput.Model
	interp  *commands.Interpreter
	lines   []commands.Line
	history []string
	// histPos indexes history while browsing with up/down; len(history)
	// means "not browsing".
	histPos int
}

func newPrompt(interp *commands.Interpreter) prompt {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type /help"
	ti.CharLimit = 80
	ti.Width = 40
	return prompt{input: ti, interp: interp}
}

// open focuses the input, seeded with a slash.
func (p *prompt) open() tea.Cmd {
	p.active = true
	p.histPos = len(p.history)
	p.input.SetValue("/")
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *prompt) close() {
	p.active = false
	p.input.Blur()
	p.input.Reset()
}

// update handles a key while the prompt is open. It reports whether a
// command ran, so the caller can refresh its snapshot.
func (p *prompt) update(ctx context.Context, msg tea.Msg) (bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return false, cmd
	}

	switch key.Type {
	case tea.KeyEsc:
		p.close()
		return false, nil
	case tea.KeyEnter:
		line := p.input.Value()
		p.close()
		p.run(ctx, line)
		return true, nil
	case tea.KeyTab:
		p.complete()
		return false, nil
	case tea.KeyUp:
		p.browse(-1)
		return false, nil
	case tea.KeyDown:
		p.browse(1)
		return false, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return false, cmd
}

// run executes one line and appends its output to the scrollback.
func (p *prompt) run(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" || strings.TrimSpace(line) == "/" {
		return
	}
	p.history = append(p.history, line)
	p.histPos = len(p.history)

	res := p.interp.Execute(ctx, line)
	if res.Clear {
		p.lines = nil
	}
	p.lines = append(p.lines, res.Lines...)
	if over := len(p.lines) - maxPromptLines; over > 0 {
		p.lines = p.lines[over:]
	}
}

// complete fills in the command name from a unique prefix match, or the
// longest prefix shared by all matches.
func (p *prompt) complete() {
	value := p.input.Value()
	if strings.Contains(strings.TrimSpace(value), " ") {
		return
	}
	matches := commands.Complete(value)
	switch len(matches) {
	case 0:
		return
	case 1:
		p.input.SetValue(matches[0] + " ")
	default:
		p.input.SetValue(commonPrefix(matches))
		p.lines = append(p.lines, commands.Line{Kind: commands.LineSystem, Text: strings.Join(matches, "  ")})
		if over := len(p.lines) - maxPromptLines; over > 0 {
			p.lines = p.lines[over:]
		}
	}
	p.input.CursorEnd()
}

// browse walks the command history.
func (p *prompt) browse(delta int) {
	if len(p.history) == 0 {
		return
	}
	next := p.histPos + delta
	if next < 0 {
		next = 0
	}
	if next >= len(p.history) {
		p.histPos = len(p.history)
		p.input.SetValue("/")
		p.input.CursorEnd()
		return
	}
	p.histPos = next
	p.input.SetValue(p.history[next])
	p.input.CursorEnd()
}

// view renders the scrollback and, while open, the input line.
func (p prompt) view(st styles) string {
	var out []string
	for _, l := range p.lines {
		switch l.Kind {
		case commands.LineInput:
			out = append(out, st.muted.Render(l.Text))
		case commands.LineError:
			out = append(out, st.danger.Render(l.Text))
		case commands.LineSystem:
			out = append(out, st.success.Render(l.Text))
		default:
			out = append(out, st.text.Render(l.Text))
		}
	}
	if p.active {
		out = append(out, p.input.View())
	}
	return strings.Join(out, "\n")
}

func commonPrefix(words []string) string {
	if len(words) == 0 {
		return ""
	}
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
