// Package repl is an interactive query editor that shows live
// suggestions from the completion engine.
package repl

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/esqlc/internal/completion"
)

const defaultVisible = 10

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Background(lipgloss.Color("236"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// suggestionsMsg carries the result of one engine request. Results of
// superseded requests are dropped.
type suggestionsMsg struct {
	seq   int
	items []completion.Suggestion
	err   error
}

// Options configure a Model.
type Options struct {
	Query      string
	NoColor    bool
	MaxVisible int
}

// Model is the bubbletea model of the REPL.
type Model struct {
	ctx    context.Context
	engine *completion.Engine
	input  textinput.Model

	// spinner shows while a request is pending.
	spinner spinner.Model
	pending bool

	all      []completion.Suggestion
	visible  []completion.Suggestion
	selected int
	seq      int
	err      error

	noColor    bool
	maxVisible int
	width      int

	// Final is the query accepted with Enter; empty when the REPL was
	// left with Esc or Ctrl+C.
	Final string
}

// New creates a model asking engine for suggestions.
func New(ctx context.Context, engine *completion.Engine, opts Options) *Model {
	ti := textinput.New()
	ti.Prompt = "esql> "
	ti.Placeholder = "FROM index | ..."
	ti.CharLimit = 4096
	ti.SetWidth(80)
	ti.SetValue(opts.Query)
	ti.CursorEnd()
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	maxVisible := opts.MaxVisible
	if maxVisible <= 0 {
		maxVisible = defaultVisible
	}
	return &Model{
		ctx:        ctx,
		engine:     engine,
		input:      ti,
		spinner:    sp,
		noColor:    opts.NoColor,
		maxVisible: maxVisible,
	}
}

// Init requests the suggestions of the initial query and starts the
// spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(completion.Trigger{Kind: completion.TriggerInvoked}), m.spinner.Tick)
}

// cursor returns the byte offset of the caret.
func (m *Model) cursor() int {
	return byteOffset(m.input.Value(), m.input.Position())
}

// refresh asks for the suggestions at the start of the word under the
// cursor; the word itself only narrows the list.
func (m *Model) refresh(trigger completion.Trigger) tea.Cmd {
	m.seq++
	m.pending = true
	seq := m.seq
	text, cursor := m.input.Value(), m.cursor()
	req := completion.Request{
		Query:   text,
		Offset:  cursor - len(wordBefore(text, cursor)),
		Trigger: trigger,
	}
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		items, err := engine.Suggest(ctx, req)
		return suggestionsMsg{seq: seq, items: items, err: err}
	}
}

func (m *Model) renarrow() {
	m.visible = narrow(m.all, wordBefore(m.input.Value(), m.cursor()))
	m.selected = clamp(m.selected, 0, max(len(m.visible)-1, 0))
}

// Update handles key presses and engine results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(msg.Width-len(m.input.Prompt)-1, 10))
		return m, nil

	case suggestionsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.all, m.err = msg.items, msg.err
		m.pending = false
		m.selected = 0
		m.renarrow()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.Final = m.input.Value()
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil
		case "tab":
			if len(m.visible) == 0 {
				return m, m.refresh(completion.Trigger{Kind: completion.TriggerInvoked})
			}
			s := m.visible[m.selected]
			text, caret := apply(m.input.Value(), m.cursor(), s)
			m.input.SetValue(text)
			m.input.SetCursor(runeOffset(text, caret))
			trigger := completion.Trigger{Kind: completion.TriggerInvoked}
			if s.Command != nil && s.Command.ID == completion.TriggerSuggestCommand.ID {
				trigger = completion.Trigger{Kind: completion.TriggerCharacter, Character: " "}
			}
			return m, m.refresh(trigger)
		}

		before, pos := m.input.Value(), m.input.Position()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		switch {
		case m.input.Value() != before:
			trigger := completion.Trigger{Kind: completion.TriggerInvoked}
			if completion.IsTriggerCharacter(msg.Text) {
				trigger = completion.Trigger{Kind: completion.TriggerCharacter, Character: msg.Text}
			}
			return m, tea.Batch(cmd, m.refresh(trigger))
		case m.input.Position() != pos:
			return m, tea.Batch(cmd, m.refresh(completion.Trigger{Kind: completion.TriggerInvoked}))
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) render(style lipgloss.Style, s string) string {
	if m.noColor {
		return s
	}
	return style.Render(s)
}

// Content renders the editor without terminal settings.
func (m *Model) Content() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.render(errorStyle, "error: "+m.err.Error()))
		b.WriteString("\n")
	}

	first := 0
	if m.selected >= m.maxVisible {
		first = m.selected - m.maxVisible + 1
	}
	last := min(first+m.maxVisible, len(m.visible))
	for i := first; i < last; i++ {
		s := m.visible[i]
		line := fmt.Sprintf("  %-24s %s", s.Label, m.render(detailStyle, firstLine(s.Detail)))
		if i == m.selected {
			line = m.render(selectedStyle, fmt.Sprintf("> %-24s", s.Label)) + " " + m.render(detailStyle, firstLine(s.Detail))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if hidden := len(m.visible) - last; hidden > 0 {
		fmt.Fprintf(&b, "  … %d more\n", hidden)
	}
	if m.pending {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.render(helpStyle, "tab accept • ↑/↓ select • enter done • esc quit"))
	return b.String()
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	return tea.NewView(m.Content())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Run starts the REPL and returns the query accepted with Enter.
func Run(ctx context.Context, engine *completion.Engine, opts Options, progOpts ...tea.ProgramOption) (string, error) {
	m := New(ctx, engine, opts)
	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(*Model); ok {
		return fm.Final, nil
	}
	return "", nil
}
