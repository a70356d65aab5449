package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nathoo/biorome/cli"
	"github.com/nathoo/biorome/engine"
	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Options configures the TUI. Zero values fall back to defaults.
type Options struct {
	SaveDir     string
	Compress    bool
	HistorySize int
	Trace       bool
	Logger      *slog.Logger
}

// Model is the Bubble Tea model for the farm inspector.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs
	opts   Options

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated output lines (unstyled, for re-wrapping)
	cursor   types.Coord

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// outputMsg carries output from the engine into the Update loop.
type outputMsg struct {
	input    string   // echoed player input (empty for the opening overview)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// Cursor keys move the selected tile; plain up/down stay on history.
var (
	keyCursorUp    = key.NewBinding(key.WithKeys("alt+up"))
	keyCursorDown  = key.NewBinding(key.WithKeys("alt+down"))
	keyCursorLeft  = key.NewBinding(key.WithKeys("alt+left"))
	keyCursorRight = key.NewBinding(key.WithKeys("alt+right"))
)

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if opts.SaveDir == "" {
		home, _ := os.UserHomeDir()
		opts.SaveDir = filepath.Join(home, ".biorome", "saves")
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = 100
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return Model{
		engine:  eng,
		defs:    defs,
		opts:    opts,
		input:   ti,
		history: NewHistory(opts.HistorySize),
		trace:   opts.Trace,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs, opts Options) error {
	m := New(eng, defs, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the farm overview.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		lines := []string{
			fmt.Sprintf("%s v%s by %s", m.defs.Farm.Title, m.defs.Farm.Version, m.defs.Farm.Author),
			"Alt+arrows select a tile. Type \"help\" for commands, /help for system commands.",
			"",
		}
		lines = append(lines, m.engine.Step("look").Output...)
		return outputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, engine output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resize()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyCursorUp):
			return m.moveCursor(-1, 0).resize(), nil
		case key.Matches(msg, keyCursorDown):
			return m.moveCursor(1, 0).resize(), nil
		case key.Matches(msg, keyCursorLeft):
			return m.moveCursor(0, -1).resize(), nil
		case key.Matches(msg, keyCursorRight):
			return m.moveCursor(0, 1).resize(), nil
		}

		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// resize fits the viewport under the grid panel. The panel's height depends
// on the selected tile, so this runs after cursor moves and world changes
// as well as on window size changes.
func (m Model) resize() Model {
	if m.height <= 0 {
		return m
	}
	topHeight := 0
	if m.engine != nil {
		topHeight = lipgloss.Height(m.renderTop())
	}
	vpHeight := m.height - topHeight - 2 // 1 status bar + 1 input line
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.refreshViewport()
	return m
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(outputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(outputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m.resize(), nil
	}

	result := m.engine.Step(input)
	output := result.Output
	if m.trace {
		for _, t := range result.Trace {
			output = append(output, "[trace] "+t)
		}
	}
	m = m.appendOutput(outputMsg{input: input, lines: output})
	return m.resize(), nil
}

// appendOutput adds lines to the transcript and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between commands.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		// Grid rows keep their alignment.
		wrapped := rl.text
		if !strings.HasPrefix(rl.text, " ") {
			wrapped = wordWrap(rl.text, width)
		}

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to width at word boundaries. Styled text keeps its
// escape sequences intact.
func wordWrap(text string, width int) string {
	return ansi.Wordwrap(text, width, "")
}

// View renders the full layout: grid and tile panel, transcript, status
// bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.renderTop() + "\n" + m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		msg, err := cli.SaveWorld(m.engine, m.defs, m.opts.SaveDir, arg, m.opts.Compress)
		if err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err)}, false
		}
		m.opts.Logger.Info("world saved", "name", arg, "dir", m.opts.SaveDir)
		return []string{msg}, false

	case "/load":
		msg, err := cli.LoadWorld(m.engine, m.opts.SaveDir, arg)
		if err != nil {
			return []string{fmt.Sprintf("Load failed: %v", err)}, false
		}
		*m = m.clampCursor()
		m.opts.Logger.Info("world loaded", "name", arg, "dir", m.opts.SaveDir)
		return append([]string{msg}, m.engine.Step("look").Output...), false

	case "/help":
		out := append([]string{}, cli.MetaHelp...)
		out = append(out, m.engine.Step("help").Output...)
		return append(out, "",
			"Navigation: Alt+arrows select a tile, PgUp/PgDn scroll, Up/Down for command history"), false

	case "/state":
		return cli.StateLines(m.engine), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
