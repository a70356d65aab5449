package tui

import (
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/biorome/content"
	"github.com/nathoo/biorome/engine"
	"github.com/nathoo/biorome/loader"
	"github.com/nathoo/biorome/scenario"
	"github.com/nathoo/biorome/types"
)

const testScenario = `
day: 2
grid: {rows: 2, cols: 2}
assemblies:
  - {id: h1, premade: Harvesting Assembly}
tiles:
  - {row: 0, col: 0, plant: {type: corn, stage: Mature}, assemblies: [h1]}
  - {row: 1, col: 1, animal: {type: cow}}
`

func testModel(t *testing.T) Model {
	t.Helper()
	return testModelFrom(t, testScenario)
}

func testModelFrom(t *testing.T, yaml string) Model {
	t.Helper()
	quiet := slog.New(slog.DiscardHandler)
	defs, err := loader.LoadFS(content.FS, content.Dir, quiet)
	if err != nil {
		t.Fatalf("loading content: %v", err)
	}
	s, err := scenario.Parse([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	w, err := s.Build(defs, quiet)
	if err != nil {
		t.Fatal(err)
	}
	return New(engine.NewWithWorld(defs, w), defs, Options{SaveDir: t.TempDir(), Logger: quiet})
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Yes.", kindAllowed},
		{"  [x] harvest Corn", kindAllowed},
		{"No.", kindRefused},
		{"No: missing: alarm.", kindRefused},
		{"  [ ] collect Milk (not available)", kindRefused},
		{"[World saved to test.]", kindSystem},
		{"[trace] lookup harvest.corn: transport, battery", kindTrace},
		{"  warning: arm slots exceeded: 2 attached, 1 available", kindError},
		{`unknown plant "cron"`, kindError},
		{"usage: missing <category.key> <assembly>", kindError},
		{"Tile (0,0)", kindHeading},
		{"Inspector commands:", kindHeading},
		{"  Soil: health 100, water 0, fertility 0, recovery 5", kindText},
		{"", kindText},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
	}{
		{"short", 80},
		{"hello world", 5},
		{"h1 is missing: transport, battery, camera, arm, cart", 30},
		{"", 80},
		{"a b c d e", 3},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		for _, line := range strings.Split(got, "\n") {
			if len(line) > tt.width {
				t.Errorf("wordWrap(%q, %d): line %q is too long", tt.text, tt.width, line)
			}
		}
		if strings.Join(strings.Fields(got), " ") != strings.Join(strings.Fields(tt.text), " ") {
			t.Errorf("wordWrap(%q, %d) changed the words: %q", tt.text, tt.width, got)
		}
	}
	if got := wordWrap("hello world", 5); !strings.Contains(got, "\n") {
		t.Errorf("expected a line break, got %q", got)
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("tile 0 0")
	h.Push("can move h1")

	for _, want := range []string{"can move h1", "tile 0 0", "look", "look"} {
		prev, ok := h.Prev("")
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_NextRestoresDraft(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("tile 0 0")

	h.Prev("ti")
	if next, ok := h.Next(); !ok || next != "ti" {
		t.Errorf("expected the draft back, got %q (ok=%v)", next, ok)
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false once navigation has ended")
	}
}

func TestHistory_PrefixFilter(t *testing.T) {
	h := NewHistory(10)
	for _, cmd := range []string{"can move m1", "tile 2 2", "can harvest 0 0 h1", "look"} {
		h.Push(cmd)
	}

	first, _ := h.Prev("CAN")
	second, _ := h.Prev("ignored while navigating")
	if first != "can harvest 0 0 h1" || second != "can move m1" {
		t.Errorf("prefix walk = %q, %q", first, second)
	}
	if next, _ := h.Next(); next != "can harvest 0 0 h1" {
		t.Errorf("Next = %q", next)
	}
	h.ResetCursor()

	if _, ok := h.Prev("dest"); ok {
		t.Error("expected no match for an unused prefix")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(""); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSizeAndSkips(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("b  ") // repeat after whitespace clean-up
	h.Push("g")   // repeat shorthand
	h.Push("c")   // "a" evicted

	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}
	if h.entries[0] != "b" || h.entries[1] != "c" {
		t.Errorf("entries = %v", h.entries)
	}
}

func TestGridLines(t *testing.T) {
	m := testModel(t)

	got := m.gridLines(false)
	want := []string{
		"     0    1",
		" 0 [C.1] ... ",
		" 1  ...  .C. ",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("gridLines =\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestCursorMovesWithAltArrows(t *testing.T) {
	m := testModel(t)

	press := func(m Model, kt tea.KeyType) Model {
		next, _ := m.Update(tea.KeyMsg{Type: kt, Alt: true})
		return next.(Model)
	}

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyRight)
	if m.cursor != (types.Coord{Row: 1, Col: 1}) {
		t.Fatalf("cursor = %+v, want (1,1)", m.cursor)
	}

	// Clamped at the edge.
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyRight)
	if m.cursor != (types.Coord{Row: 1, Col: 1}) {
		t.Errorf("cursor left the grid: %+v", m.cursor)
	}

	m = press(m, tea.KeyUp)
	m = press(m, tea.KeyLeft)
	if m.cursor != (types.Coord{}) {
		t.Errorf("cursor = %+v, want (0,0)", m.cursor)
	}
}

// crowdedScenario puts three assemblies on one tile so its panel is much
// taller than the others.
const crowdedScenario = `
grid: {rows: 2, cols: 2}
assemblies:
  - {id: h1, premade: Harvesting Assembly}
  - {id: m1, premade: Livestock Mover}
  - {id: k1, premade: Collar Kit}
tiles:
  - {row: 1, col: 1, animal: {type: cow}, assemblies: [h1, m1, k1]}
`

func TestViewFitsWindow(t *testing.T) {
	for _, size := range []struct{ w, h int }{{120, 30}, {80, 12}} {
		m := testModelFrom(t, crowdedScenario)
		next, _ := m.Update(tea.WindowSizeMsg{Width: size.w, Height: size.h})
		m = next.(Model)

		check := func(step string) {
			t.Helper()
			if got := lipgloss.Height(m.View()); got > size.h {
				t.Errorf("%dx%d after %s: view is %d lines tall", size.w, size.h, step, got)
			}
		}
		check("start")

		for _, kt := range []tea.KeyType{tea.KeyDown, tea.KeyRight} {
			next, _ = m.Update(tea.KeyMsg{Type: kt, Alt: true})
			m = next.(Model)
		}
		if m.cursor != (types.Coord{Row: 1, Col: 1}) {
			t.Fatalf("cursor = %+v, want (1,1)", m.cursor)
		}
		check("moving to the crowded tile")

		m.input.SetValue("/save crowd")
		next, _ = m.handleEnter()
		m = next.(Model)
		m.input.SetValue("/load crowd")
		next, _ = m.handleEnter()
		m = next.(Model)
		check("/load")
	}
}

func TestClipLines(t *testing.T) {
	if got := clipLines("a\nb", 3); got != "a\nb" {
		t.Errorf("short input changed: %q", got)
	}
	got := strings.Split(clipLines("a\nb\nc\nd", 2), "\n")
	if len(got) != 2 || got[0] != "a" || !strings.Contains(got[1], "…") {
		t.Errorf("clipLines = %q", got)
	}
}

func TestPanelLines(t *testing.T) {
	m := testModel(t)

	joined := strings.Join(m.panelLines(), "\n")
	for _, want := range []string{"Tile (0,0)", "Corn, Mature", "h1  Harvesting Assembly", "[x] harvest Corn"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in panel:\n%s", want, joined)
		}
	}

	m = m.moveCursor(1, 1)
	joined = strings.Join(m.panelLines(), "\n")
	if !strings.Contains(joined, "Cow") || !strings.Contains(joined, "No assemblies here.") {
		t.Errorf("unexpected panel for (1,1):\n%s", joined)
	}
}

func TestHandleEnter_RunsCommand(t *testing.T) {
	m := testModel(t)
	m.trace = true
	m.input.SetValue("can harvest 0 0 h1")

	next, _ := m.handleEnter()
	m = next.(Model)

	var texts []string
	for _, rl := range m.rawLines {
		texts = append(texts, rl.text)
	}
	joined := strings.Join(texts, "\n")
	for _, want := range []string{"> can harvest 0 0 h1", "Yes.", "[trace] lookup harvest.corn:"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in transcript:\n%s", want, joined)
		}
	}
	if m.lastCmd != "can harvest 0 0 h1" {
		t.Errorf("lastCmd = %q", m.lastCmd)
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := testModel(t)

	for _, cmd := range []string{"/quit", "/exit"} {
		if _, quit := m.handleMeta(cmd); !quit {
			t.Errorf("expected quit=true for %s", cmd)
		}
	}
}

func TestHandleMeta_SaveAndLoad(t *testing.T) {
	m := testModel(t)

	output, quit := m.handleMeta("/save test")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || output[0] != "World saved to test." {
		t.Fatalf("expected save confirmation, got %v", output)
	}

	m.engine.Step("day 7")
	m.cursor = types.Coord{Row: 1, Col: 1}
	output, _ = m.handleMeta("/load test")
	if len(output) == 0 || output[0] != "World loaded from test (day 2)." {
		t.Errorf("expected load confirmation, got %v", output)
	}
	if m.engine.World.Day != 2 {
		t.Errorf("day = %d after load, want 2", m.engine.World.Day)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := testModel(t)

	output, _ := m.handleMeta("/load nonexistent")
	if len(output) == 0 || !strings.Contains(output[0], "Load failed") {
		t.Errorf("expected load failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := testModel(t)

	output, _ := m.handleMeta("/help")
	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/save", "/load", "/quit", "can harvest", "Alt+arrows"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := testModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected trace enabled, got %v", output)
	}
	output, _ = m.handleMeta("/trace")
	if m.trace || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected trace disabled, got %v", output)
	}
}

func TestHandleMeta_UnknownAndState(t *testing.T) {
	m := testModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}

	output, _ = m.handleMeta("/state")
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Day: 2") || !strings.Contains(joined, "Grid: 2x2") {
		t.Errorf("unexpected state output:\n%s", joined)
	}
}
