package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/biorome/engine"
	"github.com/nathoo/biorome/types"
)

// moveCursor shifts the selected tile, clamped to the grid.
func (m Model) moveCursor(dr, dc int) Model {
	rows, cols := m.engine.World.Rows(), m.engine.World.Cols()
	r, c := m.cursor.Row+dr, m.cursor.Col+dc
	if r >= 0 && r < rows {
		m.cursor.Row = r
	}
	if c >= 0 && c < cols {
		m.cursor.Col = c
	}
	return m
}

// clampCursor keeps the cursor valid after the world is replaced.
func (m Model) clampCursor() Model {
	rows, cols := m.engine.World.Rows(), m.engine.World.Cols()
	m.cursor.Row = min(max(m.cursor.Row, 0), max(rows-1, 0))
	m.cursor.Col = min(max(m.cursor.Col, 0), max(cols-1, 0))
	return m
}

// gridLines renders the farm with column headers and the cursor cell
// highlighted. Each cell is five columns wide; without styling the cursor
// cell is bracketed so it can be read as plain text.
func (m Model) gridLines(styled bool) []string {
	cells := m.engine.Glyphs()
	if len(cells) == 0 {
		return nil
	}

	var head strings.Builder
	head.WriteString("   ")
	for c := range cells[0] {
		fmt.Fprintf(&head, "  %-3d", c)
	}
	lines := []string{strings.TrimRight(head.String(), " ")}

	for r, row := range cells {
		var b strings.Builder
		fmt.Fprintf(&b, "%2d ", r)
		for c, cell := range row {
			b.WriteString(renderCell(cell, r == m.cursor.Row && c == m.cursor.Col, styled))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func renderCell(cell engine.Cell, selected, styled bool) string {
	text := cell.String()
	if !styled {
		if selected {
			return "[" + text + "]"
		}
		return " " + text + " "
	}
	switch {
	case selected:
		return styleCursor.Render(" " + text + " ")
	case cell.Ripe:
		return styleCellRipe.Render(" " + text + " ")
	default:
		return styleCell.Render(" " + text + " ")
	}
}

// panelLines describes the selected tile and what each assembly on it can do.
func (m Model) panelLines() []string {
	t := m.engine.World.Tile(m.cursor.Row, m.cursor.Col)
	if t == nil {
		return []string{"(no tile)"}
	}
	lines := []string{fmt.Sprintf("Tile (%d,%d)", t.Row, t.Col)}
	lines = append(lines, m.tileSummary(t)...)

	if len(t.Assemblies) == 0 {
		return append(lines, "", "No assemblies here.")
	}
	for _, a := range t.Assemblies {
		lines = append(lines, "", fmt.Sprintf("%s  %s", a.ID, a.Name))
		actions := m.engine.AvailableActions(t, a.ID)
		if len(actions) == 0 {
			lines = append(lines, "  nothing to do here")
		}
		for _, act := range actions {
			lines = append(lines, "  "+engine.FormatAction(act))
		}
	}
	return lines
}

func (m Model) tileSummary(t *types.Tile) []string {
	var out []string
	if p := t.Plant; p != nil {
		label := p.Type
		if pt, ok := m.engine.Defs.Plant(p.Type); ok && pt.Label != "" {
			label = pt.Label
		}
		out = append(out, fmt.Sprintf("%s, %s", label, p.GrowthStage))
	}
	if a := t.Animal; a != nil {
		label := a.Type
		if at, ok := m.engine.Defs.Animal(a.Type); ok && at.Label != "" {
			label = at.Label
		}
		out = append(out, label)
	}
	if len(out) == 0 {
		out = append(out, "empty")
	}
	return out
}

// renderTop joins the grid and the tile panel side by side. It never takes
// more than topBudget lines, so the transcript, status bar and input line
// stay on screen whatever tile is selected.
func (m Model) renderTop() string {
	grid := stylePanel.Render(strings.Join(m.gridLines(true), "\n"))
	panelWidth := m.width - lipgloss.Width(grid) - 2
	if panelWidth < 20 {
		panelWidth = 20
	}
	budget := m.topBudget()

	styled := make([]string, 0, 16)
	for _, l := range m.panelLines() {
		styled = append(styled, renderLineKind(wordWrap(l, panelWidth-2), classifyLine(l)))
	}
	body := strings.Join(styled, "\n")
	if budget > 0 {
		body = clipLines(body, max(budget-2, 1)) // panel border
	}
	panel := stylePanel.Width(panelWidth).Render(body)

	top := lipgloss.JoinHorizontal(lipgloss.Top, grid, panel)
	if budget > 0 {
		top = clipLines(top, budget)
	}
	return top
}

// topBudget is the number of lines the grid and panel may use: the window
// less the status bar, the input line and one transcript line. Zero means
// the window size is not known yet.
func (m Model) topBudget() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-3, 1)
}

// clipLines keeps at most n lines of s. When lines are dropped the last kept
// line becomes an ellipsis.
func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	lines = lines[:n]
	lines[n-1] = styleTrace.Render("…")
	return strings.Join(lines, "\n")
}
