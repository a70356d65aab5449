package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// farm, the selected tile, occupancy, and the day.
func (m Model) renderStatusBar() string {
	w := m.engine.World
	title := m.engine.Defs.Farm.Title
	if title == "" {
		title = "Farm"
	}
	n := w.Count()

	left := fmt.Sprintf(" %s | Tile (%d,%d)", title, m.cursor.Row, m.cursor.Col)
	right := fmt.Sprintf("Day %d ", w.Day)

	candidate := fmt.Sprintf("P:%d A:%d Asm:%d/%d | Day %d ", n.Plants, n.Animals, n.Deployed, n.Assemblies, w.Day)
	if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
		right = candidate
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
