package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleAllowed = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleRefused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// Grid cells.
	styleCell = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleCellRipe = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleCursor = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindHeading
	kindAllowed
	kindRefused
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case trimmed == "Yes.", strings.HasPrefix(trimmed, "[x] "):
		return kindAllowed
	case strings.HasPrefix(trimmed, "No.") || strings.HasPrefix(trimmed, "No:"),
		strings.HasPrefix(trimmed, "[ ] "):
		return kindRefused
	case strings.HasPrefix(trimmed, "warning:"),
		strings.HasPrefix(line, "unknown "),
		strings.HasPrefix(line, "usage:"),
		strings.HasPrefix(line, "I don't know how"):
		return kindError
	case strings.HasPrefix(line, "Tile ("), strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return kindHeading
	default:
		return kindText
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(line)
	case kindAllowed:
		return styleAllowed.Render(line)
	case kindRefused:
		return styleRefused.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleText.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
