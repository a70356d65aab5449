// Package tui provides a Bubble Tea farm inspector: a tile grid, an actions
// panel for the selected tile, and the same command line as the plain CLI.
package tui

import "strings"

// History keeps submitted inspector commands, oldest first. Navigation is
// filtered by whatever was typed when it began, so "can" then Up walks only
// the earlier "can ..." queries.
type History struct {
	entries []string
	max     int

	cursor int    // -1 when not navigating
	prefix string // lowercased filter captured by the first Prev
	draft  string // input as it was before navigation began
}

// NewHistory creates a history that keeps at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max, cursor: -1}
}

// Push records a submitted command. Repeats of the previous command and the
// "again"/"g" shorthands are not recorded.
func (h *History) Push(cmd string) {
	cmd = strings.Join(strings.Fields(cmd), " ")
	switch strings.ToLower(cmd) {
	case "", "again", "g":
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Len returns the number of recorded commands.
func (h *History) Len() int { return len(h.entries) }

func (h *History) matches(i int) bool {
	return strings.HasPrefix(strings.ToLower(h.entries[i]), h.prefix)
}

// Prev moves to the next older command matching the filter. current is the
// input line; it becomes the filter when navigation starts. At the oldest
// match Prev keeps returning it. ok is false only when nothing matches.
func (h *History) Prev(current string) (string, bool) {
	start := h.cursor
	if h.cursor == -1 {
		h.draft = current
		h.prefix = strings.ToLower(strings.TrimSpace(current))
		start = len(h.entries)
	}
	for i := start - 1; i >= 0; i-- {
		if h.matches(i) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor == -1 {
		return "", false
	}
	return h.entries[h.cursor], true
}

// Next moves to the next newer matching command. Past the newest match it
// ends navigation and returns the draft. ok is false when not navigating.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if h.matches(i) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	draft := h.draft
	h.ResetCursor()
	return draft, true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
	h.prefix, h.draft = "", ""
}
