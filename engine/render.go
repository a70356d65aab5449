package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/biorome/engine/rules"
	"github.com/nathoo/biorome/types"
)

// Cell is the three-character rendering of one tile: plant, animal, and
// assembly count, each "." when empty.
type Cell struct {
	Plant      string
	Animal     string
	Assemblies string
	Ripe       bool
}

func (c Cell) String() string {
	return c.Plant + c.Animal + c.Assemblies
}

// Glyph renders a single tile.
func (e *Engine) Glyph(t *types.Tile) Cell {
	c := Cell{Plant: ".", Animal: ".", Assemblies: "."}
	if t == nil {
		return c
	}
	if t.Plant != nil {
		c.Plant = initial(e.plantLabel(t.Plant.Type))
		if rules.IsHarvestableStage(t.Plant.GrowthStage) {
			c.Plant = strings.ToUpper(c.Plant)
			c.Ripe = true
		}
	}
	if t.Animal != nil {
		c.Animal = strings.ToUpper(initial(e.animalLabel(t.Animal.Type)))
	}
	switch n := len(t.Assemblies); {
	case n > 9:
		c.Assemblies = "+"
	case n > 0:
		c.Assemblies = fmt.Sprint(n)
	}
	return c
}

// Glyphs renders the whole grid, row-major.
func (e *Engine) Glyphs() [][]Cell {
	out := make([][]Cell, len(e.World.Grid))
	for r, row := range e.World.Grid {
		out[r] = make([]Cell, len(row))
		for c, t := range row {
			out[r][c] = e.Glyph(t)
		}
	}
	return out
}

// Overview draws the grid with row and column headers, followed by a legend
// and occupancy counts.
func (e *Engine) Overview() []string {
	title := e.Defs.Farm.Title
	if title == "" {
		title = "Farm"
	}
	out := []string{fmt.Sprintf("%s, day %d (%dx%d)", title, e.World.Day, e.World.Rows(), e.World.Cols())}

	var hdr strings.Builder
	hdr.WriteString("    ")
	for c := 0; c < e.World.Cols(); c++ {
		fmt.Fprintf(&hdr, "%-4d", c)
	}
	out = append(out, strings.TrimRight(hdr.String(), " "))

	for r, row := range e.Glyphs() {
		var line strings.Builder
		fmt.Fprintf(&line, "%2d  ", r)
		for _, cell := range row {
			line.WriteString(cell.String())
			line.WriteByte(' ')
		}
		out = append(out, strings.TrimRight(line.String(), " "))
	}

	n := e.World.Count()
	out = append(out,
		"Legend: plant (uppercase = harvestable), animal, assembly count.",
		fmt.Sprintf("%d plants, %d animals, %d of %d assemblies deployed.", n.Plants, n.Animals, n.Deployed, n.Assemblies),
	)
	return out
}

func initial(label string) string {
	for _, r := range strings.ToLower(label) {
		return string(r)
	}
	return "?"
}
