// Package state holds the immutable content definitions and the mutable
// world arena: the tile grid, the assemblies keyed by id, and the game day.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/biorome/engine/catalog"
	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/engine/topology"
	"github.com/nathoo/biorome/types"
)

// DefaultRows and DefaultCols size a farm when content does not say.
const (
	DefaultRows = 6
	DefaultCols = 6
)

// DefaultSoil is the soil every fresh tile starts with.
var DefaultSoil = types.Soil{Health: 100, Water: 0, Fertility: 0, RecoveryRate: 5}

// Defs holds the immutable content loaded from Lua.
type Defs struct {
	Farm         types.FarmDef
	Catalog      *catalog.Catalog
	Requirements *registry.Registry
	Plants       map[string]types.PlantType  // by canonical key
	Animals      map[string]types.AnimalType // by canonical key
	Products     map[string]types.Product    // by canonical key
}

// Plant returns the plant type for a key or label.
func (d *Defs) Plant(key string) (types.PlantType, bool) {
	p, ok := d.Plants[registry.Key(key)]
	return p, ok
}

// Animal returns the animal type for a key or label.
func (d *Defs) Animal(key string) (types.AnimalType, bool) {
	a, ok := d.Animals[registry.Key(key)]
	return a, ok
}

// Product returns the product for a key or label.
func (d *Defs) Product(key string) (types.Product, bool) {
	p, ok := d.Products[registry.Key(key)]
	return p, ok
}

// ProductOf returns the product an animal type yields, if any.
func (d *Defs) ProductOf(animalType string) (types.Product, bool) {
	a, ok := d.Animal(animalType)
	if !ok || a.Product == "" {
		return types.Product{}, false
	}
	return d.Product(a.Product)
}

// GridSize returns the farm dimensions, falling back to the defaults.
func (d *Defs) GridSize() (rows, cols int) {
	rows, cols = d.Farm.Rows, d.Farm.Cols
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	return rows, cols
}

// World is the owned game world. Tiles reference assemblies held in the
// arena; Place and Remove keep both sides consistent.
type World struct {
	Day        int
	Grid       types.Grid
	assemblies map[string]*types.Assembly
}

// NewWorld creates an empty world of the given size on day 1.
func NewWorld(rows, cols int) *World {
	return &World{
		Day:        1,
		Grid:       topology.NewGrid(rows, cols, DefaultSoil),
		assemblies: map[string]*types.Assembly{},
	}
}

// NewWorldFromDefs creates an empty world sized by the content.
func NewWorldFromDefs(defs *Defs) *World {
	rows, cols := defs.GridSize()
	return NewWorld(rows, cols)
}

// Tile returns the tile at (row, col), or nil.
func (w *World) Tile(row, col int) *types.Tile {
	return topology.At(w.Grid, row, col)
}

// Rows returns the number of grid rows.
func (w *World) Rows() int {
	rows, _ := topology.Dimensions(w.Grid)
	return rows
}

// Cols returns the number of grid columns.
func (w *World) Cols() int {
	_, cols := topology.Dimensions(w.Grid)
	return cols
}

// AddAssembly stores an assembly in the arena. Ids must be unique.
func (w *World) AddAssembly(a *types.Assembly) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("assembly must have an id")
	}
	if _, dup := w.assemblies[a.ID]; dup {
		return fmt.Errorf("assembly %q already exists", a.ID)
	}
	w.assemblies[a.ID] = a
	return nil
}

// Assembly returns the arena entry for id.
func (w *World) Assembly(id string) (*types.Assembly, bool) {
	a, ok := w.assemblies[id]
	return a, ok
}

// Assemblies returns all assemblies sorted by id.
func (w *World) Assemblies() []*types.Assembly {
	out := make([]*types.Assembly, 0, len(w.assemblies))
	for _, a := range w.assemblies {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Place deploys an assembly onto a tile, removing it from any tile it was on.
func (w *World) Place(id string, row, col int) error {
	a, ok := w.assemblies[id]
	if !ok {
		return fmt.Errorf("unknown assembly %q", id)
	}
	t := w.Tile(row, col)
	if t == nil {
		return fmt.Errorf("tile (%d,%d) is outside the %dx%d grid", row, col, w.Rows(), w.Cols())
	}
	w.detach(id)
	t.Assemblies = append(t.Assemblies, a)
	a.Deployed = true
	return nil
}

// Remove takes an assembly off the grid and out of the arena.
func (w *World) Remove(id string) bool {
	a, ok := w.assemblies[id]
	if !ok {
		return false
	}
	w.detach(id)
	a.Deployed = false
	delete(w.assemblies, id)
	return true
}

// Locate returns the tile an assembly is deployed on, or nil.
func (w *World) Locate(id string) *types.Tile {
	for _, row := range w.Grid {
		for _, t := range row {
			for _, a := range t.Assemblies {
				if a.ID == id {
					return t
				}
			}
		}
	}
	return nil
}

func (w *World) detach(id string) {
	t := w.Locate(id)
	if t == nil {
		return
	}
	kept := t.Assemblies[:0]
	for _, a := range t.Assemblies {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	t.Assemblies = kept
}

// SetPlant places (or with nil, clears) a plant on a tile.
func (w *World) SetPlant(row, col int, p *types.Plant) error {
	t := w.Tile(row, col)
	if t == nil {
		return fmt.Errorf("tile (%d,%d) is outside the grid", row, col)
	}
	t.Plant = p
	return nil
}

// SetAnimal places (or with nil, clears) an animal on a tile.
func (w *World) SetAnimal(row, col int, a *types.Animal) error {
	t := w.Tile(row, col)
	if t == nil {
		return fmt.Errorf("tile (%d,%d) is outside the grid", row, col)
	}
	t.Animal = a
	return nil
}

// Counts summarizes occupancy for status displays.
type Counts struct {
	Plants, Animals, Assemblies, Deployed int
}

// Count tallies plants, animals, and assemblies.
func (w *World) Count() Counts {
	var c Counts
	for _, row := range w.Grid {
		for _, t := range row {
			if t.Plant != nil {
				c.Plants++
			}
			if t.Animal != nil {
				c.Animals++
			}
			c.Deployed += len(t.Assemblies)
		}
	}
	c.Assemblies = len(w.assemblies)
	return c
}
