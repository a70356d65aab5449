// Package topology answers spatial questions about the tile grid: 8-neighbour
// adjacency and occupancy-filtered destination tiles.
package topology

import "github.com/nathoo/biorome/types"

// neighbourOffsets is the Moore neighbourhood in row-major scan order.
var neighbourOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Dimensions returns the row and column count. The grid is assumed
// rectangular, so the column count comes from the first row.
func Dimensions(grid types.Grid) (rows, cols int) {
	if len(grid) == 0 {
		return 0, 0
	}
	return len(grid), len(grid[0])
}

// InBounds reports whether (row, col) addresses a cell of the grid.
func InBounds(grid types.Grid, row, col int) bool {
	rows, cols := Dimensions(grid)
	return row >= 0 && row < rows && col >= 0 && col < cols
}

// At returns the tile at (row, col), or nil if out of bounds.
func At(grid types.Grid, row, col int) *types.Tile {
	if !InBounds(grid, row, col) {
		return nil
	}
	return grid[row][col]
}

// AdjacentTiles returns the up to eight in-bounds neighbours of tile.
func AdjacentTiles(tile *types.Tile, grid types.Grid) []*types.Tile {
	out := []*types.Tile{}
	if tile == nil {
		return out
	}
	for _, off := range neighbourOffsets {
		if n := At(grid, tile.Row+off[0], tile.Col+off[1]); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// ValidAnimalDestinationTiles lists where animal may be moved. Without a
// collar restriction that is every tile not holding an animal; with one it
// is the unoccupied subset of the restriction list. The animal's own tile is
// occupied until the move completes, so it is never included.
// Restricted coordinates outside the grid are skipped.
func ValidAnimalDestinationTiles(animal *types.Animal, grid types.Grid) []types.Coord {
	out := []types.Coord{}
	if animal == nil {
		return out
	}

	if animal.Collar != nil && len(animal.Collar.RestrictedTiles) > 0 {
		for _, c := range animal.Collar.RestrictedTiles {
			t := At(grid, c.Row, c.Col)
			if t != nil && t.Animal == nil {
				out = append(out, c)
			}
		}
		return out
	}

	for _, row := range grid {
		for _, t := range row {
			if t != nil && t.Animal == nil {
				out = append(out, types.Coord{Row: t.Row, Col: t.Col})
			}
		}
	}
	return out
}

// ValidPlantDestinationTiles lists every tile without a plant. Placement does
// not depend on the plant's type.
func ValidPlantDestinationTiles(plant *types.Plant, grid types.Grid) []*types.Tile {
	out := []*types.Tile{}
	for _, row := range grid {
		for _, t := range row {
			if t != nil && t.Plant == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// NewGrid builds a rows x cols grid of empty tiles with the given soil.
func NewGrid(rows, cols int, soil types.Soil) types.Grid {
	grid := make(types.Grid, rows)
	for r := range grid {
		grid[r] = make([]*types.Tile, cols)
		for c := range grid[r] {
			grid[r][c] = &types.Tile{Row: r, Col: c, Soil: soil}
		}
	}
	return grid
}
