// Package types defines the shared data structures for the biorome rules core.
// This package contains only type definitions, no logic and no methods.
package types

// Module is one unit of equipment. Catalog entries are templates; assemblies
// hold independent copies.
type Module struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Subtype        string   `json:"subtype,omitempty"` // "" = any subtype
	AttachesTo     []string `json:"attaches_to,omitempty"`
	Requires       []string `json:"requires,omitempty"`
	Slots          []string `json:"slots,omitempty"`
	MaxSlots       int      `json:"max_slots"`
	PowerDraw      float64  `json:"power_draw"`
	Cost           int      `json:"cost"`
	ActionsPerTurn int      `json:"actions_per_turn"` // negative = unlimited
}

// Assembly is a player-owned bundle of module instances operating as one unit.
// A nil Modules slice means the assembly has no modules collection at all.
type Assembly struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Modules  []Module `json:"modules"`
	Actions  int      `json:"actions"`
	Moves    int      `json:"moves"`
	Deployed bool     `json:"deployed"`
}

// Requirement is one specifier of a requirement list. Empty fields are
// wildcards.
type Requirement struct {
	Type    string `json:"type,omitempty"`
	Subtype string `json:"subtype,omitempty"`
	Name    string `json:"name,omitempty"`
}

// RequirementList is an ordered sequence of specifiers. Order only affects
// the order in which missing requirements are reported.
type RequirementList []Requirement

// Coord addresses a tile on the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Soil holds the per-tile soil readings.
type Soil struct {
	Health       int `json:"health"`
	Water        int `json:"water"`
	Fertility    int `json:"fertility"`
	RecoveryRate int `json:"recovery_rate"`
}

// Plant is a plant instance growing on a tile.
type Plant struct {
	Type        string `json:"type"` // canonical plant key
	GrowthStage string `json:"growth_stage"`
	Age         int    `json:"age"`
}

// Collar restricts where an animal may be moved.
type Collar struct {
	AssemblyID      string  `json:"assembly_id,omitempty"`
	RestrictedTiles []Coord `json:"restricted_tiles,omitempty"`
}

// Animal is an animal instance standing on a tile.
type Animal struct {
	Type        string  `json:"type"`                   // canonical animal key
	NextHarvest *int    `json:"next_harvest,omitempty"` // nil = never harvested
	Collar      *Collar `json:"collar,omitempty"`
}

// Tile is one grid cell. It holds at most one plant and one animal.
type Tile struct {
	Row        int         `json:"row"`
	Col        int         `json:"col"`
	Soil       Soil        `json:"soil"`
	Plant      *Plant      `json:"plant,omitempty"`
	Animal     *Animal     `json:"animal,omitempty"`
	Assemblies []*Assembly `json:"-"` // references into the world arena
}

// Grid is a rectangular [row][col] arrangement of tiles.
type Grid [][]*Tile

// PlantType is the content definition of a crop.
type PlantType struct {
	Key                string
	Label              string
	GrowthStages       []string
	PreferredSeason    string
	MinWater           int
	MaxWater           int
	MinFertility       int
	MaxFertility       int
	WaterRequired      int
	FertilizerRequired int
	Yield              int
	Cost               int
	DaysPerGrowthStage int
}

// AnimalType is the content definition of a livestock species.
type AnimalType struct {
	Key             string
	Label           string
	Product         string // canonical product key, "" if none
	FavoriteFoods   []string
	OutputFrequency int // days between product harvests
	Cost            int
	Effect          string
}

// Product is something harvested from an animal without butchering it.
type Product struct {
	Key       string
	Label     string
	ShelfLife int
}

// PremadeAssembly is a named template listing catalog module names.
type PremadeAssembly struct {
	Usage   string
	Modules []string
}

// FarmDef holds content metadata from Lua.
type FarmDef struct {
	Title   string
	Author  string
	Version string
	Rows    int
	Cols    int
}

// Intent is the parsed representation of an inspector command.
type Intent struct {
	Verb string
	Args []string
}

// Result is the output of a single inspector step.
type Result struct {
	Output []string
	Trace  []string
}
