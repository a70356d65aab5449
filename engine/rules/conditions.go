// Package rules implements the capability matcher and the legality
// predicates built on top of it.
package rules

import "github.com/nathoo/biorome/types"

// Growth stages with special meaning to the rules.
const (
	StageMature   = "Mature"
	StageOverripe = "Overripe"
	StageRotten   = "Rotten"
)

// IsHarvestableStage reports whether a plant in this stage may be harvested.
// Only the stage before decay and the one after it qualify.
func IsHarvestableStage(stage string) bool {
	return stage == StageMature || stage == StageOverripe
}

// CooldownReady returns true once today has reached the animal's next
// harvest day. An animal that was never harvested has its cooldown set to
// today on first check, so the first call never blocks.
func CooldownReady(animal *types.Animal, today int) bool {
	if animal == nil {
		return false
	}
	if animal.NextHarvest == nil {
		day := today
		animal.NextHarvest = &day
	}
	return today >= *animal.NextHarvest
}

// HasActions returns true if the assembly has action budget left this turn.
func HasActions(a *types.Assembly) bool {
	return a != nil && a.Actions > 0
}

// FindAssembly returns the assembly with the given id among those on the
// tile, or nil.
func FindAssembly(tile *types.Tile, id string) *types.Assembly {
	if tile == nil || id == "" {
		return nil
	}
	for _, a := range tile.Assemblies {
		if a != nil && a.ID == id {
			return a
		}
	}
	return nil
}

// HasAssemblies returns true if at least one assembly is on the tile.
func HasAssemblies(tile *types.Tile) bool {
	return tile != nil && len(tile.Assemblies) > 0
}
