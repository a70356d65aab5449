package rules

import (
	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/types"
)

// PlantingMode selects the sowing requirement list.
type PlantingMode string

const (
	Seed     PlantingMode = "Seed"
	Seedling PlantingMode = "Seedling"
)

// ParsePlantingMode accepts "seed"/"Seed"/"seedling"/... and reports whether
// the mode is known.
func ParsePlantingMode(s string) (PlantingMode, bool) {
	switch registry.Key(s) {
	case registry.KeySeed:
		return Seed, true
	case registry.KeySeedling:
		return Seedling, true
	}
	return "", false
}

// Checker answers legality questions against an injected requirement
// registry. Every method is total: missing subjects, unknown keys, and
// absent assemblies all yield false or an empty result.
type Checker struct {
	Registry *registry.Registry
}

// NewChecker returns a Checker bound to reg.
func NewChecker(reg *registry.Registry) *Checker {
	return &Checker{Registry: reg}
}

// requirements looks up a list, treating a nil checker as an empty registry.
func (c *Checker) requirements(cat registry.Category, key string) (types.RequirementList, bool) {
	if c == nil {
		return nil, false
	}
	return c.Registry.Lookup(cat, key)
}

// qualifies applies the matcher to a registry list. Unknown keys never qualify.
func (c *Checker) qualifies(cat registry.Category, key string, a *types.Assembly) bool {
	reqs, ok := c.requirements(cat, key)
	if !ok {
		return false
	}
	return MeetsRequirements(a, reqs)
}

// CanHarvestPlant reports whether the assembly with the given id, standing on
// tile, can harvest the tile's plant right now.
func (c *Checker) CanHarvestPlant(tile *types.Tile, assemblyID string) bool {
	if tile == nil || tile.Plant == nil {
		return false
	}
	if !IsHarvestableStage(tile.Plant.GrowthStage) {
		return false
	}
	if !HasAssemblies(tile) {
		return false
	}
	return c.qualifies(registry.Harvest, tile.Plant.Type, FindAssembly(tile, assemblyID))
}

// CanHarvestAnimalProduct returns the candidates that can collect product
// from animal today. A candidate must satisfy the product's requirements and
// have actions left, and the animal's cooldown must have elapsed.
// The animal's cooldown is initialized to today if it was never set.
func (c *Checker) CanHarvestAnimalProduct(animal *types.Animal, product *types.Product,
	candidates []*types.Assembly, today int) []*types.Assembly {

	qualified := []*types.Assembly{}
	if animal == nil || product == nil {
		return qualified
	}
	reqs, ok := c.requirements(registry.Harvest, product.Key)
	if !ok {
		return qualified
	}
	if !CooldownReady(animal, today) {
		return qualified
	}
	for _, a := range candidates {
		if MeetsRequirements(a, reqs) && HasActions(a) {
			qualified = append(qualified, a)
		}
	}
	return qualified
}

// CanHarvestAnimalProductOnTile is the single-assembly form of
// CanHarvestAnimalProduct. The action budget is left to the turn scheduler;
// the cooldown gate still applies.
func (c *Checker) CanHarvestAnimalProductOnTile(tile *types.Tile, assemblyID string,
	product *types.Product, today int) bool {

	if tile == nil || tile.Animal == nil || product == nil {
		return false
	}
	if !HasAssemblies(tile) {
		return false
	}
	reqs, ok := c.requirements(registry.Harvest, product.Key)
	if !ok {
		return false
	}
	if !CooldownReady(tile.Animal, today) {
		return false
	}
	return MeetsRequirements(FindAssembly(tile, assemblyID), reqs)
}

// CanHarvestAnimal reports whether the assembly can harvest (butcher) the
// tile's animal. There is no stage or cooldown gate.
func (c *Checker) CanHarvestAnimal(tile *types.Tile, assemblyID string) bool {
	if tile == nil || tile.Animal == nil {
		return false
	}
	if !HasAssemblies(tile) {
		return false
	}
	return c.qualifies(registry.Harvest, tile.Animal.Type, FindAssembly(tile, assemblyID))
}

// CanSowPlant is a pure capability check; tile occupancy is a topology
// question. Unknown modes are never sowable.
func (c *Checker) CanSowPlant(a *types.Assembly, mode PlantingMode) bool {
	return c.qualifies(registry.Sowing, string(mode), a)
}

// CanMoveAnimal reports whether the assembly can relocate animals.
func (c *Checker) CanMoveAnimal(a *types.Assembly) bool {
	return c.qualifies(registry.Animal, registry.KeyMove, a)
}

// IsCollarAssembly reports whether the assembly can serve as a geofencing
// collar.
func (c *Checker) IsCollarAssembly(a *types.Assembly) bool {
	return c.qualifies(registry.Animal, registry.KeyCollar, a)
}

// Missing explains the capability half of a predicate: the labels of the
// requirements for cat/key that the assembly lacks. The bool is false when
// the registry has no list for cat/key.
func (c *Checker) Missing(cat registry.Category, key string, a *types.Assembly) ([]string, bool) {
	reqs, ok := c.requirements(cat, key)
	if !ok {
		return []string{}, false
	}
	return MissingRequirements(a, reqs), true
}
