package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/types"
)

var (
	cart     = types.Module{Name: "Cart", Type: "cart"}
	suctionT = types.Module{Name: "Suction Tool", Type: "tool", Subtype: "suction"}
	gps      = types.Module{Name: "GPS Module", Type: "gps"}
	seeder   = types.Module{Name: "Seeder", Type: "tool", Subtype: "seeder"}
	borer    = types.Module{Name: "Hole-Borer", Type: "tool", Subtype: "borer"}
	animCart = types.Module{Name: "Animal Cart", Type: "cart", Subtype: "animal"}
	collarM  = types.Module{Name: "Geofence Collar", Type: "collar"}
	alarmE   = types.Module{Name: "Electric Alarm", Type: "alarm", Subtype: "electric"}
	alarmS   = types.Module{Name: "Sound Alarm", Type: "alarm", Subtype: "sound"}
)

// harvester mirrors the "Harvesting Assembly" premade.
func harvester(id string) *types.Assembly {
	return &types.Assembly{
		ID:      id,
		Name:    "Harvesting Assembly",
		Modules: []types.Module{ugv, battery, gps, armMed, rgbCam, gripper, suctionT, cart},
		Actions: 1,
	}
}

func checker() *Checker {
	return NewChecker(registry.Default())
}

func plantTile(kind, stage string, as ...*types.Assembly) *types.Tile {
	return &types.Tile{
		Row: 1, Col: 1,
		Plant:      &types.Plant{Type: kind, GrowthStage: stage},
		Assemblies: as,
	}
}

func TestCanHarvestPlant_GrowthStageGate(t *testing.T) {
	c := checker()
	stages := []string{"Seed", "Seedling", "Growing", "Mature", "Overripe", "Rotten", "Old"}

	for _, kind := range []string{"corn", "tomato", "apple_tree"} {
		for _, stage := range stages {
			t.Run(kind+"/"+stage, func(t *testing.T) {
				tile := plantTile(kind, stage, harvester("h1"))
				want := stage == "Mature" || stage == "Overripe"
				assert.Equal(t, want, c.CanHarvestPlant(tile, "h1"))
			})
		}
	}
}

func TestCanHarvestPlant_Edges(t *testing.T) {
	c := checker()
	h := harvester("h1")

	tests := []struct {
		name string
		tile *types.Tile
		id   string
		want bool
	}{
		{"nil tile", nil, "h1", false},
		{"no plant", &types.Tile{Assemblies: []*types.Assembly{h}}, "h1", false},
		{"no assemblies", plantTile("corn", "Mature"), "h1", false},
		{"unknown plant type", plantTile("dragonfruit", "Mature", h), "h1", false},
		{"assembly not on tile", plantTile("corn", "Mature", h), "h2", false},
		{"display label plant type", plantTile("Apple Tree", "Mature", h), "h1", true},
		{"missing capability", plantTile("oak_tree", "Mature", h), "h1", false},
		{"qualifies", plantTile("corn", "Overripe", h), "h1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CanHarvestPlant(tt.tile, tt.id))
		})
	}
}

func TestCanHarvestPlant_ZeroActionsStillEligible(t *testing.T) {
	// Action budgets are the turn scheduler's concern for plants.
	h := harvester("h1")
	h.Actions = 0
	assert.True(t, checker().CanHarvestPlant(plantTile("corn", "Mature", h), "h1"))
}

func TestCanHarvestAnimalProduct_Batch(t *testing.T) {
	c := checker()
	milk := &types.Product{Key: "milk", Label: "Milk"}

	ready := harvester("ready")
	tired := harvester("tired")
	tired.Actions = 0
	bare := &types.Assembly{ID: "bare", Actions: 3}

	t.Run("lazy init then qualifies", func(t *testing.T) {
		cow := &types.Animal{Type: "cow"}
		got := c.CanHarvestAnimalProduct(cow, milk, []*types.Assembly{ready, tired, bare, nil}, 4)
		require.Len(t, got, 1)
		assert.Same(t, ready, got[0])
		require.NotNil(t, cow.NextHarvest)
		assert.Equal(t, 4, *cow.NextHarvest)
	})

	t.Run("cooldown boundary", func(t *testing.T) {
		next := 10
		cow := &types.Animal{Type: "cow", NextHarvest: &next}
		assert.Empty(t, c.CanHarvestAnimalProduct(cow, milk, []*types.Assembly{ready}, 9))
		assert.Len(t, c.CanHarvestAnimalProduct(cow, milk, []*types.Assembly{ready}, 10), 1)
		assert.Equal(t, 10, next)
	})

	t.Run("unknown product", func(t *testing.T) {
		cow := &types.Animal{Type: "cow"}
		got := c.CanHarvestAnimalProduct(cow, &types.Product{Key: "rabbit_fur"}, []*types.Assembly{ready}, 1)
		assert.Empty(t, got)
		assert.Nil(t, cow.NextHarvest, "cooldown untouched when no list exists")
	})

	t.Run("nil inputs", func(t *testing.T) {
		assert.Empty(t, c.CanHarvestAnimalProduct(nil, milk, []*types.Assembly{ready}, 1))
		assert.Empty(t, c.CanHarvestAnimalProduct(&types.Animal{Type: "cow"}, nil, []*types.Assembly{ready}, 1))
		assert.Empty(t, c.CanHarvestAnimalProduct(&types.Animal{Type: "cow"}, milk, nil, 1))
	})
}

func TestCanHarvestAnimalProductOnTile(t *testing.T) {
	c := checker()
	eggs := &types.Product{Key: "eggs"}
	collector := &types.Assembly{
		ID:      "p1",
		Modules: []types.Module{ugv, battery, rgbCam, armSm, suctionT, cart},
		Actions: 0,
	}

	next := 3
	tile := &types.Tile{
		Animal:     &types.Animal{Type: "chicken", NextHarvest: &next},
		Assemblies: []*types.Assembly{collector},
	}

	assert.False(t, c.CanHarvestAnimalProductOnTile(tile, "p1", eggs, 2))
	assert.True(t, c.CanHarvestAnimalProductOnTile(tile, "p1", eggs, 3), "action budget is not checked")
	assert.False(t, c.CanHarvestAnimalProductOnTile(tile, "nope", eggs, 3))
	assert.False(t, c.CanHarvestAnimalProductOnTile(&types.Tile{Assemblies: tile.Assemblies}, "p1", eggs, 3))
	assert.False(t, c.CanHarvestAnimalProductOnTile(tile, "p1", nil, 3))
	assert.False(t, c.CanHarvestAnimalProductOnTile(nil, "p1", eggs, 3))
}

func TestCanHarvestAnimal(t *testing.T) {
	c := checker()
	butcher := &types.Assembly{ID: "b1", Modules: []types.Module{ugv, battery, animCart}}
	tile := &types.Tile{Animal: &types.Animal{Type: "cow"}, Assemblies: []*types.Assembly{butcher}}

	assert.True(t, c.CanHarvestAnimal(tile, "b1"))
	assert.False(t, c.CanHarvestAnimal(tile, "b2"))
	assert.False(t, c.CanHarvestAnimal(&types.Tile{Animal: &types.Animal{Type: "cow"}}, "b1"))
	assert.False(t, c.CanHarvestAnimal(&types.Tile{Assemblies: tile.Assemblies}, "b1"))

	chickenTile := &types.Tile{Animal: &types.Animal{Type: "chicken"}, Assemblies: []*types.Assembly{butcher}}
	assert.False(t, c.CanHarvestAnimal(chickenTile, "b1"), "chickens need a cage")

	unknown := &types.Tile{Animal: &types.Animal{Type: "llama"}, Assemblies: []*types.Assembly{butcher}}
	assert.False(t, c.CanHarvestAnimal(unknown, "b1"))
}

func TestCanSowPlant(t *testing.T) {
	c := checker()
	planter := &types.Assembly{ID: "s1", Modules: []types.Module{ugv, battery, gps, seeder, armMed, borer, rgbCam}}
	seedlings := &types.Assembly{ID: "s2", Modules: []types.Module{ugv, battery, gps, cart, armMed, gripper, rgbCam}}

	tests := []struct {
		name string
		a    *types.Assembly
		mode PlantingMode
		want bool
	}{
		{"planter seeds", planter, Seed, true},
		{"planter seedlings", planter, Seedling, false},
		{"seedling planter", seedlings, Seedling, true},
		{"seedling planter seeds", seedlings, Seed, false},
		{"unknown mode", planter, PlantingMode("Bulb"), false},
		{"nil assembly", nil, Seed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CanSowPlant(tt.a, tt.mode))
		})
	}
}

func TestParsePlantingMode(t *testing.T) {
	m, ok := ParsePlantingMode("seedling")
	assert.True(t, ok)
	assert.Equal(t, Seedling, m)

	m, ok = ParsePlantingMode("Seed")
	assert.True(t, ok)
	assert.Equal(t, Seed, m)

	_, ok = ParsePlantingMode("bulb")
	assert.False(t, ok)
}

func TestCanMoveAnimalAndCollar(t *testing.T) {
	c := checker()
	mover := &types.Assembly{ID: "m1", Modules: []types.Module{ugv, armMed, cart, alarmE}}
	collar := &types.Assembly{ID: "c1", Modules: []types.Module{collarM, alarmE, alarmS, battery, gps}}

	assert.True(t, c.CanMoveAnimal(mover))
	assert.False(t, c.IsCollarAssembly(mover))
	assert.True(t, c.IsCollarAssembly(collar))
	assert.False(t, c.CanMoveAnimal(collar))
	assert.False(t, c.CanMoveAnimal(nil))
	assert.False(t, c.IsCollarAssembly(&types.Assembly{ID: "bare"}))
}

func TestChecker_NilRegistry(t *testing.T) {
	c := &Checker{}
	assert.False(t, c.CanMoveAnimal(harvester("h1")))
	assert.False(t, c.CanHarvestPlant(plantTile("corn", "Mature", harvester("h1")), "h1"))

	var nilChecker *Checker
	assert.False(t, nilChecker.IsCollarAssembly(harvester("h1")))
}

func TestMissing(t *testing.T) {
	c := checker()
	mover := &types.Assembly{ID: "m1", Modules: []types.Module{ugv, armMed}}

	missing, ok := c.Missing(registry.Animal, registry.KeyMove, mover)
	require.True(t, ok)
	assert.Equal(t, []string{"cart", "alarm"}, missing)

	missing, ok = c.Missing(registry.Harvest, "dragonfruit", mover)
	assert.False(t, ok)
	assert.Empty(t, missing)
}
