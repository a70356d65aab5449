package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/biorome/types"
)

func TestIsHarvestableStage(t *testing.T) {
	tests := []struct {
		stage string
		want  bool
	}{
		{"Seed", false},
		{"Seedling", false},
		{"Growing", false},
		{"Mature", true},
		{"Overripe", true},
		{"Rotten", false},
		{"Old", false},
		{"mature", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHarvestableStage(tt.stage))
		})
	}
}

func TestCooldownReady(t *testing.T) {
	t.Run("lazy init to today", func(t *testing.T) {
		a := &types.Animal{Type: "cow"}
		assert.True(t, CooldownReady(a, 7))
		require.NotNil(t, a.NextHarvest)
		assert.Equal(t, 7, *a.NextHarvest)
	})

	t.Run("boundary inclusive", func(t *testing.T) {
		next := 5
		a := &types.Animal{Type: "cow", NextHarvest: &next}
		assert.False(t, CooldownReady(a, 4))
		assert.True(t, CooldownReady(a, 5))
		assert.True(t, CooldownReady(a, 6))
		assert.Equal(t, 5, *a.NextHarvest)
	})

	t.Run("nil animal", func(t *testing.T) {
		assert.False(t, CooldownReady(nil, 1))
	})
}

func TestFindAssembly(t *testing.T) {
	a1 := &types.Assembly{ID: "a1"}
	a2 := &types.Assembly{ID: "a2"}
	tile := &types.Tile{Assemblies: []*types.Assembly{a1, nil, a2}}

	assert.Same(t, a2, FindAssembly(tile, "a2"))
	assert.Nil(t, FindAssembly(tile, "a3"))
	assert.Nil(t, FindAssembly(tile, ""))
	assert.Nil(t, FindAssembly(nil, "a1"))
}

func TestHasActions(t *testing.T) {
	assert.True(t, HasActions(&types.Assembly{Actions: 1}))
	assert.False(t, HasActions(&types.Assembly{Actions: 0}))
	assert.False(t, HasActions(&types.Assembly{Actions: -1}))
	assert.False(t, HasActions(nil))
}
