package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/biorome/types"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Corn", "corn"},
		{"Apple Tree", "apple_tree"},
		{"apple_tree", "apple_tree"},
		{"  Goat Milk ", "goat_milk"},
		{"Goat-Milk", "goat_milk"},
		{"moveAnimal", "move_animal"},
		{"Duck  Eggs", "duck_eggs"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestLookup_CanonicalizesKey(t *testing.T) {
	r := Default()

	byLabel, ok := r.Lookup(Harvest, "Apple Tree")
	require.True(t, ok)
	byKey, ok := r.Lookup(Harvest, "apple_tree")
	require.True(t, ok)
	assert.Equal(t, byKey, byLabel)
}

func TestLookup_Unknown(t *testing.T) {
	r := Default()

	_, ok := r.Lookup(Harvest, "dragonfruit")
	assert.False(t, ok)

	_, ok = r.Lookup(Category("weather"), "rain")
	assert.False(t, ok)

	var nilReg *Registry
	_, ok = nilReg.Lookup(Harvest, "corn")
	assert.False(t, ok)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	r := Default()

	list, ok := r.Lookup(Harvest, "corn")
	require.True(t, ok)
	list[0] = types.Requirement{Name: "mutated"}

	again, _ := r.Lookup(Harvest, "corn")
	assert.Equal(t, "transport", again[0].Type)
}

func TestResolve(t *testing.T) {
	r := Default()

	tests := []struct {
		name   string
		path   string
		wantOK bool
		first  types.Requirement
	}{
		{name: "harvest crop", path: "harvest.Corn", wantOK: true, first: T("transport")},
		{name: "planting alias", path: "planting.Seed", wantOK: true, first: T("transport")},
		{name: "sowing", path: "sowing.seedling", wantOK: true, first: T("transport")},
		{name: "animal.move", path: "animal.move", wantOK: true, first: T("transport")},
		{name: "moveAnimal alias", path: "moveAnimal", wantOK: true, first: T("transport")},
		{name: "collar alias", path: "collar", wantOK: true, first: T("collar")},
		{name: "unknown category", path: "weather.rain", wantOK: false},
		{name: "missing key", path: "harvest.", wantOK: false},
		{name: "bare word", path: "corn", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, ok := r.Resolve(tt.path)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.first, list[0])
			}
		})
	}
}

func TestDefault_Shape(t *testing.T) {
	r := Default()

	assert.Len(t, r.Keys(Harvest), 40)
	assert.Equal(t, []string{"seed", "seedling"}, r.Keys(Sowing))
	assert.Equal(t, []string{"collar", "move"}, r.Keys(Animal))
	assert.Equal(t, 44, r.Len())
	assert.Equal(t, []Category{Animal, Harvest, Sowing}, r.Categories())
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, err := NewBuilder().Add(Harvest, "corn").Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "harvest.corn: empty requirement list")
	})

	t.Run("duplicate key after canonicalization", func(t *testing.T) {
		_, err := NewBuilder().
			Add(Harvest, "Apple Tree", T("arm")).
			Add(Harvest, "apple_tree", T("arm")).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("all-wildcard specifier is accepted", func(t *testing.T) {
		r, err := NewBuilder().Add(Harvest, "anything", types.Requirement{}).Build()
		require.NoError(t, err)
		list, ok := r.Lookup(Harvest, "anything")
		require.True(t, ok)
		assert.Equal(t, types.RequirementList{{}}, list)
	})
}
