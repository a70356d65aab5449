package save

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/types"
)

func testWorld(t *testing.T) (*state.World, *state.Defs) {
	t.Helper()
	defs := &state.Defs{Farm: types.FarmDef{Title: "Test Farm", Version: "1.2.0", Rows: 4, Cols: 5}}
	w := state.NewWorldFromDefs(defs)
	w.Day = 9

	h := &types.Assembly{
		ID:   "h1",
		Name: "Harvester",
		Modules: []types.Module{
			{Name: "UGV Transport (small)", Type: "transport", Subtype: "ground", Requires: []string{"battery"}, MaxSlots: 6, ActionsPerTurn: 1},
			{Name: "Gripper", Type: "tool", Subtype: "gripper", AttachesTo: []string{"arm"}, ActionsPerTurn: 3},
		},
		Actions: 1,
		Moves:   1,
	}
	c := &types.Assembly{ID: "c1", Name: "Collar", Modules: []types.Module{{Name: "Geofence Collar", Type: "collar", ActionsPerTurn: -1}}}
	bare := &types.Assembly{ID: "z9", Name: "Frame"}
	require.NoError(t, w.AddAssembly(h))
	require.NoError(t, w.AddAssembly(c))
	require.NoError(t, w.AddAssembly(bare))
	require.NoError(t, w.Place("h1", 0, 0))
	require.NoError(t, w.Place("c1", 2, 3))

	next := 11
	require.NoError(t, w.SetPlant(0, 0, &types.Plant{Type: "corn", GrowthStage: "Mature", Age: 6}))
	require.NoError(t, w.SetAnimal(2, 3, &types.Animal{
		Type:        "cow",
		NextHarvest: &next,
		Collar:      &types.Collar{AssemblyID: "c1", RestrictedTiles: []types.Coord{{Row: 2, Col: 2}, {Row: 2, Col: 4}}},
	}))
	w.Tile(3, 4).Soil.Water = 2
	return w, defs
}

func TestRoundTrip(t *testing.T) {
	w, defs := testWorld(t)

	data, err := Save(w, defs)
	require.NoError(t, err)

	sd, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, sd.Version)
	assert.Equal(t, "Test Farm", sd.Farm)
	assert.Equal(t, "1.2.0", sd.ContentVersion)
	assert.Len(t, sd.Tiles, 3, "only non-default tiles are stored")

	w2, err := Restore(sd)
	require.NoError(t, err)

	assert.Equal(t, 9, w2.Day)
	assert.Equal(t, 4, w2.Rows())
	assert.Equal(t, 5, w2.Cols())
	assert.Equal(t, w.Tile(0, 0).Plant, w2.Tile(0, 0).Plant)
	assert.Equal(t, w.Tile(2, 3).Animal, w2.Tile(2, 3).Animal)
	assert.Equal(t, 2, w2.Tile(3, 4).Soil.Water)
	assert.Equal(t, state.DefaultSoil, w2.Tile(1, 1).Soil)

	h, ok := w2.Assembly("h1")
	require.True(t, ok)
	assert.True(t, h.Deployed)
	assert.Same(t, h, w2.Tile(0, 0).Assemblies[0], "tiles reference the arena entry")
	assert.Equal(t, []string{"battery"}, h.Modules[0].Requires)

	bare, ok := w2.Assembly("z9")
	require.True(t, ok)
	assert.Nil(t, bare.Modules, "no modules collection survives as nil")
	assert.False(t, bare.Deployed)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"missing tiles", `{"version":1,"day":1,"rows":2,"cols":2,"assemblies":[]}`},
		{"wrong version", `{"version":2,"day":1,"rows":2,"cols":2,"assemblies":[],"tiles":[]}`},
		{"zero rows", `{"version":1,"day":1,"rows":0,"cols":2,"assemblies":[],"tiles":[]}`},
		{"assembly without id", `{"version":1,"day":1,"rows":2,"cols":2,"assemblies":[{"modules":[]}],"tiles":[]}`},
		{"module without type", `{"version":1,"day":1,"rows":2,"cols":2,"assemblies":[{"id":"a","modules":[{"name":"X"}]}],"tiles":[]}`},
		{"plant without stage", `{"version":1,"day":1,"rows":2,"cols":2,"assemblies":[],"tiles":[{"row":0,"col":0,"plant":{"type":"corn"}}]}`},
		{"negative row", `{"version":1,"day":1,"rows":2,"cols":2,"assemblies":[],"tiles":[{"row":-1,"col":0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestRestore_Errors(t *testing.T) {
	t.Run("tile outside grid", func(t *testing.T) {
		_, err := Restore(&SaveData{Version: 1, Rows: 2, Cols: 2, Tiles: []TileData{{Row: 5, Col: 0}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside")
	})

	t.Run("unknown assembly reference", func(t *testing.T) {
		_, err := Restore(&SaveData{Version: 1, Rows: 2, Cols: 2, Tiles: []TileData{{Row: 0, Col: 0, Assemblies: []string{"ghost"}}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("duplicate assembly", func(t *testing.T) {
		_, err := Restore(&SaveData{Version: 1, Rows: 2, Cols: 2, Assemblies: []types.Assembly{{ID: "a"}, {ID: "a"}}})
		assert.Error(t, err)
	})
}

func TestFiles(t *testing.T) {
	w, defs := testWorld(t)
	data, err := Save(w, defs)
	require.NoError(t, err)

	for _, compress := range []bool{false, true} {
		dir := t.TempDir()
		path := Path(filepath.Join(dir, "saves"), "slot1", compress)
		require.NoError(t, WriteFile(path, data))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		if compress {
			assert.True(t, strings.HasSuffix(path, ".json.zst"))
			assert.NotEqual(t, data, raw)
		} else {
			assert.Equal(t, data, raw)
		}

		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, data, got)

		_, err = Load(got)
		require.NoError(t, err)
	}
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("saves", "quicksave.json"), Path("saves", "", false))
	assert.Equal(t, filepath.Join("saves", "farm.json.zst"), Path("saves", "farm", true))
}

func TestWriteSlot_ReplacesOtherFormat(t *testing.T) {
	w, defs := testWorld(t)
	data, err := Save(w, defs)
	require.NoError(t, err)
	dir := t.TempDir()

	packed, err := WriteSlot(dir, "slot", true, data)
	require.NoError(t, err)
	assert.Equal(t, Path(dir, "slot", true), packed)

	plain, err := WriteSlot(dir, "slot", false, data)
	require.NoError(t, err)
	_, err = os.Stat(packed)
	assert.True(t, os.IsNotExist(err), "compressed copy should be gone")

	found, err := Find(dir, "slot")
	require.NoError(t, err)
	assert.Equal(t, plain, found)
}

func TestFind_NewerWins(t *testing.T) {
	dir := t.TempDir()
	plain, packed := Path(dir, "slot", false), Path(dir, "slot", true)
	require.NoError(t, os.WriteFile(plain, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(packed, []byte("{}"), 0o644))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(packed, old, old))
	found, err := Find(dir, "slot")
	require.NoError(t, err)
	assert.Equal(t, plain, found)

	require.NoError(t, os.Chtimes(plain, old.Add(-time.Hour), old.Add(-time.Hour)))
	found, err = Find(dir, "slot")
	require.NoError(t, err)
	assert.Equal(t, packed, found)

	_, err = Find(dir, "missing")
	assert.Error(t, err)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
