// Package loader loads Lua farm content into Go structs at startup.
// The Lua VM is discarded after loading; nothing runs Lua afterwards.
package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/biorome/engine/catalog"
	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/types"
)

// rawNamed holds a Kind "name" { ... } table before compilation.
type rawNamed struct {
	name  string
	table *lua.LTable
}

// rawRequirement holds one requirement list before compilation.
type rawRequirement struct {
	category registry.Category
	key      string
	table    *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// arrayStrings returns the string elements of a Lua array, skipping the rest.
func arrayStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getRange reads a {min, max} pair.
func getRange(tbl *lua.LTable, key string) (lo, hi int) {
	r := getTable(tbl, key)
	if r == nil {
		return 0, 0
	}
	if n, ok := r.RawGetInt(1).(lua.LNumber); ok {
		lo = int(n)
	}
	if n, ok := r.RawGetInt(2).(lua.LNumber); ok {
		hi = int(n)
	}
	return lo, hi
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	if coll.farm == nil {
		return nil, fmt.Errorf("no Farm{} definition found")
	}
	defs := &state.Defs{
		Farm:     compileFarm(coll.farm),
		Plants:   map[string]types.PlantType{},
		Animals:  map[string]types.AnimalType{},
		Products: map[string]types.Product{},
	}

	modules := make([]types.Module, 0, len(coll.modules))
	for _, raw := range coll.modules {
		modules = append(modules, compileModule(raw))
	}
	premades := make([]types.PremadeAssembly, 0, len(coll.premades))
	for _, raw := range coll.premades {
		premades = append(premades, types.PremadeAssembly{Usage: raw.name, Modules: arrayStrings(raw.table)})
	}
	cat, err := catalog.New(modules, premades)
	if err != nil {
		return nil, err
	}
	defs.Catalog = cat

	reg, err := compileRequirements(coll.requirements)
	if err != nil {
		return nil, err
	}
	defs.Requirements = reg

	for _, raw := range coll.products {
		p := types.Product{
			Key:       registry.Key(raw.name),
			Label:     raw.name,
			ShelfLife: getInt(raw.table, "shelf_life"),
		}
		if _, dup := defs.Products[p.Key]; dup {
			return nil, fmt.Errorf("duplicate product %q", p.Key)
		}
		defs.Products[p.Key] = p
	}

	for _, raw := range coll.plants {
		p := compilePlant(raw)
		if _, dup := defs.Plants[p.Key]; dup {
			return nil, fmt.Errorf("duplicate plant %q", p.Key)
		}
		defs.Plants[p.Key] = p
	}

	for _, raw := range coll.animals {
		a := compileAnimal(raw)
		if _, dup := defs.Animals[a.Key]; dup {
			return nil, fmt.Errorf("duplicate animal %q", a.Key)
		}
		defs.Animals[a.Key] = a
	}

	return defs, nil
}

func compileFarm(tbl *lua.LTable) types.FarmDef {
	return types.FarmDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Rows:    getInt(tbl, "rows"),
		Cols:    getInt(tbl, "cols"),
	}
}

func compileModule(raw rawNamed) types.Module {
	tbl := raw.table
	return types.Module{
		Name:           raw.name,
		Type:           getString(tbl, "type"),
		Subtype:        getString(tbl, "subtype"),
		AttachesTo:     arrayStrings(getTable(tbl, "attaches_to")),
		Requires:       arrayStrings(getTable(tbl, "requires")),
		Slots:          arrayStrings(getTable(tbl, "slots")),
		MaxSlots:       getInt(tbl, "max_slots"),
		PowerDraw:      getNumber(tbl, "power_draw"),
		Cost:           getInt(tbl, "cost"),
		ActionsPerTurn: getInt(tbl, "actions_per_turn"),
	}
}

func compilePlant(raw rawNamed) types.PlantType {
	tbl := raw.table
	p := types.PlantType{
		Key:                registry.Key(raw.name),
		Label:              raw.name,
		GrowthStages:       arrayStrings(getTable(tbl, "stages")),
		PreferredSeason:    getString(tbl, "season"),
		WaterRequired:      getInt(tbl, "water_required"),
		FertilizerRequired: getInt(tbl, "fertilizer_required"),
		Yield:              getInt(tbl, "yield"),
		Cost:               getInt(tbl, "cost"),
		DaysPerGrowthStage: getInt(tbl, "days_per_stage"),
	}
	p.MinWater, p.MaxWater = getRange(tbl, "water")
	p.MinFertility, p.MaxFertility = getRange(tbl, "fertility")
	return p
}

func compileAnimal(raw rawNamed) types.AnimalType {
	tbl := raw.table
	a := types.AnimalType{
		Key:             registry.Key(raw.name),
		Label:           raw.name,
		FavoriteFoods:   arrayStrings(getTable(tbl, "favorite_foods")),
		OutputFrequency: getInt(tbl, "output_frequency"),
		Cost:            getInt(tbl, "cost"),
		Effect:          getString(tbl, "effect"),
	}
	if p := getString(tbl, "product"); p != "" {
		a.Product = registry.Key(p)
	}
	return a
}

// compileRequirements builds the registry. Each array element must be a
// specifier table produced by Needs/NeedsModule or written by hand.
func compileRequirements(raws []rawRequirement) (*registry.Registry, error) {
	b := registry.NewBuilder()
	for _, raw := range raws {
		var reqs []types.Requirement
		for i := 1; i <= raw.table.MaxN(); i++ {
			spec, ok := raw.table.RawGetInt(i).(*lua.LTable)
			if !ok {
				return nil, fmt.Errorf("%s.%s: entry %d is not a requirement table", raw.category, raw.key, i)
			}
			reqs = append(reqs, types.Requirement{
				Type:    getString(spec, "type"),
				Subtype: getString(spec, "subtype"),
				Name:    getString(spec, "name"),
			})
		}
		b.Add(raw.category, raw.key, reqs...)
	}
	return b.Build()
}
