package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/biorome/engine/catalog"
	"github.com/nathoo/biorome/engine/registry"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerRequirementHelpers(L, coll)
	L.SetGlobal("UNLIMITED", lua.LNumber(catalog.Unlimited))
}

// named returns a curried constructor: Kind "name" { ... }.
func named(L *lua.LState, add func(rawNamed)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			add(rawNamed{name: name, table: tbl})
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Farm { title = "...", version = "1.0.0", rows = 6, cols = 6 }
	L.SetGlobal("Farm", L.NewFunction(func(L *lua.LState) int {
		coll.farm = L.CheckTable(1)
		return 0
	}))

	// Module "name" { type = "...", subtype = "...", ... }
	L.SetGlobal("Module", named(L, func(r rawNamed) { coll.modules = append(coll.modules, r) }))

	// Premade "usage" { "module name", ... }
	L.SetGlobal("Premade", named(L, func(r rawNamed) { coll.premades = append(coll.premades, r) }))

	// Plant "Label" { stages = {...}, water = {min, max}, ... }
	L.SetGlobal("Plant", named(L, func(r rawNamed) { coll.plants = append(coll.plants, r) }))

	// Animal "Label" { product = "...", output_frequency = n, ... }
	L.SetGlobal("Animal", named(L, func(r rawNamed) { coll.animals = append(coll.animals, r) }))

	// Product "Label" { shelf_life = n }
	L.SetGlobal("Product", named(L, func(r rawNamed) { coll.products = append(coll.products, r) }))
}

func registerRequirementHelpers(L *lua.LState, coll *collector) {
	// Needs("type") or Needs("type", "subtype")
	L.SetGlobal("Needs", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(L.CheckString(1)))
		if L.GetTop() >= 2 {
			tbl.RawSetString("subtype", lua.LString(L.CheckString(2)))
		}
		L.Push(tbl)
		return 1
	}))

	// NeedsModule("Gripper")
	L.SetGlobal("NeedsModule", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// Harvest "corn" { ... }, Sowing "seed" { ... }, Handling "move" { ... }
	for global, cat := range map[string]registry.Category{
		"Harvest":  registry.Harvest,
		"Sowing":   registry.Sowing,
		"Handling": registry.Animal,
	} {
		L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
			key := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				coll.requirements = append(coll.requirements, rawRequirement{category: cat, key: key, table: tbl})
				return 0
			}))
			return 1
		}))
	}
}
