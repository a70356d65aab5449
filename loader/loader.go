package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/biorome/engine/state"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	farm         *lua.LTable
	modules      []rawNamed
	premades     []rawNamed
	plants       []rawNamed
	animals      []rawNamed
	products     []rawNamed
	requirements []rawRequirement
}

// Load reads all .lua files from dir, compiles them into content definitions,
// validates references, and returns the immutable Defs. The Lua VM is
// discarded after loading.
func Load(dir string, logger *slog.Logger) (*state.Defs, error) {
	return LoadFS(os.DirFS(dir), ".", logger)
}

// LoadFS is Load over an fs.FS, so embedded content loads the same way as a
// directory on disk. Validation warnings are logged, not returned.
func LoadFS(fsys fs.FS, dir string, logger *slog.Logger) (*state.Defs, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// farm.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := runFile(L, fsys, path.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}

	warnings, err := validate(defs)
	for _, w := range warnings {
		logger.Warn("content", "warning", w)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("content loaded",
		"farm", defs.Farm.Title,
		"version", defs.Farm.Version,
		"modules", defs.Catalog.Len(),
		"premades", len(defs.Catalog.Premade()),
		"requirements", defs.Requirements.Len(),
		"plants", len(defs.Plants),
		"animals", len(defs.Animals),
	)
	return defs, nil
}

// runFile executes one Lua file read through fsys.
func runFile(L *lua.LState, fsys fs.FS, name string) error {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	fn, err := L.Load(strings.NewReader(string(src)), name)
	if err != nil {
		return err
	}
	L.Push(fn)
	return L.PCall(0, lua.MultRet, nil)
}

// sortedLuaFiles puts farm.lua first, then the rest in name order.
func sortedLuaFiles(files []string) []string {
	var farmFile string
	var rest []string
	for _, f := range files {
		if f == "farm.lua" {
			farmFile = f
		} else {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	if farmFile != "" {
		return append([]string{farmFile}, rest...)
	}
	return rest
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must load the same way every time.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
