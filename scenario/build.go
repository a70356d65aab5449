package scenario

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/nathoo/biorome/engine/resolve"
	"github.com/nathoo/biorome/engine/rules"
	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/engine/topology"
	"github.com/nathoo/biorome/types"
)

// Build creates the world the scenario describes. Names are resolved
// against defs the same way the inspector resolves them, so "apple tree"
// and "Apple Tree" both work. Problems are collected into a
// *ValidationError; warnings are logged.
func (s *Scenario) Build(defs *state.Defs, logger *slog.Logger) (*state.World, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ve := &ValidationError{}

	rows, cols := defs.GridSize()
	if s.Grid.Rows > 0 {
		rows = s.Grid.Rows
	}
	if s.Grid.Cols > 0 {
		cols = s.Grid.Cols
	}
	w := state.NewWorld(rows, cols)
	if s.Day > 0 {
		w.Day = s.Day
	}

	for i, spec := range s.Assemblies {
		a, err := buildAssembly(defs, spec, ve)
		if err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("assemblies[%d]: %v", i, err))
			continue
		}
		if err := w.AddAssembly(a); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("assemblies[%d]: %v", i, err))
		}
	}

	seen := map[types.Coord]bool{}
	placed := map[string]types.Coord{}
	for _, ts := range s.Tiles {
		at := types.Coord{Row: ts.Row, Col: ts.Col}
		where := fmt.Sprintf("tile (%d,%d)", ts.Row, ts.Col)
		t := w.Tile(ts.Row, ts.Col)
		if t == nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s is outside the %dx%d grid", where, rows, cols))
			continue
		}
		if seen[at] {
			ve.Errors = append(ve.Errors, where+" is listed twice")
			continue
		}
		seen[at] = true

		if ts.Soil != nil {
			t.Soil = types.Soil(*ts.Soil)
		}
		if ts.Plant != nil {
			if p, err := buildPlant(defs, *ts.Plant); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: %v", where, err))
			} else {
				t.Plant = p
			}
		}
		if ts.Animal != nil {
			if a, err := buildAnimal(defs, w, *ts.Animal, ve, where); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: %v", where, err))
			} else {
				t.Animal = a
			}
		}
		for _, ref := range ts.Assemblies {
			id, err := resolve.Assembly(w, ref)
			if err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: %v", where, err))
				continue
			}
			if prev, dup := placed[id]; dup {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s: assembly %s is already on tile (%d,%d)", where, id, prev.Row, prev.Col))
				continue
			}
			placed[id] = at
			if err := w.Place(id, ts.Row, ts.Col); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: %v", where, err))
			}
		}
	}

	for _, spec := range s.Assemblies {
		if spec.Deployed && spec.ID != "" {
			if _, ok := placed[spec.ID]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"assembly %s is marked deployed but no tile lists it", spec.ID))
			}
		}
	}

	for _, msg := range ve.Warnings {
		logger.Warn("scenario", "warning", msg)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	logger.Debug("scenario built", "rows", rows, "cols", cols, "day", w.Day,
		"assemblies", len(w.Assemblies()), "tiles", len(s.Tiles))
	return w, nil
}

func buildAssembly(defs *state.Defs, spec AssemblySpec, ve *ValidationError) (*types.Assembly, error) {
	id := spec.ID
	if id == "" {
		id = uuid.NewString()
	}

	var (
		a       *types.Assembly
		unknown []string
	)
	if spec.Premade != "" {
		usage, err := resolve.Premade(defs, spec.Premade)
		if err != nil {
			return nil, err
		}
		a, unknown, _ = defs.Catalog.FromPremade(usage, id)
	} else {
		names := make([]string, 0, len(spec.Modules))
		for _, n := range spec.Modules {
			name, err := resolve.Module(defs, n)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		a, unknown = defs.Catalog.NewAssembly(id, "", names...)
	}
	for _, n := range unknown {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("assembly %s: dropped unknown module %q", id, n))
	}

	if spec.Name != "" {
		a.Name = spec.Name
	}
	if spec.Actions != nil {
		a.Actions = *spec.Actions
	}
	if spec.Moves != nil {
		a.Moves = *spec.Moves
	}
	return a, nil
}

func buildPlant(defs *state.Defs, spec PlantSpec) (*types.Plant, error) {
	key, err := resolve.Plant(defs, spec.Type)
	if err != nil {
		return nil, err
	}
	pt := defs.Plants[key]
	stage := spec.Stage
	if stage == "" && len(pt.GrowthStages) > 0 {
		stage = pt.GrowthStages[0]
	}
	if !slices.Contains(pt.GrowthStages, stage) {
		return nil, fmt.Errorf("%s has no growth stage %q (stages: %v)", pt.Label, stage, pt.GrowthStages)
	}
	return &types.Plant{Type: key, GrowthStage: stage, Age: spec.Age}, nil
}

func buildAnimal(defs *state.Defs, w *state.World, spec AnimalSpec, ve *ValidationError, where string) (*types.Animal, error) {
	key, err := resolve.Animal(defs, spec.Type)
	if err != nil {
		return nil, err
	}
	a := &types.Animal{Type: key}
	if spec.NextHarvest != nil {
		day := *spec.NextHarvest
		a.NextHarvest = &day
	}
	if spec.Collar == nil {
		return a, nil
	}

	c := &types.Collar{}
	if spec.Collar.Assembly != "" {
		id, err := resolve.Assembly(w, spec.Collar.Assembly)
		if err != nil {
			return nil, fmt.Errorf("collar: %w", err)
		}
		c.AssemblyID = id
		if asm, _ := w.Assembly(id); !rules.NewChecker(defs.Requirements).IsCollarAssembly(asm) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s: collar assembly %s cannot act as a collar", where, id))
		}
	}
	for _, rc := range spec.Collar.Restricted {
		if !topology.InBounds(w.Grid, rc[0], rc[1]) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s: collar restricts (%d,%d), which is off the grid", where, rc[0], rc[1]))
		}
		c.RestrictedTiles = append(c.RestrictedTiles, types.Coord{Row: rc[0], Col: rc[1]})
	}
	a.Collar = c
	return a, nil
}
