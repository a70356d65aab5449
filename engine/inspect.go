package engine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/biorome/engine/catalog"
	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/engine/resolve"
	"github.com/nathoo/biorome/engine/rules"
	"github.com/nathoo/biorome/engine/topology"
	"github.com/nathoo/biorome/types"
)

var helpLines = []string{
	"Inspector commands:",
	"  look                                 farm overview",
	"  tile <r> <c>                         tile contents",
	"  actions <r> <c> [assembly]           what assemblies on a tile can do",
	"  can harvest|butcher <r> <c> <asm>    plant harvest / animal harvest",
	"  can collect <r> <c> <asm> [product]  animal product harvest",
	"  collectors <r> <c> [product]         assemblies on a tile that can collect today",
	"  can sow seed|seedling <asm>          sowing capability",
	"  can move <asm> | can collar <asm>    animal handling capability",
	"  missing <category.key> <asm>         unmet requirements, e.g. missing harvest.corn h1",
	"  suggest <category.key>               catalog modules that satisfy a requirement list",
	"  adjacent <r> <c>                     8-neighbour tiles",
	"  dest animal|plant <r> <c>            valid destination tiles",
	"  assemblies | assembly <id>           the fleet",
	"  modules [type] | plants | animals    content",
	"  day [n]                              show or set the game day",
}

func (e *Engine) cmdHelp(_ []string) ([]string, []string, error) {
	return helpLines, nil, nil
}

func (e *Engine) cmdLook(_ []string) ([]string, []string, error) {
	return e.Overview(), nil, nil
}

func (e *Engine) cmdTile(args []string) ([]string, []string, error) {
	t, _, err := e.tileArg(args)
	if err != nil {
		return nil, nil, err
	}
	return e.describeTile(t), nil, nil
}

func (e *Engine) describeTile(t *types.Tile) []string {
	out := []string{
		fmt.Sprintf("Tile (%d,%d)", t.Row, t.Col),
		fmt.Sprintf("  Soil: health %d, water %d, fertility %d, recovery %d",
			t.Soil.Health, t.Soil.Water, t.Soil.Fertility, t.Soil.RecoveryRate),
	}
	if p := t.Plant; p != nil {
		note := ""
		if rules.IsHarvestableStage(p.GrowthStage) {
			note = ", harvestable"
		}
		out = append(out, fmt.Sprintf("  Plant: %s (%s%s)", e.plantLabel(p.Type), p.GrowthStage, note))
	}
	if a := t.Animal; a != nil {
		line := "  Animal: " + e.animalLabel(a.Type)
		if a.NextHarvest == nil {
			line += " (never harvested)"
		} else {
			line += fmt.Sprintf(" (next harvest day %d)", *a.NextHarvest)
		}
		if a.Collar != nil {
			line += fmt.Sprintf(" [collar: %d allowed tiles]", len(a.Collar.RestrictedTiles))
		}
		out = append(out, line)
		if at, ok := e.Defs.Animal(a.Type); ok && at.Effect != "" {
			out = append(out, "  Effect: "+effectLabel(at.Effect))
		}
	}
	if len(t.Assemblies) == 0 {
		out = append(out, "  Assemblies: none")
	} else {
		out = append(out, "  Assemblies:")
		for _, a := range t.Assemblies {
			out = append(out, fmt.Sprintf("    %s  %s", a.ID, a.Name))
		}
	}
	return out
}

func (e *Engine) cmdActions(args []string) ([]string, []string, error) {
	t, rest, err := e.tileArg(args)
	if err != nil {
		return nil, nil, err
	}
	subjects := t.Assemblies
	if len(rest) > 0 {
		a, err := e.assemblyArg(rest)
		if err != nil {
			return nil, nil, err
		}
		if rules.FindAssembly(t, a.ID) == nil {
			return nil, nil, fmt.Errorf("%s is not on tile (%d,%d)", a.ID, t.Row, t.Col)
		}
		subjects = []*types.Assembly{a}
	}
	if len(subjects) == 0 {
		return []string{fmt.Sprintf("No assemblies on tile (%d,%d).", t.Row, t.Col)}, nil, nil
	}

	var out []string
	for _, a := range subjects {
		out = append(out, fmt.Sprintf("%s  %s (actions %d, moves %d)", a.ID, a.Name, a.Actions, a.Moves))
		acts := e.AvailableActions(t, a.ID)
		if len(acts) == 0 {
			out = append(out, "  nothing to do here")
		}
		for _, act := range acts {
			out = append(out, "  "+FormatAction(act))
		}
	}
	return out, nil, nil
}

// FormatAction renders an action as a checklist line.
func FormatAction(a Action) string {
	mark := "[ ]"
	if a.Allowed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %s %s", mark, a.Verb, a.Target)
	if !a.Allowed && a.Reason != "" {
		line += " (" + a.Reason + ")"
	}
	return line
}

func (e *Engine) cmdCan(args []string) ([]string, []string, error) {
	if len(args) == 0 {
		return nil, nil, errors.New("can what? harvest, collect, butcher, sow, move, or collar")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "harvest", "butcher":
		t, rest, err := e.tileArg(rest)
		if err != nil {
			return nil, nil, err
		}
		a, err := e.assemblyArg(rest)
		if err != nil {
			return nil, nil, err
		}
		trace := []string{fmt.Sprintf("tile (%d,%d), assembly %s", t.Row, t.Col, a.ID)}
		if sub == "harvest" {
			ok := e.Checker.CanHarvestPlant(t, a.ID)
			if t.Plant != nil {
				trace = append(trace, e.traceLookup(registry.Harvest, t.Plant.Type))
			}
			return verdict(ok, e.reasonOnTile(t, a, func() string {
				if t.Plant == nil {
					return "no plant on this tile"
				}
				return e.whyNotHarvestPlant(t, a, false)
			})), trace, nil
		}
		ok := e.Checker.CanHarvestAnimal(t, a.ID)
		if t.Animal != nil {
			trace = append(trace, e.traceLookup(registry.Harvest, t.Animal.Type))
		}
		return verdict(ok, e.reasonOnTile(t, a, func() string {
			if t.Animal == nil {
				return "no animal on this tile"
			}
			return e.whyNotCapability(registry.Harvest, t.Animal.Type, a, false)
		})), trace, nil

	case "collect":
		t, rest, err := e.tileArg(rest)
		if err != nil {
			return nil, nil, err
		}
		a, err := e.assemblyArg(rest[:min(len(rest), 1)])
		if err != nil {
			return nil, nil, err
		}
		if t.Animal == nil {
			return verdict(false, "no animal on this tile"), nil, nil
		}
		prod, err := e.productArg(t.Animal, rest[1:])
		if err != nil {
			return nil, nil, err
		}
		trace := []string{e.traceLookup(registry.Harvest, prod.Key)}
		before := t.Animal.NextHarvest
		ok := e.Checker.CanHarvestAnimalProductOnTile(t, a.ID, &prod, e.World.Day)
		if before == nil && t.Animal.NextHarvest != nil {
			trace = append(trace, fmt.Sprintf("cooldown initialized to day %d", *t.Animal.NextHarvest))
		}
		out := verdict(ok, e.reasonOnTile(t, a, func() string {
			return e.whyNotCollect(t.Animal, prod, a, false)
		}))
		if ok && !rules.HasActions(a) {
			out = append(out, fmt.Sprintf("  note: %s has no actions left this turn", a.ID))
		}
		return out, trace, nil

	case "sow":
		if len(rest) == 0 {
			return nil, nil, errors.New("sow how? seed or seedling")
		}
		mode, ok := rules.ParsePlantingMode(rest[0])
		if !ok {
			return nil, nil, fmt.Errorf("unknown planting mode %q (seed or seedling)", rest[0])
		}
		a, err := e.assemblyArg(rest[1:])
		if err != nil {
			return nil, nil, err
		}
		ok = e.Checker.CanSowPlant(a, mode)
		return verdict(ok, e.whyNotCapability(registry.Sowing, string(mode), a, ok)),
			[]string{e.traceLookup(registry.Sowing, string(mode))}, nil

	case "move", "collar":
		a, err := e.assemblyArg(rest)
		if err != nil {
			return nil, nil, err
		}
		key := registry.KeyMove
		ok := e.Checker.CanMoveAnimal(a)
		if sub == "collar" {
			key = registry.KeyCollar
			ok = e.Checker.IsCollarAssembly(a)
		}
		return verdict(ok, e.whyNotCapability(registry.Animal, key, a, ok)),
			[]string{e.traceLookup(registry.Animal, key)}, nil
	}
	return nil, nil, fmt.Errorf("can %s? try harvest, collect, butcher, sow, move, or collar", sub)
}

// cmdCollectors lists every assembly on the tile that can collect the
// animal's product today, action budget included.
func (e *Engine) cmdCollectors(args []string) ([]string, []string, error) {
	t, rest, err := e.tileArg(args)
	if err != nil {
		return nil, nil, err
	}
	if t.Animal == nil {
		return []string{"No animal on this tile."}, nil, nil
	}
	prod, err := e.productArg(t.Animal, rest)
	if err != nil {
		return nil, nil, err
	}
	trace := []string{e.traceLookup(registry.Harvest, prod.Key)}
	qualified := e.Checker.CanHarvestAnimalProduct(t.Animal, &prod, t.Assemblies, e.World.Day)
	if len(qualified) == 0 {
		return []string{fmt.Sprintf("No assembly on tile (%d,%d) can collect %s today.",
			t.Row, t.Col, strings.ToLower(prod.Label))}, trace, nil
	}
	ids := make([]string, len(qualified))
	for i, a := range qualified {
		ids[i] = a.ID
	}
	return []string{fmt.Sprintf("Can collect %s today: %s.",
		strings.ToLower(prod.Label), strings.Join(ids, ", "))}, trace, nil
}

// reasonOnTile reports tile-level refusals before deferring to detail.
func (e *Engine) reasonOnTile(t *types.Tile, a *types.Assembly, detail func() string) string {
	if rules.FindAssembly(t, a.ID) == nil {
		return fmt.Sprintf("%s is not on tile (%d,%d)", a.ID, t.Row, t.Col)
	}
	return detail()
}

func verdict(ok bool, reason string) []string {
	if ok {
		return []string{"Yes."}
	}
	if reason == "" {
		return []string{"No."}
	}
	return []string{"No: " + reason + "."}
}

func (e *Engine) traceLookup(cat registry.Category, key string) string {
	reqs, ok := e.Defs.Requirements.Lookup(cat, key)
	if !ok {
		return fmt.Sprintf("lookup %s.%s: not found", cat, registry.Key(key))
	}
	labels := make([]string, len(reqs))
	for i, r := range reqs {
		labels[i] = rules.RequirementLabel(r)
	}
	return fmt.Sprintf("lookup %s.%s: %s", cat, registry.Key(key), strings.Join(labels, ", "))
}

func (e *Engine) cmdMissing(args []string) ([]string, []string, error) {
	if len(args) < 2 {
		return nil, nil, errors.New("usage: missing <category.key> <assembly>")
	}
	cat, key, ok := registry.SplitPath(args[0])
	if !ok {
		return nil, nil, fmt.Errorf("bad requirement path %q (try harvest.corn, sowing.seed, animal.move)", args[0])
	}
	a, err := e.assemblyArg(args[1:])
	if err != nil {
		return nil, nil, err
	}
	missing, known := e.Checker.Missing(cat, key, a)
	if !known {
		return nil, nil, e.unknownKey(cat, key)
	}
	if len(missing) == 0 {
		return []string{fmt.Sprintf("%s meets every %s.%s requirement.", a.ID, cat, key)}, nil, nil
	}
	return []string{fmt.Sprintf("%s is missing: %s", a.ID, strings.Join(missing, ", "))}, nil, nil
}

func (e *Engine) unknownKey(cat registry.Category, key string) error {
	return &resolve.NotFoundError{
		Kind:        string(cat) + " requirement",
		Name:        key,
		Suggestions: resolve.Suggest(key, e.Defs.Requirements.Keys(cat)),
	}
}

func (e *Engine) cmdSuggest(args []string) ([]string, []string, error) {
	if len(args) == 0 {
		return nil, nil, errors.New("usage: suggest <category.key>")
	}
	reqs, ok := e.Defs.Requirements.Resolve(args[0])
	if !ok {
		cat, key, valid := registry.SplitPath(args[0])
		if !valid {
			return nil, nil, fmt.Errorf("bad requirement path %q", args[0])
		}
		return nil, nil, e.unknownKey(cat, key)
	}
	matches := rules.MatchingModuleNames(reqs, e.Defs.Catalog.Modules())
	out := []string{fmt.Sprintf("%s needs:", args[0])}
	for i, r := range reqs {
		names := "(no catalog module)"
		if len(matches[i]) > 0 {
			names = strings.Join(matches[i], ", ")
		}
		out = append(out, fmt.Sprintf("  %-12s %s", rules.RequirementLabel(r), names))
	}
	return out, nil, nil
}

func (e *Engine) cmdAdjacent(args []string) ([]string, []string, error) {
	t, _, err := e.tileArg(args)
	if err != nil {
		return nil, nil, err
	}
	adj := topology.AdjacentTiles(t, e.World.Grid)
	coords := make([]string, len(adj))
	for i, n := range adj {
		coords[i] = fmt.Sprintf("(%d,%d)", n.Row, n.Col)
	}
	return []string{fmt.Sprintf("%d neighbours: %s", len(adj), strings.Join(coords, " "))}, nil, nil
}

func (e *Engine) cmdDest(args []string) ([]string, []string, error) {
	if len(args) == 0 {
		return nil, nil, errors.New("usage: dest animal|plant <r> <c>")
	}
	kind := strings.ToLower(args[0])
	t, _, err := e.tileArg(args[1:])
	if err != nil {
		return nil, nil, err
	}
	var coords []types.Coord
	switch kind {
	case "animal":
		if t.Animal == nil {
			return []string{fmt.Sprintf("No animal on tile (%d,%d).", t.Row, t.Col)}, nil, nil
		}
		coords = e.destinations(t)
	case "plant":
		for _, d := range topology.ValidPlantDestinationTiles(t.Plant, e.World.Grid) {
			coords = append(coords, types.Coord{Row: d.Row, Col: d.Col})
		}
	default:
		return nil, nil, fmt.Errorf("dest %s? use animal or plant", kind)
	}
	if len(coords) == 0 {
		return []string{"No valid destinations."}, nil, nil
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return []string{fmt.Sprintf("%d destinations: %s", len(coords), strings.Join(parts, " "))}, nil, nil
}

func (e *Engine) cmdAssemblies(_ []string) ([]string, []string, error) {
	all := e.World.Assemblies()
	if len(all) == 0 {
		return []string{"No assemblies."}, nil, nil
	}
	out := make([]string, 0, len(all))
	for _, a := range all {
		where := "not deployed"
		if t := e.World.Locate(a.ID); t != nil {
			where = fmt.Sprintf("at (%d,%d)", t.Row, t.Col)
		}
		out = append(out, fmt.Sprintf("%-8s %-28s %2d modules  %s%s", a.ID, a.Name, len(a.Modules), where, e.roles(a)))
	}
	return out, nil, nil
}

// roles tags an assembly with the fixed capabilities it qualifies for.
func (e *Engine) roles(a *types.Assembly) string {
	var tags []string
	if e.Checker.CanSowPlant(a, rules.Seed) {
		tags = append(tags, "seeds")
	}
	if e.Checker.CanSowPlant(a, rules.Seedling) {
		tags = append(tags, "seedlings")
	}
	if e.Checker.CanMoveAnimal(a) {
		tags = append(tags, "mover")
	}
	if e.Checker.IsCollarAssembly(a) {
		tags = append(tags, "collar")
	}
	if len(tags) == 0 {
		return ""
	}
	return "  [" + strings.Join(tags, ", ") + "]"
}

func (e *Engine) cmdAssembly(args []string) ([]string, []string, error) {
	a, err := e.assemblyArg(args)
	if err != nil {
		return nil, nil, err
	}
	out := []string{
		fmt.Sprintf("%s  %s", a.ID, a.Name),
		fmt.Sprintf("  actions %d, moves %d, deployed %t", a.Actions, a.Moves, a.Deployed),
	}
	if a.Modules == nil {
		return append(out, "  no modules collection"), nil, nil
	}
	out = append(out, "  modules:")
	for _, m := range a.Modules {
		kind := m.Type
		if m.Subtype != "" {
			kind += "/" + m.Subtype
		}
		out = append(out, fmt.Sprintf("    %-32s %s", m.Name, kind))
	}
	for _, p := range catalog.CheckComposition(a.Modules) {
		out = append(out, "  warning: "+p)
	}
	return out, nil, nil
}

func (e *Engine) cmdModules(args []string) ([]string, []string, error) {
	mods := e.Defs.Catalog.Modules()
	if len(args) > 0 {
		typ := strings.ToLower(args[0])
		mods = e.Defs.Catalog.ModulesOfType(typ)
		if len(mods) == 0 {
			return nil, nil, &resolve.NotFoundError{
				Kind:        "module type",
				Name:        typ,
				Suggestions: resolve.Suggest(typ, e.Defs.Catalog.Types()),
			}
		}
	}
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		kind := m.Type
		if m.Subtype != "" {
			kind += "/" + m.Subtype
		}
		out = append(out, fmt.Sprintf("%-32s %-22s cost %d", m.Name, kind, m.Cost))
	}
	return out, nil, nil
}

func (e *Engine) cmdPlants(_ []string) ([]string, []string, error) {
	keys := make([]string, 0, len(e.Defs.Plants))
	for k := range e.Defs.Plants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		p := e.Defs.Plants[k]
		out = append(out, fmt.Sprintf("%-14s %-14s %s", k, p.Label, strings.Join(p.GrowthStages, " > ")))
	}
	return out, nil, nil
}

func (e *Engine) cmdAnimals(_ []string) ([]string, []string, error) {
	keys := make([]string, 0, len(e.Defs.Animals))
	for k := range e.Defs.Animals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		a := e.Defs.Animals[k]
		product := "-"
		if p, ok := e.Defs.ProductOf(k); ok {
			product = fmt.Sprintf("%s every %d days", p.Label, a.OutputFrequency)
		}
		line := fmt.Sprintf("%-10s %-10s %s", k, a.Label, product)
		if a.Effect != "" {
			line += ", effect: " + effectLabel(a.Effect)
		}
		out = append(out, line)
	}
	return out, nil, nil
}

// effectLabel turns "pest_control" into "pest control".
func effectLabel(effect string) string {
	return strings.ReplaceAll(effect, "_", " ")
}

func (e *Engine) cmdDay(args []string) ([]string, []string, error) {
	if len(args) == 0 {
		return []string{fmt.Sprintf("Day %d.", e.World.Day)}, nil, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return nil, nil, fmt.Errorf("day must be a non-negative number, got %q", args[0])
	}
	e.World.Day = n
	return []string{fmt.Sprintf("Day set to %d.", n)}, nil, nil
}

// tileArg consumes a row and column from args.
func (e *Engine) tileArg(args []string) (*types.Tile, []string, error) {
	if len(args) < 2 {
		return nil, nil, errors.New("which tile? give a row and a column")
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return nil, nil, fmt.Errorf("bad tile coordinates %q %q", args[0], args[1])
	}
	t := e.World.Tile(row, col)
	if t == nil {
		return nil, nil, fmt.Errorf("tile (%d,%d) is outside the %dx%d farm", row, col, e.World.Rows(), e.World.Cols())
	}
	return t, args[2:], nil
}

// assemblyArg resolves the remaining words as one assembly id or name.
func (e *Engine) assemblyArg(args []string) (*types.Assembly, error) {
	if len(args) == 0 {
		return nil, errors.New("which assembly?")
	}
	id, err := resolve.Assembly(e.World, strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	a, _ := e.World.Assembly(id)
	return a, nil
}

// productArg picks the named product, or the animal's own product.
func (e *Engine) productArg(an *types.Animal, args []string) (types.Product, error) {
	if len(args) == 0 {
		p, ok := e.Defs.ProductOf(an.Type)
		if !ok {
			return types.Product{}, fmt.Errorf("%s yields no product", e.animalLabel(an.Type))
		}
		return p, nil
	}
	key, err := resolve.Product(e.Defs, strings.Join(args, " "))
	if err != nil {
		return types.Product{}, err
	}
	p, _ := e.Defs.Product(key)
	return p, nil
}
