// Package engine provides the Step() orchestrator that wires together
// parsing, name resolution, the legality checker, and topology queries into
// a single inspector command.
package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/biorome/engine/parser"
	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/engine/rules"
	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/engine/topology"
	"github.com/nathoo/biorome/types"
)

// Engine holds the content definitions, the world, and the checker bound to
// the content's requirement registry.
type Engine struct {
	Defs    *state.Defs
	World   *state.World
	Checker *rules.Checker
}

// New creates an engine over an empty world sized by the content.
func New(defs *state.Defs) *Engine {
	return NewWithWorld(defs, state.NewWorldFromDefs(defs))
}

// NewWithWorld creates an engine over an existing world.
func NewWithWorld(defs *state.Defs, w *state.World) *Engine {
	return &Engine{
		Defs:    defs,
		World:   w,
		Checker: rules.NewChecker(defs.Requirements),
	}
}

// Step processes one inspector command and returns the result. Apart from
// "day" and the lazy cooldown initialization done by product checks, Step
// never changes the world.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	if intent.Verb == "" {
		result.Output = append(result.Output, "Type a command, or \"help\" for a list.")
		return result
	}

	handler, ok := e.handlers()[intent.Verb]
	if !ok {
		result.Output = append(result.Output, fmt.Sprintf("I don't know how to %q. Type \"help\" for a list.", intent.Verb))
		return result
	}

	out, trace, err := handler(intent.Args)
	result.Trace = append(result.Trace, trace...)
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}
	result.Output = append(result.Output, out...)
	return result
}

type handlerFunc func(args []string) (out, trace []string, err error)

func (e *Engine) handlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		"help":       e.cmdHelp,
		"look":       e.cmdLook,
		"tile":       e.cmdTile,
		"actions":    e.cmdActions,
		"can":        e.cmdCan,
		"missing":    e.cmdMissing,
		"collectors": e.cmdCollectors,
		"adjacent":   e.cmdAdjacent,
		"dest":       e.cmdDest,
		"assemblies": e.cmdAssemblies,
		"assembly":   e.cmdAssembly,
		"modules":    e.cmdModules,
		"suggest":    e.cmdSuggest,
		"plants":     e.cmdPlants,
		"animals":    e.cmdAnimals,
		"day":        e.cmdDay,
	}
}

// Action is one thing an assembly might do on a tile, with the verdict.
type Action struct {
	Verb    string // harvest, collect, butcher, sow seed, sow seedling, move, collar
	Target  string // display label of what is acted on
	Allowed bool
	Reason  string // why not, when !Allowed
}

// Action verbs.
const (
	ActHarvest     = "harvest"
	ActCollect     = "collect"
	ActButcher     = "butcher"
	ActSowSeed     = "sow seed"
	ActSowSeedling = "sow seedling"
	ActMove        = "move"
	ActCollar      = "collar"
)

// AvailableActions runs every applicable predicate for one assembly on tile.
// Actions that make no sense for the tile (harvesting an empty tile) are
// omitted; the rest are returned with a verdict and, when refused, a reason.
func (e *Engine) AvailableActions(tile *types.Tile, assemblyID string) []Action {
	actions := []Action{}
	if tile == nil {
		return actions
	}
	a := rules.FindAssembly(tile, assemblyID)
	if a == nil {
		return actions
	}

	if p := tile.Plant; p != nil {
		ok := e.Checker.CanHarvestPlant(tile, assemblyID)
		actions = append(actions, Action{
			Verb:    ActHarvest,
			Target:  e.plantLabel(p.Type),
			Allowed: ok,
			Reason:  e.whyNotHarvestPlant(tile, a, ok),
		})
	} else {
		for _, mode := range []rules.PlantingMode{rules.Seed, rules.Seedling} {
			ok := e.Checker.CanSowPlant(a, mode)
			verb := ActSowSeed
			if mode == rules.Seedling {
				verb = ActSowSeedling
			}
			actions = append(actions, Action{
				Verb:    verb,
				Target:  fmt.Sprintf("(%d,%d)", tile.Row, tile.Col),
				Allowed: ok,
				Reason:  e.whyNotCapability(registry.Sowing, string(mode), a, ok),
			})
		}
	}

	if an := tile.Animal; an != nil {
		if prod, ok := e.Defs.ProductOf(an.Type); ok {
			p := prod
			allowed := e.Checker.CanHarvestAnimalProductOnTile(tile, assemblyID, &p, e.World.Day)
			actions = append(actions, Action{
				Verb:    ActCollect,
				Target:  prod.Label,
				Allowed: allowed,
				Reason:  e.whyNotCollect(an, prod, a, allowed),
			})
		}

		ok := e.Checker.CanHarvestAnimal(tile, assemblyID)
		actions = append(actions, Action{
			Verb:    ActButcher,
			Target:  e.animalLabel(an.Type),
			Allowed: ok,
			Reason:  e.whyNotCapability(registry.Harvest, an.Type, a, ok),
		})

		ok = e.Checker.CanMoveAnimal(a)
		reason := e.whyNotCapability(registry.Animal, registry.KeyMove, a, ok)
		if ok && len(e.destinations(tile)) == 0 {
			ok, reason = false, "no free destination tile"
		}
		actions = append(actions, Action{
			Verb:    ActMove,
			Target:  e.animalLabel(an.Type),
			Allowed: ok,
			Reason:  reason,
		})

		ok = e.Checker.IsCollarAssembly(a)
		actions = append(actions, Action{
			Verb:    ActCollar,
			Target:  e.animalLabel(an.Type),
			Allowed: ok,
			Reason:  e.whyNotCapability(registry.Animal, registry.KeyCollar, a, ok),
		})
	}
	return actions
}

// destinations lists where the tile's animal could go, excluding its own tile.
func (e *Engine) destinations(tile *types.Tile) []types.Coord {
	var out []types.Coord
	for _, c := range topology.ValidAnimalDestinationTiles(tile.Animal, e.World.Grid) {
		if c.Row == tile.Row && c.Col == tile.Col {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Engine) whyNotHarvestPlant(tile *types.Tile, a *types.Assembly, ok bool) string {
	if ok {
		return ""
	}
	p := tile.Plant
	if !rules.IsHarvestableStage(p.GrowthStage) {
		return fmt.Sprintf("%s is %s, not Mature or Overripe", e.plantLabel(p.Type), p.GrowthStage)
	}
	return e.whyNotCapability(registry.Harvest, p.Type, a, false)
}

func (e *Engine) whyNotCollect(an *types.Animal, prod types.Product, a *types.Assembly, ok bool) string {
	if ok {
		return ""
	}
	if reason := e.whyNotCapability(registry.Harvest, prod.Key, a, false); reason != "" {
		return reason
	}
	if an.NextHarvest != nil && e.World.Day < *an.NextHarvest {
		return fmt.Sprintf("next %s on day %d (today is %d)", strings.ToLower(prod.Label), *an.NextHarvest, e.World.Day)
	}
	return "not available"
}

// whyNotCapability explains a failed capability check. It returns "" when
// ok is true, or when the assembly actually has everything the list needs.
func (e *Engine) whyNotCapability(cat registry.Category, key string, a *types.Assembly, ok bool) string {
	if ok {
		return ""
	}
	missing, known := e.Checker.Missing(cat, key, a)
	if !known {
		return fmt.Sprintf("no %s requirements defined for %q", cat, key)
	}
	if len(missing) == 0 {
		return ""
	}
	return "missing: " + strings.Join(missing, ", ")
}

func (e *Engine) plantLabel(key string) string {
	if p, ok := e.Defs.Plant(key); ok && p.Label != "" {
		return p.Label
	}
	return key
}

func (e *Engine) animalLabel(key string) string {
	if a, ok := e.Defs.Animal(key); ok && a.Label != "" {
		return a.Label
	}
	return key
}
