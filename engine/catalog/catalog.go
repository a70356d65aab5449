// Package catalog holds the immutable module definitions and premade
// assembly templates, and hands out independent module instances.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/biorome/types"
)

// Unlimited is the ActionsPerTurn value for modules without a per-turn cap.
const Unlimited = -1

// Catalog is built once at load time and never mutated. All accessors return
// copies.
type Catalog struct {
	modules  []types.Module
	byName   map[string]int
	premades []types.PremadeAssembly
	byUsage  map[string]int
}

// New builds a catalog. Module names must be unique and non-empty, every
// module needs a type, and premade usages must be unique. Premades may name
// modules the catalog does not define; those names are dropped on
// instantiation and reported by UnknownPremadeModules.
func New(modules []types.Module, premades []types.PremadeAssembly) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]int, len(modules)),
		byUsage: make(map[string]int, len(premades)),
	}
	var errs []string

	for _, m := range modules {
		if m.Name == "" {
			errs = append(errs, "module with empty name")
			continue
		}
		if m.Type == "" {
			errs = append(errs, fmt.Sprintf("module %q: empty type", m.Name))
			continue
		}
		if _, dup := c.byName[m.Name]; dup {
			errs = append(errs, fmt.Sprintf("module %q: duplicate name", m.Name))
			continue
		}
		c.byName[m.Name] = len(c.modules)
		c.modules = append(c.modules, Clone(m))
	}

	for _, p := range premades {
		if p.Usage == "" {
			errs = append(errs, "premade assembly with empty usage")
			continue
		}
		if _, dup := c.byUsage[p.Usage]; dup {
			errs = append(errs, fmt.Sprintf("premade %q: duplicate usage", p.Usage))
			continue
		}
		c.byUsage[p.Usage] = len(c.premades)
		c.premades = append(c.premades, types.PremadeAssembly{
			Usage:   p.Usage,
			Modules: append([]string(nil), p.Modules...),
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("building module catalog:\n  %s", strings.Join(errs, "\n  "))
	}
	return c, nil
}

// Clone returns a deep copy of m so the copy's slices are not shared.
func Clone(m types.Module) types.Module {
	m.AttachesTo = append([]string(nil), m.AttachesTo...)
	m.Requires = append([]string(nil), m.Requires...)
	m.Slots = append([]string(nil), m.Slots...)
	return m
}

// Len returns the number of module definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.modules)
}

// Lookup returns a copy of the named module definition.
func (c *Catalog) Lookup(name string) (types.Module, bool) {
	if c == nil {
		return types.Module{}, false
	}
	i, ok := c.byName[name]
	if !ok {
		return types.Module{}, false
	}
	return Clone(c.modules[i]), true
}

// Modules returns copies of every definition in declaration order.
func (c *Catalog) Modules() []types.Module {
	if c == nil {
		return nil
	}
	out := make([]types.Module, len(c.modules))
	for i, m := range c.modules {
		out[i] = Clone(m)
	}
	return out
}

// ModulesOfType returns copies of the definitions with the given type.
func (c *Catalog) ModulesOfType(typ string) []types.Module {
	out := []types.Module{}
	if c == nil {
		return out
	}
	for _, m := range c.modules {
		if m.Type == typ {
			out = append(out, Clone(m))
		}
	}
	return out
}

// Names returns module names in declaration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.modules))
	for i, m := range c.modules {
		out[i] = m.Name
	}
	return out
}

// Types returns the sorted set of module types.
func (c *Catalog) Types() []string {
	if c == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, m := range c.modules {
		if !seen[m.Type] {
			seen[m.Type] = true
			out = append(out, m.Type)
		}
	}
	sort.Strings(out)
	return out
}

// Instantiate returns independent instances of the named modules in order,
// plus the names the catalog does not define.
func (c *Catalog) Instantiate(names ...string) ([]types.Module, []string) {
	mods := []types.Module{}
	var unknown []string
	for _, n := range names {
		m, ok := c.Lookup(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		mods = append(mods, m)
	}
	return mods, unknown
}

// Premade returns copies of the premade templates in declaration order.
func (c *Catalog) Premade() []types.PremadeAssembly {
	if c == nil {
		return nil
	}
	out := make([]types.PremadeAssembly, len(c.premades))
	for i, p := range c.premades {
		out[i] = types.PremadeAssembly{Usage: p.Usage, Modules: append([]string(nil), p.Modules...)}
	}
	return out
}

// LookupPremade returns the template with the given usage.
func (c *Catalog) LookupPremade(usage string) (types.PremadeAssembly, bool) {
	if c == nil {
		return types.PremadeAssembly{}, false
	}
	i, ok := c.byUsage[usage]
	if !ok {
		return types.PremadeAssembly{}, false
	}
	p := c.premades[i]
	return types.PremadeAssembly{Usage: p.Usage, Modules: append([]string(nil), p.Modules...)}, true
}

// UnknownPremadeModules maps each premade usage to the module names it lists
// that the catalog does not define.
func (c *Catalog) UnknownPremadeModules() map[string][]string {
	out := map[string][]string{}
	if c == nil {
		return out
	}
	for _, p := range c.premades {
		for _, n := range p.Modules {
			if _, ok := c.byName[n]; !ok {
				out[p.Usage] = append(out[p.Usage], n)
			}
		}
	}
	return out
}

// NewAssembly builds an assembly from module names. Unknown names are
// skipped and returned. The turn budget is derived from the modules.
func (c *Catalog) NewAssembly(id, name string, names ...string) (*types.Assembly, []string) {
	mods, unknown := c.Instantiate(names...)
	actions, moves := TurnBudget(mods)
	return &types.Assembly{
		ID:      id,
		Name:    name,
		Modules: mods,
		Actions: actions,
		Moves:   moves,
	}, unknown
}

// FromPremade instantiates the template with the given usage. Module names
// the catalog does not define are dropped silently, matching how templates
// have always been resolved; callers that care can inspect the second
// return value.
func (c *Catalog) FromPremade(usage, id string) (*types.Assembly, []string, bool) {
	p, ok := c.LookupPremade(usage)
	if !ok {
		return nil, nil, false
	}
	a, unknown := c.NewAssembly(id, p.Usage, p.Modules...)
	return a, unknown, true
}

// TurnBudget derives per-turn actions and moves from an assembly's modules.
// A transport grants one move; actions are capped by the most restrictive
// transport. Assemblies without transport act once per turn and never move.
func TurnBudget(modules []types.Module) (actions, moves int) {
	actions = 1
	first := true
	for _, m := range modules {
		if m.Type != "transport" {
			continue
		}
		moves = 1
		if m.ActionsPerTurn < 0 {
			continue
		}
		if first || m.ActionsPerTurn < actions {
			actions = m.ActionsPerTurn
			first = false
		}
	}
	return actions, moves
}

// CheckComposition reports structural problems with a module set: modules
// whose required types are absent, modules with nothing to attach to, and
// hosts with more attached children than slots. The capability matcher does
// not consult it; it serves assembly builders.
func CheckComposition(modules []types.Module) []string {
	problems := []string{}
	present := map[string]int{}
	for _, m := range modules {
		present[m.Type]++
	}

	for _, m := range modules {
		for _, req := range m.Requires {
			if present[req] == 0 {
				problems = append(problems, fmt.Sprintf("%s requires a %s module", m.Name, req))
			}
		}
		if len(m.AttachesTo) > 0 && !anyPresent(present, m.AttachesTo) {
			problems = append(problems, fmt.Sprintf("%s has nothing to attach to (needs one of: %s)",
				m.Name, strings.Join(m.AttachesTo, ", ")))
		}
	}

	// Each child is counted against the first host type it lists that is
	// present; hosts of one type share their capacity.
	demand := map[string]int{}
	for _, m := range modules {
		for _, host := range m.AttachesTo {
			if present[host] > 0 {
				demand[host]++
				break
			}
		}
	}
	capacity := map[string]int{}
	for _, m := range modules {
		capacity[m.Type] += m.MaxSlots
	}
	hosts := make([]string, 0, len(demand))
	for h := range demand {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	for _, h := range hosts {
		if demand[h] > capacity[h] {
			problems = append(problems, fmt.Sprintf("%s slots exceeded: %d attached, %d available",
				h, demand[h], capacity[h]))
		}
	}
	return problems
}

func anyPresent(present map[string]int, typs []string) bool {
	for _, t := range typs {
		if present[t] > 0 {
			return true
		}
	}
	return false
}
