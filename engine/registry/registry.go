// Package registry holds the immutable requirement table that maps an action
// category and a target key to the modules an assembly must carry.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/nathoo/biorome/types"
)

// Category groups requirement lists by the kind of action they gate.
type Category string

const (
	Harvest Category = "harvest"
	Sowing  Category = "sowing"
	Animal  Category = "animal"
)

// Fixed keys outside the harvest category.
const (
	KeySeed     = "seed"
	KeySeedling = "seedling"
	KeyMove     = "move"
	KeyCollar   = "collar"
)

// categoryAliases maps historical category names onto canonical ones.
var categoryAliases = map[string]Category{
	"harvest":  Harvest,
	"sowing":   Sowing,
	"planting": Sowing,
	"animal":   Animal,
}

// pathAliases maps single-word lookups onto a full category+key path.
var pathAliases = map[string][2]string{
	"move_animal": {string(Animal), KeyMove},
	"collar":      {string(Animal), KeyCollar},
}

// Key canonicalizes an entity identifier to lowercase snake_case.
// "Apple Tree" -> "apple_tree", "moveAnimal" -> "move_animal", "Goat-Milk" -> "goat_milk".
func Key(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	prevLower := false
	pendingSep := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_' || r == '/' || r == '.':
			pendingSep = b.Len() > 0
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			pendingSep = true
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(unicode.ToLower(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}

// ParseCategory resolves a category name, accepting historical aliases.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[Key(s)]
	return c, ok
}

// Registry is an immutable category -> key -> requirement list table.
// The zero value is an empty registry; build populated ones with a Builder.
type Registry struct {
	lists map[Category]map[string]types.RequirementList
}

// Lookup returns a copy of the requirement list for category and key.
// Unknown combinations report false.
func (r *Registry) Lookup(cat Category, key string) (types.RequirementList, bool) {
	if r == nil {
		return nil, false
	}
	byKey, ok := r.lists[cat]
	if !ok {
		return nil, false
	}
	list, ok := byKey[Key(key)]
	if !ok {
		return nil, false
	}
	out := make(types.RequirementList, len(list))
	copy(out, list)
	return out, true
}

// Resolve looks up a dotted path such as "harvest.corn", "planting.Seed",
// "animal.move", or one of the single-word aliases "moveAnimal" and "collar".
func (r *Registry) Resolve(path string) (types.RequirementList, bool) {
	cat, key, ok := SplitPath(path)
	if !ok {
		return nil, false
	}
	return r.Lookup(cat, key)
}

// SplitPath splits a dotted requirement path into its canonical category and key.
func SplitPath(path string) (Category, string, bool) {
	path = strings.TrimSpace(path)
	if alias, ok := pathAliases[Key(path)]; ok {
		return Category(alias[0]), alias[1], true
	}
	catPart, keyPart, found := strings.Cut(path, ".")
	if !found || keyPart == "" {
		return "", "", false
	}
	cat, ok := ParseCategory(catPart)
	if !ok {
		return "", "", false
	}
	return cat, Key(keyPart), true
}

// Keys returns the sorted keys registered under a category.
func (r *Registry) Keys(cat Category) []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.lists[cat]))
	for k := range r.lists[cat] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Categories returns the sorted categories that hold at least one list.
func (r *Registry) Categories() []Category {
	if r == nil {
		return nil
	}
	cats := make([]Category, 0, len(r.lists))
	for c := range r.lists {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Len returns the total number of requirement lists.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, byKey := range r.lists {
		n += len(byKey)
	}
	return n
}

// Builder accumulates requirement lists before freezing them into a Registry.
type Builder struct {
	lists map[Category]map[string]types.RequirementList
	errs  []string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{lists: map[Category]map[string]types.RequirementList{}}
}

// Add registers a requirement list. Empty lists and duplicate keys are
// recorded as errors and reported by Build.
func (b *Builder) Add(cat Category, key string, reqs ...types.Requirement) *Builder {
	k := Key(key)
	if k == "" {
		b.errs = append(b.errs, fmt.Sprintf("%s: empty key", cat))
		return b
	}
	if len(reqs) == 0 {
		b.errs = append(b.errs, fmt.Sprintf("%s.%s: empty requirement list", cat, k))
		return b
	}
	byKey, ok := b.lists[cat]
	if !ok {
		byKey = map[string]types.RequirementList{}
		b.lists[cat] = byKey
	}
	if _, dup := byKey[k]; dup {
		b.errs = append(b.errs, fmt.Sprintf("%s.%s: duplicate requirement list", cat, k))
		return b
	}
	list := make(types.RequirementList, len(reqs))
	copy(list, reqs)
	byKey[k] = list
	return b
}

// Build freezes the builder. The builder must not be reused afterwards.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("building requirement registry:\n  %s", strings.Join(b.errs, "\n  "))
	}
	r := &Registry{lists: b.lists}
	b.lists = nil
	return r, nil
}

// T is shorthand for a type-only requirement.
func T(typ string) types.Requirement {
	return types.Requirement{Type: typ}
}

// TS is shorthand for a type+subtype requirement.
func TS(typ, subtype string) types.Requirement {
	return types.Requirement{Type: typ, Subtype: subtype}
}

// N is shorthand for an exact module-name requirement.
func N(name string) types.Requirement {
	return types.Requirement{Name: name}
}
