// Package resolve maps user-typed names ("Apple Tree", "apple", "aple tree")
// to canonical content keys, module names, and assembly ids.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/engine/state"
)

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Kind       string
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s %q? (%s)", e.Kind, e.Name, names)
}

// NotFoundError indicates no candidate matched a name.
type NotFoundError struct {
	Kind        string
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("unknown %s %q (did you mean %s?)", e.Kind, e.Name, strings.Join(e.Suggestions, ", "))
}

// Candidate is one resolvable thing: the value returned on a match and the
// labels it may be referred to by.
type Candidate struct {
	Value  string
	Labels []string
}

// Name resolves name against candidates. Matching tries, in order: an exact
// value, a canonical-key match on any label, and a whole-word match on a
// label ("apple" finds "Apple Tree"). Only the first tier with hits is used.
func Name(kind, name string, candidates []Candidate) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &NotFoundError{Kind: kind, Name: name}
	}

	for _, c := range candidates {
		if c.Value == name {
			return c.Value, nil
		}
	}

	key := registry.Key(name)
	if hit := collect(candidates, func(label string) bool { return registry.Key(label) == key }); len(hit) > 0 {
		return pick(kind, name, hit)
	}

	lower := strings.ToLower(name)
	if hit := collect(candidates, func(label string) bool { return hasWord(label, lower) }); len(hit) > 0 {
		return pick(kind, name, hit)
	}

	labels := make([]string, 0, len(candidates))
	for _, c := range candidates {
		labels = append(labels, c.Labels...)
	}
	return "", &NotFoundError{Kind: kind, Name: name, Suggestions: Suggest(name, labels)}
}

func collect(candidates []Candidate, match func(label string) bool) []string {
	var out []string
	for _, c := range candidates {
		for _, l := range c.Labels {
			if match(l) {
				out = append(out, c.Value)
				break
			}
		}
	}
	return out
}

func pick(kind, name string, hits []string) (string, error) {
	if len(hits) == 1 {
		return hits[0], nil
	}
	sort.Strings(hits)
	return "", &AmbiguityError{Kind: kind, Name: name, Candidates: hits}
}

// hasWord reports whether the lowercased query equals one word of label.
// Words split on spaces, underscores, and the punctuation used in module
// names such as "Cutter/Saw" and "Robotic Arm (small)".
func hasWord(label, query string) bool {
	words := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return r == ' ' || r == '_' || r == '/' || r == '(' || r == ')' || r == '-'
	})
	for _, w := range words {
		if w == query {
			return true
		}
	}
	return false
}

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

// Suggest returns up to three labels within edit distance of name, closest
// first. Comparison is on canonical keys so case and separators don't count.
func Suggest(name string, labels []string) []string {
	key := registry.Key(name)
	if len(key) < 2 {
		return nil
	}
	type scored struct {
		label string
		dist  int
	}
	var results []scored
	seen := map[string]bool{}
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		cand := registry.Key(l)
		dist := levenshtein.ComputeDistance(key, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		results = append(results, scored{label: l, dist: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].label < results[j].label
		}
		return results[i].dist < results[j].dist
	})
	out := []string{}
	for i, r := range results {
		if i == maxSuggestions {
			break
		}
		out = append(out, r.label)
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Plant resolves a plant type to its canonical key.
func Plant(defs *state.Defs, name string) (string, error) {
	cands := make([]Candidate, 0, len(defs.Plants))
	for k, p := range defs.Plants {
		cands = append(cands, Candidate{Value: k, Labels: []string{k, p.Label}})
	}
	return Name("plant", name, sorted(cands))
}

// Animal resolves an animal type to its canonical key.
func Animal(defs *state.Defs, name string) (string, error) {
	cands := make([]Candidate, 0, len(defs.Animals))
	for k, a := range defs.Animals {
		cands = append(cands, Candidate{Value: k, Labels: []string{k, a.Label}})
	}
	return Name("animal", name, sorted(cands))
}

// Product resolves an animal product to its canonical key.
func Product(defs *state.Defs, name string) (string, error) {
	cands := make([]Candidate, 0, len(defs.Products))
	for k, p := range defs.Products {
		cands = append(cands, Candidate{Value: k, Labels: []string{k, p.Label}})
	}
	return Name("product", name, sorted(cands))
}

// Module resolves a module name against the catalog.
func Module(defs *state.Defs, name string) (string, error) {
	names := defs.Catalog.Names()
	cands := make([]Candidate, 0, len(names))
	for _, n := range names {
		cands = append(cands, Candidate{Value: n, Labels: []string{n}})
	}
	return Name("module", name, cands)
}

// Premade resolves a premade assembly usage.
func Premade(defs *state.Defs, name string) (string, error) {
	premades := defs.Catalog.Premade()
	cands := make([]Candidate, 0, len(premades))
	for _, p := range premades {
		cands = append(cands, Candidate{Value: p.Usage, Labels: []string{p.Usage}})
	}
	return Name("premade", name, cands)
}

// Assembly resolves an assembly by id or by name.
func Assembly(w *state.World, name string) (string, error) {
	all := w.Assemblies()
	cands := make([]Candidate, 0, len(all))
	for _, a := range all {
		labels := []string{a.ID}
		if a.Name != "" {
			labels = append(labels, a.Name)
		}
		cands = append(cands, Candidate{Value: a.ID, Labels: labels})
	}
	return Name("assembly", name, cands)
}

// sorted orders map-derived candidates so results don't depend on map order.
func sorted(cands []Candidate) []Candidate {
	sort.Slice(cands, func(i, j int) bool { return cands[i].Value < cands[j].Value })
	return cands
}
