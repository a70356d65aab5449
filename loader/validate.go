package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/nathoo/biorome/engine/registry"
	"github.com/nathoo/biorome/engine/resolve"
	"github.com/nathoo/biorome/engine/rules"
	"github.com/nathoo/biorome/engine/state"
)

// SupportedContent is the range of Farm{ version } this build understands.
const SupportedContent = ">= 1.0.0, < 2.0.0"

// MaxGridSide bounds Farm{ rows, cols }.
const MaxGridSide = 256

var supported = mustConstraint(SupportedContent)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Growth stages the rules and the inspector know about.
var knownStages = map[string]bool{
	"Seed":     true,
	"Seedling": true,
	"Growing":  true,
	"Mature":   true,
	"Overripe": true,
	"Rotten":   true,
}

// Fixed keys every playable content set should define.
var fixedKeys = []struct {
	cat registry.Category
	key string
}{
	{registry.Sowing, registry.KeySeed},
	{registry.Sowing, registry.KeySeedling},
	{registry.Animal, registry.KeyMove},
	{registry.Animal, registry.KeyCollar},
}

// validate checks the compiled defs for referential integrity and
// consistency. Warnings are returned even when there are errors.
func validate(defs *state.Defs) ([]string, error) {
	ve := &ValidationError{}

	validateFarm(defs, ve)

	// Animal products must exist.
	productKeys := make([]string, 0, len(defs.Products))
	for k := range defs.Products {
		productKeys = append(productKeys, k)
	}
	for _, key := range sortedKeys(defs.Animals) {
		a := defs.Animals[key]
		if a.Product == "" {
			continue
		}
		if _, ok := defs.Products[a.Product]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"animal %q product %q is not defined%s", key, a.Product, didYouMean(a.Product, productKeys)))
		}
		if a.OutputFrequency <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"animal %q has a product but no output_frequency", key))
		}
	}

	for _, key := range sortedKeys(defs.Plants) {
		p := defs.Plants[key]
		if len(p.GrowthStages) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("plant %q has no growth stages", key))
		}
		for _, s := range p.GrowthStages {
			if !knownStages[s] {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf("plant %q uses unknown growth stage %q", key, s))
			}
		}
		if p.MinWater > p.MaxWater {
			ve.Errors = append(ve.Errors, fmt.Sprintf("plant %q water window is inverted", key))
		}
		if p.MinFertility > p.MaxFertility {
			ve.Errors = append(ve.Errors, fmt.Sprintf("plant %q fertility window is inverted", key))
		}
	}

	// Premade templates naming missing modules still instantiate; the
	// missing names are dropped.
	unknown := defs.Catalog.UnknownPremadeModules()
	names := defs.Catalog.Names()
	for _, usage := range sortedKeys(unknown) {
		for _, n := range unknown[usage] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"premade %q lists unknown module %q%s", usage, n, didYouMean(n, names)))
		}
	}

	validateRequirements(defs, ve)

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateFarm(defs *state.Defs, ve *ValidationError) {
	f := defs.Farm
	if f.Title == "" {
		ve.Errors = append(ve.Errors, "Farm.title is required")
	}

	if f.Version == "" {
		ve.Warnings = append(ve.Warnings, "Farm.version is not set")
	} else if v, err := semver.NewVersion(f.Version); err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Farm.version %q is not a semantic version", f.Version))
	} else if !supported.Check(v) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"Farm.version %s is outside the supported range %s", v, SupportedContent))
	}

	for _, side := range []struct {
		name string
		n    int
	}{{"rows", f.Rows}, {"cols", f.Cols}} {
		if side.n < 0 || side.n > MaxGridSide {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Farm.%s must be between 1 and %d", side.name, MaxGridSide))
		}
	}
}

// validateRequirements warns about specifiers that match every module and
// about specifiers no catalog module can ever satisfy. Neither is an error:
// an all-empty specifier is satisfied by any single module.
func validateRequirements(defs *state.Defs, ve *ValidationError) {
	reg := defs.Requirements
	modules := defs.Catalog.Modules()

	for _, cat := range reg.Categories() {
		for _, key := range reg.Keys(cat) {
			reqs, _ := reg.Lookup(cat, key)
			matches := rules.MatchingModuleNames(reqs, modules)
			for i, r := range reqs {
				if r.Type == "" && r.Subtype == "" && r.Name == "" {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"%s.%s: requirement %d is empty and matches any module", cat, key, i+1))
					continue
				}
				if len(matches[i]) == 0 {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"%s.%s: no catalog module provides %s", cat, key, describe(r.Type, r.Subtype, r.Name)))
				}
			}
		}
	}

	for _, fk := range fixedKeys {
		if _, ok := reg.Lookup(fk.cat, fk.key); !ok {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("no %s.%s requirement list; that check will always fail", fk.cat, fk.key))
		}
	}
}

func describe(typ, subtype, name string) string {
	switch {
	case name != "":
		return fmt.Sprintf("module %q", name)
	case subtype != "":
		return typ + "/" + subtype
	default:
		return typ
	}
}

func didYouMean(name string, labels []string) string {
	s := resolve.Suggest(name, labels)
	if len(s) == 0 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
