package rules

import (
	"encoding/json"

	"github.com/nathoo/biorome/types"
)

// ModuleMatches checks if a module satisfies one requirement specifier.
// Empty specifier fields are wildcards.
func ModuleMatches(m types.Module, req types.Requirement) bool {
	// If the specifier names a type, the module must be that type.
	if req.Type != "" && req.Type != m.Type {
		return false
	}

	// If the specifier names a subtype, the module's subtype must match exactly.
	if req.Subtype != "" && req.Subtype != m.Subtype {
		return false
	}

	// If the specifier names an exact module, the names must match.
	if req.Name != "" && req.Name != m.Name {
		return false
	}

	return true
}

// satisfied reports whether any module matches req.
func satisfied(modules []types.Module, req types.Requirement) bool {
	for _, m := range modules {
		if ModuleMatches(m, req) {
			return true
		}
	}
	return false
}

// MeetsRequirements returns true if every specifier in reqs is matched by at
// least one module of the assembly. Matching is non-consumptive: one module
// may satisfy several specifiers. A nil assembly or an assembly without a
// modules collection never qualifies.
func MeetsRequirements(a *types.Assembly, reqs types.RequirementList) bool {
	if a == nil || a.Modules == nil {
		return false
	}
	for _, req := range reqs {
		if !satisfied(a.Modules, req) {
			return false
		}
	}
	return true
}

// MissingRequirements returns the labels of specifiers no module satisfies,
// in list order. Without a modules collection every specifier is missing.
//
// MeetsRequirements(a, reqs) == (len(MissingRequirements(a, reqs)) == 0)
// holds except for an empty list against a nil assembly or one without a
// modules collection: that assembly never qualifies, yet nothing is listed
// as missing. The registry rejects empty lists, so Checker never asks.
func MissingRequirements(a *types.Assembly, reqs types.RequirementList) []string {
	missing := []string{}
	for _, req := range reqs {
		if a == nil || a.Modules == nil || !satisfied(a.Modules, req) {
			missing = append(missing, RequirementLabel(req))
		}
	}
	return missing
}

// RequirementLabel renders a specifier for display: the exact name if set,
// else the type, else its structural form.
func RequirementLabel(req types.Requirement) string {
	if req.Name != "" {
		return req.Name
	}
	if req.Type != "" {
		return req.Type
	}
	b, err := json.Marshal(req)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// MatchingModuleNames returns, per specifier, the names of the candidate
// modules that would satisfy it. Used by the assembly builder to suggest
// parts for a missing capability.
func MatchingModuleNames(reqs types.RequirementList, modules []types.Module) [][]string {
	out := make([][]string, len(reqs))
	for i, req := range reqs {
		names := []string{}
		for _, m := range modules {
			if ModuleMatches(m, req) {
				names = append(names, m.Name)
			}
		}
		out[i] = names
	}
	return out
}
