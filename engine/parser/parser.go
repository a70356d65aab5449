// Package parser converts inspector command strings into Intent structs.
// Intentionally dumb: no NLP, just aliases and token clean-up.
package parser

import (
	"strings"

	"github.com/nathoo/biorome/types"
)

var verbAliases = map[string]string{
	// Look
	"l":        "look",
	"map":      "look",
	"grid":     "look",
	"overview": "look",

	// Tile
	"t":       "tile",
	"examine": "tile",
	"x":       "tile",
	"inspect": "tile",
	"show":    "tile",

	// Actions
	"a":   "actions",
	"act": "actions",
	"do":  "actions",

	// Capability
	"need":    "missing",
	"lacks":   "missing",
	"explain": "missing",
	"who":     "collectors",

	// Topology
	"adj":          "adjacent",
	"neighbors":    "adjacent",
	"neighbours":   "adjacent",
	"destinations": "dest",
	"targets":      "dest",

	// Fleet and catalog
	"ls":        "assemblies",
	"list":      "assemblies",
	"fleet":     "assemblies",
	"asm":       "assembly",
	"mods":      "modules",
	"catalog":   "modules",
	"parts":     "suggest",
	"crops":     "plants",
	"livestock": "animals",

	// Clock
	"today": "day",
	"date":  "day",
}

// Sub-verbs of "can" and their synonyms.
var canAliases = map[string]string{
	"harvest":   "harvest",
	"pick":      "harvest",
	"reap":      "harvest",
	"butcher":   "butcher",
	"slaughter": "butcher",
	"collect":   "collect",
	"milk":      "collect",
	"gather":    "collect",
	"sow":       "sow",
	"plant":     "sow",
	"move":      "move",
	"herd":      "move",
	"collar":    "collar",
	"fence":     "collar",
}

var fillers = map[string]bool{
	"the": true,
	"at": true, "on": true, "with": true, "for": true, "of": true,
}

// Parse converts a raw command string into an Intent. The verb is lowercased;
// arguments keep their case because assembly ids are case-sensitive.
// Coordinates may be written "2 3", "2,3", or "(2, 3)".
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := tokenize(input)
	if len(words) == 0 {
		return types.Intent{}
	}

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	rest := words[1:]

	if verb == "can" && len(rest) > 0 {
		sub := strings.ToLower(rest[0])
		if alias, ok := canAliases[sub]; ok {
			sub = alias
		}
		rest = append([]string{sub}, stripFillers(rest[1:])...)
		return types.Intent{Verb: verb, Args: rest}
	}

	return types.Intent{Verb: verb, Args: stripFillers(rest)}
}

// tokenize splits on whitespace and commas and drops coordinate parentheses.
func tokenize(input string) []string {
	input = strings.NewReplacer("(", " ", ")", " ", ",", " ").Replace(input)
	return strings.Fields(input)
}

// stripFillers removes filler words ("the", "at", "on", ...).
func stripFillers(words []string) []string {
	var result []string
	for _, w := range words {
		if !fillers[strings.ToLower(w)] {
			result = append(result, w)
		}
	}
	return result
}
