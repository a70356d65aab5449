package parser

import (
	"reflect"
	"testing"

	"github.com/nathoo/biorome/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},
		{
			name:  "punctuation only",
			input: "(,)",
			want:  types.Intent{},
		},

		// Basic verbs
		{
			name:  "look",
			input: "look",
			want:  types.Intent{Verb: "look"},
		},
		{
			name:  "uppercase verb",
			input: "LOOK",
			want:  types.Intent{Verb: "look"},
		},
		{
			name:  "assemblies",
			input: "assemblies",
			want:  types.Intent{Verb: "assemblies"},
		},

		// Aliases
		{
			name:  "l → look",
			input: "l",
			want:  types.Intent{Verb: "look"},
		},
		{
			name:  "who 1 1 → collectors 1 1",
			input: "who 1 1",
			want:  types.Intent{Verb: "collectors", Args: []string{"1", "1"}},
		},
		{
			name:  "x 2 3 → tile 2 3",
			input: "x 2 3",
			want:  types.Intent{Verb: "tile", Args: []string{"2", "3"}},
		},
		{
			name:  "ls → assemblies",
			input: "ls",
			want:  types.Intent{Verb: "assemblies"},
		},
		{
			name:  "adj → adjacent",
			input: "adj 0 0",
			want:  types.Intent{Verb: "adjacent", Args: []string{"0", "0"}},
		},
		{
			name:  "need → missing",
			input: "need harvest.corn h1",
			want:  types.Intent{Verb: "missing", Args: []string{"harvest.corn", "h1"}},
		},

		// Coordinates
		{
			name:  "comma coordinates",
			input: "tile 2,3",
			want:  types.Intent{Verb: "tile", Args: []string{"2", "3"}},
		},
		{
			name:  "parenthesized coordinates",
			input: "tile (2, 3)",
			want:  types.Intent{Verb: "tile", Args: []string{"2", "3"}},
		},

		// Fillers
		{
			name:  "fillers stripped",
			input: "actions at 1 1 for the H1",
			want:  types.Intent{Verb: "actions", Args: []string{"1", "1", "H1"}},
		},
		{
			name:  "argument case preserved",
			input: "assembly Harvester-01",
			want:  types.Intent{Verb: "assembly", Args: []string{"Harvester-01"}},
		},

		// can
		{
			name:  "can harvest",
			input: "can harvest 1 2 h1",
			want:  types.Intent{Verb: "can", Args: []string{"harvest", "1", "2", "h1"}},
		},
		{
			name:  "can milk → collect",
			input: "can milk 3 3 h1 with milk",
			want:  types.Intent{Verb: "can", Args: []string{"collect", "3", "3", "h1", "milk"}},
		},
		{
			name:  "can plant → sow",
			input: "can plant Seedling s1",
			want:  types.Intent{Verb: "can", Args: []string{"sow", "Seedling", "s1"}},
		},
		{
			name:  "can fence → collar",
			input: "can fence c1",
			want:  types.Intent{Verb: "can", Args: []string{"collar", "c1"}},
		},
		{
			name:  "bare can",
			input: "can",
			want:  types.Intent{Verb: "can"},
		},
		{
			name:  "unknown verb passes through",
			input: "dance wildly",
			want:  types.Intent{Verb: "dance", Args: []string{"wildly"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
