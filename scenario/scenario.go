// Package scenario reads YAML world descriptions and builds them into a
// state.World against loaded content.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Scenario is one YAML world file.
type Scenario struct {
	Day        int            `yaml:"day" validate:"min=0"`
	Grid       GridSpec       `yaml:"grid"`
	Assemblies []AssemblySpec `yaml:"assemblies" validate:"dive"`
	Tiles      []TileSpec     `yaml:"tiles" validate:"dive"`
}

// GridSpec sizes the farm. Zero sides fall back to the content's size.
type GridSpec struct {
	Rows int `yaml:"rows" validate:"min=0,max=256"`
	Cols int `yaml:"cols" validate:"min=0,max=256"`
}

// AssemblySpec describes one assembly, from a premade template or an
// explicit module list. Actions and Moves override the derived budget.
type AssemblySpec struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Premade  string   `yaml:"premade" validate:"required_without=Modules,excluded_with=Modules"`
	Modules  []string `yaml:"modules"`
	Actions  *int     `yaml:"actions" validate:"omitempty,min=-1"`
	Moves    *int     `yaml:"moves" validate:"omitempty,min=0"`
	Deployed bool     `yaml:"deployed"`
}

// TileSpec places things on one tile.
type TileSpec struct {
	Row        int         `yaml:"row" validate:"min=0"`
	Col        int         `yaml:"col" validate:"min=0"`
	Soil       *SoilSpec   `yaml:"soil"`
	Plant      *PlantSpec  `yaml:"plant"`
	Animal     *AnimalSpec `yaml:"animal"`
	Assemblies []string    `yaml:"assemblies"`
}

// SoilSpec overrides the default soil readings.
type SoilSpec struct {
	Health       int `yaml:"health" validate:"min=0,max=100"`
	Water        int `yaml:"water" validate:"min=0"`
	Fertility    int `yaml:"fertility" validate:"min=0"`
	RecoveryRate int `yaml:"recovery_rate" validate:"min=0"`
}

// PlantSpec is a plant instance. An empty stage means the type's first.
type PlantSpec struct {
	Type  string `yaml:"type" validate:"required"`
	Stage string `yaml:"stage"`
	Age   int    `yaml:"age" validate:"min=0"`
}

// AnimalSpec is an animal instance.
type AnimalSpec struct {
	Type        string      `yaml:"type" validate:"required"`
	NextHarvest *int        `yaml:"next_harvest" validate:"omitempty,min=0"`
	Collar      *CollarSpec `yaml:"collar"`
}

// CollarSpec restricts an animal. Restricted holds [row, col] pairs.
type CollarSpec struct {
	Assembly   string  `yaml:"assembly"`
	Restricted [][]int `yaml:"restricted" validate:"dive,len=2"`
}

// ValidationError collects every problem found in a scenario.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenario has %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validate = validator.New()

// Parse decodes a scenario and checks its field constraints. Unknown YAML
// keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := validate.Struct(&s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		ve := &ValidationError{}
		for _, fe := range fieldErrs {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
		return nil, ve
	}
	return &s, nil
}

// LoadFile reads and parses a scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
