package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default returns the demo scenario: master at (50, 250), slaves at
// (100, 200) and (300, 100), time differences of 50 and 75 microseconds.
func Default() *Scenario {
	return &Scenario{
		Stations: StationsConfig{
			Master: Point{X: 50, Y: 250},
			SlaveA: Point{X: 100, Y: 200},
			SlaveB: Point{X: 300, Y: 100},
		},
		TimeDifferenceMicroseconds: Point{X: 50, Y: 75},
		Solver: SolverConfig{
			Grid:       GridConfig{MinX: 0, MaxX: 999, MinY: 0, MaxY: 999, Step: 1},
			Workers:    1,
			Refinement: "none",
		},
		Hyperbola: HyperbolaConfig{Points: 500, MinX: -500, MaxX: 1500},
		Window: WindowConfig{
			Width:     1200,
			Height:    1000,
			PanSpeed:  10,
			ZoomStep:  0.1,
			ZoomMin:   0.1,
			ZoomMax:   2,
			Title:     "LORAN TDoA",
			TicksRate: 60,
		},
	}
}

// Load reads a scenario from path. Sections missing from the file keep
// the values from Default.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and that the solver and curve settings
// are accepted by their packages.
func Validate(cfg *Scenario) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	sc, err := cfg.SolverSettings()
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if err := sc.Grid.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if err := cfg.CurveSettings().Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}
