package config

import (
	"loran-sim/internal/common"
	"loran-sim/internal/hyperbola"
	"loran-sim/internal/multilateration"
)

// Point is a coordinate pair as written in the scenario file.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vector converts the point to the simulation's vector type.
func (p Point) Vector() common.Vector {
	return common.NewVector(p.X, p.Y)
}

// StationsConfig holds the three transmitter positions.
type StationsConfig struct {
	Master Point `yaml:"master"`
	SlaveA Point `yaml:"slave_a"`
	SlaveB Point `yaml:"slave_b"`
}

// GridConfig mirrors multilateration.Grid.
type GridConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x" validate:"gtefield=MinX"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y" validate:"gtefield=MinY"`
	Step float64 `yaml:"step" validate:"gt=0"`
}

// SolverConfig configures the position search.
type SolverConfig struct {
	Grid          GridConfig `yaml:"grid"`
	Workers       int        `yaml:"workers" validate:"gte=0,lte=1024"`
	Refinement    string     `yaml:"refinement" validate:"omitempty,oneof=none newton nelder-mead"`
	MaxIterations int        `yaml:"max_iterations" validate:"gte=0"`
}

// HyperbolaConfig configures curve sampling.
type HyperbolaConfig struct {
	Points int     `yaml:"points" validate:"gte=2"`
	MinX   float64 `yaml:"min_x"`
	MaxX   float64 `yaml:"max_x" validate:"gtfield=MinX"`
}

// WindowConfig configures the interactive view.
type WindowConfig struct {
	Width     int     `yaml:"width" validate:"gt=0"`
	Height    int     `yaml:"height" validate:"gt=0"`
	PanSpeed  float64 `yaml:"pan_speed" validate:"gt=0"`
	ZoomStep  float64 `yaml:"zoom_step" validate:"gt=0"`
	ZoomMin   float64 `yaml:"zoom_min" validate:"gt=0"`
	ZoomMax   float64 `yaml:"zoom_max" validate:"gtefield=ZoomMin"`
	Title     string  `yaml:"title"`
	TicksRate int     `yaml:"tps" validate:"gte=0"`
}

// Scenario is the root configuration structure.
type Scenario struct {
	Stations StationsConfig `yaml:"stations"`
	// TimeDifferenceMicroseconds holds slave A in x and slave B in y.
	TimeDifferenceMicroseconds Point           `yaml:"time_difference_us"`
	Solver                     SolverConfig    `yaml:"solver"`
	Hyperbola                  HyperbolaConfig `yaml:"hyperbola"`
	Window                     WindowConfig    `yaml:"window"`
}

// SolverSettings converts the solver section to a multilateration.Config.
func (s *Scenario) SolverSettings() (multilateration.Config, error) {
	refinement, err := multilateration.ParseRefinement(s.Solver.Refinement)
	if err != nil {
		return multilateration.Config{}, err
	}
	g := s.Solver.Grid
	return multilateration.Config{
		Grid:          multilateration.Grid{MinX: g.MinX, MaxX: g.MaxX, MinY: g.MinY, MaxY: g.MaxY, Step: g.Step},
		Workers:       s.Solver.Workers,
		Refinement:    refinement,
		MaxIterations: s.Solver.MaxIterations,
	}, nil
}

// CurveSettings converts the hyperbola section.
func (s *Scenario) CurveSettings() hyperbola.Config {
	return hyperbola.Config{Points: s.Hyperbola.Points, MinX: s.Hyperbola.MinX, MaxX: s.Hyperbola.MaxX}
}
