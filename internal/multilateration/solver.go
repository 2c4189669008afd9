package multilateration

import (
	"fmt"
	"math"

	"loran-sim/internal/common"

	"golang.org/x/sync/errgroup"
)

// Solution contains the estimated position and a measure of the solution quality.
type Solution struct {
	Position      common.Vector
	ResidualError float64 // Sum of both absolute distance-difference errors at Position. Lower is better.
	Refined       bool    // Position came from the refinement step rather than the grid.
}

// Config controls the search performed by a Solver.
type Config struct {
	Grid          Grid
	Workers       int // Column bands scanned concurrently. <= 1 scans sequentially.
	Refinement    Refinement
	MaxIterations int // Upper bound for refinement iterations. 0 selects a default.
}

// DefaultConfig returns the sequential, unrefined 0..999 grid search.
func DefaultConfig() Config {
	return Config{Grid: DefaultGrid(), Workers: 1, Refinement: RefineNone}
}

const defaultMaxIterations = 50

// Solver estimates a receiver position from three stations and two time
// differences. A Solver holds only its configuration and is safe for
// concurrent use.
type Solver struct {
	cfg Config
}

// NewSolver validates cfg and returns a Solver. A zero Grid is replaced by
// DefaultGrid.
func NewSolver(cfg Config) (*Solver, error) {
	if cfg.Grid == (Grid{}) {
		cfg.Grid = DefaultGrid()
	}
	if err := cfg.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solver grid: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if _, err := ParseRefinement(cfg.Refinement.String()); err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg}, nil
}

var defaultSolver = &Solver{cfg: Config{
	Grid:          DefaultGrid(),
	Workers:       1,
	MaxIterations: defaultMaxIterations,
}}

// Solve runs the default grid search and returns the estimated position.
func Solve(master, slaveA, slaveB, timeDifference common.Vector) common.Vector {
	return defaultSolver.Solve(master, slaveA, slaveB, timeDifference).Position
}

// Config returns the effective configuration.
func (s *Solver) Config() Config {
	return s.cfg
}

// Solve estimates the receiver position. timeDifference holds the arrival
// time deltas in seconds of slave A (X) and slave B (Y) relative to the
// master. It never fails: inconsistent measurements yield the best grid
// point available.
func (s *Solver) Solve(master, slaveA, slaveB, timeDifference common.Vector) Solution {
	return s.SolveDistances(master, slaveA, slaveB, common.DistanceDifference(timeDifference))
}

// SolveDistances is Solve with the time differences already converted to
// distance differences.
func (s *Solver) SolveDistances(master, slaveA, slaveB, distanceDifference common.Vector) Solution {
	p := problem{master: master, slaveA: slaveA, slaveB: slaveB, dd: distanceDifference}

	best := s.scan(p)
	solution := Solution{Position: best.pos, ResidualError: best.err}

	if s.cfg.Refinement == RefineNone || !best.found {
		return solution
	}
	refined, ok := s.refine(p, best.pos)
	if !ok || !refined.IsFinite() || !s.cfg.Grid.Contains(refined) {
		return solution
	}
	if e := p.totalError(refined); e < best.err {
		return Solution{Position: refined, ResidualError: e, Refined: true}
	}
	return solution
}

// problem is one set of solver inputs.
type problem struct {
	master, slaveA, slaveB common.Vector
	dd                     common.Vector
}

// residuals returns the signed distance-difference errors at pt.
func (p problem) residuals(pt common.Vector) (float64, float64) {
	dm := pt.Distance(p.master)
	return dm - pt.Distance(p.slaveA) - p.dd.X, dm - pt.Distance(p.slaveB) - p.dd.Y
}

func (p problem) totalError(pt common.Vector) float64 {
	rx, ry := p.residuals(pt)
	return math.Abs(rx) + math.Abs(ry)
}

type candidate struct {
	pos   common.Vector
	err   float64
	found bool
}

// scanColumns evaluates columns [from, to) of g, X outer and Y inner, and
// keeps the first strict minimum.
func (p problem) scanColumns(g Grid, from, to int) candidate {
	best := candidate{pos: g.At(from, 0), err: math.Inf(1)}
	rows := g.Rows()
	for i := from; i < to; i++ {
		for j := 0; j < rows; j++ {
			pt := g.At(i, j)
			if e := p.totalError(pt); e < best.err {
				best = candidate{pos: pt, err: e, found: true}
			}
		}
	}
	return best
}

func (s *Solver) scan(p problem) candidate {
	g := s.cfg.Grid
	cols := g.Columns()
	workers := s.cfg.Workers
	if workers > cols {
		workers = cols
	}
	if workers <= 1 {
		return p.scanColumns(g, 0, cols)
	}

	bands := make([]candidate, workers)
	width := (cols + workers - 1) / workers

	var eg errgroup.Group
	eg.SetLimit(workers)
	for k := range bands {
		k := k
		from := k * width
		to := min(from+width, cols)
		if from >= to {
			bands[k] = candidate{err: math.Inf(1)}
			continue
		}
		eg.Go(func() error {
			bands[k] = p.scanColumns(g, from, to)
			return nil
		})
	}
	_ = eg.Wait()

	// Reduce in scan order so ties resolve exactly like the sequential scan.
	best := candidate{pos: g.At(0, 0), err: math.Inf(1)}
	for _, b := range bands {
		if b.found && b.err < best.err {
			best = b
		}
	}
	return best
}

// LocalizationError calculates the Euclidean distance between the true and estimated positions.
func LocalizationError(truePosition, estimatedPosition common.Vector) (float64, error) {
	if !truePosition.IsFinite() || !estimatedPosition.IsFinite() {
		return 0, fmt.Errorf("cannot calculate error with non-finite positions %s, %s", truePosition, estimatedPosition)
	}
	return truePosition.Distance(estimatedPosition), nil
}
