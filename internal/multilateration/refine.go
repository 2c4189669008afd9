package multilateration

import (
	"fmt"
	"math"
	"strings"

	"loran-sim/internal/common"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Refinement selects the local search run from the best grid point.
type Refinement int

const (
	RefineNone Refinement = iota
	// RefineNewton runs Gauss-Newton on the two distance-difference equations.
	RefineNewton
	// RefineNelderMead minimises the total absolute error without derivatives.
	RefineNelderMead
)

func (r Refinement) String() string {
	switch r {
	case RefineNone:
		return "none"
	case RefineNewton:
		return "newton"
	case RefineNelderMead:
		return "nelder-mead"
	default:
		return fmt.Sprintf("refinement(%d)", int(r))
	}
}

// ParseRefinement maps a configuration name to a Refinement.
func ParseRefinement(name string) (Refinement, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return RefineNone, nil
	case "newton":
		return RefineNewton, nil
	case "nelder-mead", "neldermead":
		return RefineNelderMead, nil
	}
	return RefineNone, fmt.Errorf("unknown refinement %q (want none, newton or nelder-mead)", name)
}

func (s *Solver) refine(p problem, seed common.Vector) (common.Vector, bool) {
	switch s.cfg.Refinement {
	case RefineNewton:
		return p.refineNewton(seed, s.cfg.MaxIterations)
	case RefineNelderMead:
		return p.refineNelderMead(seed, s.cfg.MaxIterations, s.cfg.Grid.Step)
	}
	return seed, false
}

const newtonTolerance = 1e-10

// refineNewton solves r(P) = 0 for the two signed residuals. Each row of the
// Jacobian is the difference of the unit vectors pointing from the stations
// to P.
func (p problem) refineNewton(seed common.Vector, maxIter int) (common.Vector, bool) {
	x := seed
	for iter := 0; iter < maxIter; iter++ {
		rx, ry := p.residuals(x)
		um, okM := unitFrom(p.master, x)
		ua, okA := unitFrom(p.slaveA, x)
		ub, okB := unitFrom(p.slaveB, x)
		if !okM || !okA || !okB {
			return x, iter > 0
		}

		J := mat.NewDense(2, 2, []float64{
			um.X - ua.X, um.Y - ua.Y,
			um.X - ub.X, um.Y - ub.Y,
		})
		r := mat.NewVecDense(2, []float64{-rx, -ry})

		var step mat.VecDense
		if err := step.SolveVec(J, r); err != nil {
			// Singular geometry, e.g. P on the baseline extension of a station pair.
			return x, iter > 0
		}
		delta := common.NewVector(step.AtVec(0), step.AtVec(1))
		x = x.Add(delta)
		if !x.IsFinite() {
			return seed, false
		}
		if delta.Norm() < newtonTolerance {
			break
		}
	}
	return x, true
}

func unitFrom(station, pt common.Vector) (common.Vector, bool) {
	d := pt.Subtract(station)
	n := d.Norm()
	if n == 0 {
		return common.Vector{}, false
	}
	return d.MultiplyByScalar(1 / n), true
}

func (p problem) refineNelderMead(seed common.Vector, maxIter int, simplexSize float64) (common.Vector, bool) {
	objective := optimize.Problem{
		Func: func(x []float64) float64 {
			return p.totalError(common.NewVector(x[0], x[1]))
		},
	}
	settings := &optimize.Settings{
		MajorIterations: maxIter * 10,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 50,
		},
	}
	// Hitting an evaluation limit still leaves a usable location; the caller
	// accepts it only if it beats the grid point.
	result, _ := optimize.Minimize(objective, []float64{seed.X, seed.Y}, settings, &optimize.NelderMead{SimplexSize: simplexSize})
	if result == nil || len(result.X) != 2 || math.IsNaN(result.F) {
		return seed, false
	}
	return common.NewVector(result.X[0], result.X[1]), true
}
