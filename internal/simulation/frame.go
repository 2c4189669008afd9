package simulation

import (
	"fmt"

	"loran-sim/internal/common"
	"loran-sim/internal/hyperbola"
	"loran-sim/internal/multilateration"
)

// FrameInput is everything the core needs for one frame. It is passed by
// value; the core keeps no reference to it after a call returns.
type FrameInput struct {
	Master, SlaveA, SlaveB common.Vector
	TimeDifference         common.Vector // Seconds, slave A in X and slave B in Y.
}

// DistanceDifference derives the distance differences for this input.
func (in FrameInput) DistanceDifference() common.Vector {
	return common.DistanceDifference(in.TimeDifference)
}

// Frame is the result of evaluating a FrameInput.
type Frame struct {
	Input    FrameInput
	Receiver multilateration.Solution

	// Curves for master/slave A and master/slave B. A nil curve comes with
	// a non-nil error, usually a *hyperbola.DegenerateError.
	CurveA, CurveB *hyperbola.Curve
	ErrA, ErrB     error
}

// Degenerate reports whether either curve could not be drawn.
func (f Frame) Degenerate() bool {
	return f.ErrA != nil || f.ErrB != nil
}

// Evaluator runs the per-frame pipeline: solve once, tessellate twice.
type Evaluator struct {
	solver *multilateration.Solver
	curve  hyperbola.Config
}

// NewEvaluator checks the curve configuration and binds it to a solver.
func NewEvaluator(solver *multilateration.Solver, curve hyperbola.Config) (*Evaluator, error) {
	if solver == nil {
		return nil, fmt.Errorf("evaluator needs a solver")
	}
	if err := curve.Validate(); err != nil {
		return nil, fmt.Errorf("invalid curve config: %w", err)
	}
	return &Evaluator{solver: solver, curve: curve}, nil
}

// Evaluate computes the receiver estimate and both hyperbolas for in.
// It holds no state and may be called concurrently.
func (e *Evaluator) Evaluate(in FrameInput) Frame {
	dd := in.DistanceDifference()
	f := Frame{
		Input:    in,
		Receiver: e.solver.Solve(in.Master, in.SlaveA, in.SlaveB, in.TimeDifference),
	}
	f.CurveA, f.ErrA = hyperbola.Tessellate(in.Master, in.SlaveA, dd.X, e.curve)
	f.CurveB, f.ErrB = hyperbola.Tessellate(in.Master, in.SlaveB, dd.Y, e.curve)
	return f
}
