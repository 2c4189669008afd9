package multilateration

import (
	"fmt"
	"math"

	"loran-sim/internal/common"
)

// Grid is the rectangular candidate lattice scanned by the solver.
// Both bounds are inclusive.
type Grid struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Step       float64
}

// DefaultGrid covers 0..999 on both axes with unit step.
func DefaultGrid() Grid {
	return Grid{MinX: 0, MaxX: 999, MinY: 0, MaxY: 999, Step: 1}
}

// Validate checks that the grid describes a finite, non-empty lattice.
func (g Grid) Validate() error {
	for _, v := range []float64{g.MinX, g.MaxX, g.MinY, g.MaxY, g.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("grid bounds must be finite, got %+v", g)
		}
	}
	if g.Step <= 0 {
		return fmt.Errorf("grid step must be positive, got %g", g.Step)
	}
	if g.MaxX < g.MinX || g.MaxY < g.MinY {
		return fmt.Errorf("grid max must not be below min: x [%g, %g], y [%g, %g]", g.MinX, g.MaxX, g.MinY, g.MaxY)
	}
	return nil
}

// Columns returns the number of X positions scanned.
func (g Grid) Columns() int {
	return int(math.Floor((g.MaxX-g.MinX)/g.Step)) + 1
}

// Rows returns the number of Y positions scanned.
func (g Grid) Rows() int {
	return int(math.Floor((g.MaxY-g.MinY)/g.Step)) + 1
}

// At returns the candidate at column i, row j. Coordinates are computed from
// the index rather than accumulated so every scan sees identical points.
func (g Grid) At(i, j int) common.Vector {
	return common.NewVector(g.MinX+float64(i)*g.Step, g.MinY+float64(j)*g.Step)
}

// Contains reports whether p lies inside the grid bounds.
func (g Grid) Contains(p common.Vector) bool {
	return p.X >= g.MinX && p.X <= g.MaxX && p.Y >= g.MinY && p.Y <= g.MaxY
}

// CenterX returns the X coordinate of the grid's vertical symmetry axis.
func (g Grid) CenterX() float64 {
	return g.MinX + float64(g.Columns()-1)*g.Step/2
}
