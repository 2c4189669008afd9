// Package hyperbola tessellates the locus of points whose distance
// difference to two foci is constant, for display as line segments.
package hyperbola

import (
	"errors"
	"fmt"
	"math"

	"loran-sim/internal/common"

	"gonum.org/v1/gonum/floats"
)

// Config controls how a curve is sampled.
type Config struct {
	Points int     // Number of samples per branch. Must be at least 2.
	MinX   float64 // Sampled local x range, in the unrotated frame centred between the foci.
	MaxX   float64
}

// DefaultConfig samples 500 points over local x in [-500, 1500].
func DefaultConfig() Config {
	return Config{Points: 500, MinX: -500, MaxX: 1500}
}

// Validate checks the sampling parameters.
func (c Config) Validate() error {
	if c.Points < 2 {
		return fmt.Errorf("hyperbola needs at least 2 points, got %d", c.Points)
	}
	if math.IsNaN(c.MinX) || math.IsNaN(c.MaxX) || math.IsInf(c.MinX, 0) || math.IsInf(c.MaxX, 0) {
		return fmt.Errorf("hyperbola sample range must be finite, got [%g, %g]", c.MinX, c.MaxX)
	}
	if c.MaxX <= c.MinX {
		return fmt.Errorf("hyperbola sample range is empty: [%g, %g]", c.MinX, c.MaxX)
	}
	return nil
}

// ErrDegenerate matches every *DegenerateError via errors.Is.
var ErrDegenerate = errors.New("degenerate hyperbola")

// Reason classifies why no hyperbola exists for the given inputs.
type Reason int

const (
	// ReasonExceedsBaseline: |distance difference| is larger than the
	// distance between the foci, so no point can satisfy it.
	ReasonExceedsBaseline Reason = iota + 1
	// ReasonCoincidentFoci: both foci are the same point.
	ReasonCoincidentFoci
	// ReasonNonFinite: a focus or the distance difference is NaN or infinite.
	ReasonNonFinite
)

func (r Reason) String() string {
	switch r {
	case ReasonExceedsBaseline:
		return "distance difference exceeds focus separation"
	case ReasonCoincidentFoci:
		return "foci coincide"
	case ReasonNonFinite:
		return "non-finite input"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// DegenerateError reports inputs for which no real hyperbola exists.
type DegenerateError struct {
	Reason             Reason
	DistanceDifference float64
	FocusSeparation    float64
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate hyperbola: %s (|dd|=%g, separation=%g)",
		e.Reason, math.Abs(e.DistanceDifference), e.FocusSeparation)
}

// Is makes errors.Is(err, ErrDegenerate) succeed.
func (e *DegenerateError) Is(target error) bool {
	return target == ErrDegenerate
}

// Params are the derived geometric parameters of a curve.
type Params struct {
	A, B, C float64 // Semi-major axis (signed), semi-minor axis, half focus separation.
	Center  common.Vector
	Angle   float64 // Direction of focus1→focus2 in radians.
}

// Sample is one sampled local x position.
type Sample struct {
	Local  common.Vector // Point on the primary branch, unrotated frame.
	Point  common.Vector // Local rotated and translated to world space.
	Mirror common.Vector // (Local.X, -Local.Y) in world space.
	// Valid is false when the local x falls strictly between the vertices.
	// The curve has no point there, so Local is (x, 0) on the major axis
	// instead of NaN.
	Valid bool
	// Physical is true when the sample lies on the branch whose sign
	// matches the distance difference (closer to focus2 for positive values).
	Physical bool
}

// Branch identifies the primary (+y) or mirrored (-y) half of the samples.
type Branch int

const (
	Primary Branch = iota
	Mirrored
)

// Segment is a line between consecutive valid samples on one branch.
type Segment struct {
	From, To common.Vector
	Branch   Branch
	Physical bool
}

// Curve is the tessellated locus.
type Curve struct {
	Params   Params
	Samples  []Sample  // Always exactly Config.Points entries.
	Segments []Segment // Primary branch segments first, then mirrored.
}

// Tessellate samples the hyperbola with foci focus1 and focus2 whose points
// P satisfy |d(P,focus1) − d(P,focus2)| = |distanceDifference|.
// It returns a *DegenerateError when no such curve exists.
func Tessellate(focus1, focus2 common.Vector, distanceDifference float64, cfg Config) (*Curve, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	separation := focus1.Distance(focus2)
	if !focus1.IsFinite() || !focus2.IsFinite() || math.IsInf(separation, 0) ||
		math.IsNaN(distanceDifference) || math.IsInf(distanceDifference, 0) {
		return nil, &DegenerateError{Reason: ReasonNonFinite, DistanceDifference: distanceDifference, FocusSeparation: separation}
	}
	if separation == 0 {
		return nil, &DegenerateError{Reason: ReasonCoincidentFoci, DistanceDifference: distanceDifference, FocusSeparation: separation}
	}

	a := distanceDifference / 2
	c := separation / 2
	if math.Abs(a) > c {
		return nil, &DegenerateError{Reason: ReasonExceedsBaseline, DistanceDifference: distanceDifference, FocusSeparation: separation}
	}

	params := Params{
		A:      a,
		B:      math.Sqrt(c*c - a*a),
		C:      c,
		Center: focus1.Midpoint(focus2),
		Angle:  focus1.Angle(focus2),
	}

	xs := floats.Span(make([]float64, cfg.Points), cfg.MinX, cfg.MaxX)
	samples := make([]Sample, len(xs))
	for i, x := range xs {
		samples[i] = params.sample(x)
	}

	return &Curve{
		Params:   params,
		Samples:  samples,
		Segments: segments(samples),
	}, nil
}

// sample evaluates the curve at local parameter t.
func (p Params) sample(t float64) Sample {
	var local common.Vector
	valid, physical := true, true

	if p.A == 0 {
		// Equal arrival times: the locus is the perpendicular bisector,
		// so t runs along the minor axis.
		local = common.NewVector(0, t)
	} else {
		ratio := (t * t) / (p.A * p.A)
		if ratio >= 1 {
			local = common.NewVector(t, p.B*math.Sqrt(ratio-1))
		}
		// ratio is NaN or overflows when A is non-zero but A*A underflows.
		if !(ratio >= 1) || !local.IsFinite() {
			valid = false
			local = common.NewVector(t, 0)
		}
		physical = valid && t*p.A > 0
	}

	return Sample{
		Local:    local,
		Point:    p.toWorld(local),
		Mirror:   p.toWorld(common.NewVector(local.X, -local.Y)),
		Valid:    valid,
		Physical: physical,
	}
}

func (p Params) toWorld(local common.Vector) common.Vector {
	return local.Rotate(p.Angle).Add(p.Center)
}

func segments(samples []Sample) []Segment {
	out := make([]Segment, 0, 2*(len(samples)-1))
	for _, branch := range []Branch{Primary, Mirrored} {
		for i := 1; i < len(samples); i++ {
			prev, cur := samples[i-1], samples[i]
			if !prev.Valid || !cur.Valid {
				continue
			}
			// Do not bridge the gap between the two arms at the vertices.
			if prev.Local.X*cur.Local.X < 0 {
				continue
			}
			seg := Segment{Branch: branch, Physical: prev.Physical && cur.Physical}
			if branch == Primary {
				seg.From, seg.To = prev.Point, cur.Point
			} else {
				seg.From, seg.To = prev.Mirror, cur.Mirror
			}
			out = append(out, seg)
		}
	}
	return out
}

// BranchSegments returns the segments of one branch in sample order.
func (c *Curve) BranchSegments(b Branch) []Segment {
	var out []Segment
	for _, s := range c.Segments {
		if s.Branch == b {
			out = append(out, s)
		}
	}
	return out
}

// ValidSamples counts the samples that lie on the curve.
func (c *Curve) ValidSamples() int {
	n := 0
	for _, s := range c.Samples {
		if s.Valid {
			n++
		}
	}
	return n
}
