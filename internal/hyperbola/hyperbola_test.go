package hyperbola

import (
	"errors"
	"math"
	"testing"

	"loran-sim/internal/common"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNoNaN(t *testing.T, c *Curve) {
	t.Helper()
	for i, s := range c.Samples {
		for _, v := range []common.Vector{s.Local, s.Point, s.Mirror} {
			require.True(t, v.IsFinite(), "sample %d has non-finite coordinate %s", i, v)
		}
	}
	for i, seg := range c.Segments {
		require.True(t, seg.From.IsFinite() && seg.To.IsFinite(), "segment %d is non-finite", i)
	}
}

func TestTessellate_SampleCount(t *testing.T) {
	foci := []struct{ f1, f2 common.Vector }{
		{common.NewVector(50, 250), common.NewVector(100, 200)},
		{common.NewVector(50, 250), common.NewVector(300, 100)},
		{common.NewVector(-400, 10), common.NewVector(900, -30)},
		{common.NewVector(0, 0), common.NewVector(0, 1)},
	}
	for _, points := range []int{2, 3, 500, 1001} {
		cfg := Config{Points: points, MinX: -500, MaxX: 1500}
		for _, f := range foci {
			sep := f.f1.Distance(f.f2)
			for _, dd := range []float64{0, sep / 3, -sep / 2, sep} {
				c, err := Tessellate(f.f1, f.f2, dd, cfg)
				require.NoError(t, err)
				assert.Len(t, c.Samples, points)
				assert.LessOrEqual(t, len(c.BranchSegments(Primary)), points-1)
				assert.LessOrEqual(t, len(c.BranchSegments(Mirrored)), points-1)
				assertNoNaN(t, c)
			}
		}
	}
}

func TestTessellate_PointsLieOnLocus(t *testing.T) {
	f1 := common.NewVector(50, 250)
	f2 := common.NewVector(300, 100)
	dd := 22.48443435

	c, err := Tessellate(f1, f2, dd, DefaultConfig())
	require.NoError(t, err)
	require.Greater(t, c.ValidSamples(), 0)

	for i, s := range c.Samples {
		if !s.Valid {
			continue
		}
		for _, p := range []common.Vector{s.Point, s.Mirror} {
			diff := p.Distance(f1) - p.Distance(f2)
			assert.InDelta(t, math.Abs(dd), math.Abs(diff), 1e-6, "sample %d at %s", i, p)
			if s.Physical {
				assert.InDelta(t, dd, diff, 1e-6, "physical sample %d should be on the +dd branch", i)
			}
		}
	}
}

func TestTessellate_MirrorIsReflectionAcrossMajorAxis(t *testing.T) {
	f1 := common.NewVector(-20, 40)
	f2 := common.NewVector(160, 310)
	c, err := Tessellate(f1, f2, -75, DefaultConfig())
	require.NoError(t, err)

	for i, s := range c.Samples {
		// Undo translation and rotation to get back into the local frame.
		p := s.Point.Subtract(c.Params.Center).Rotate(-c.Params.Angle)
		m := s.Mirror.Subtract(c.Params.Center).Rotate(-c.Params.Angle)

		assert.InDelta(t, s.Local.X, p.X, 1e-6, "sample %d", i)
		assert.InDelta(t, s.Local.Y, p.Y, 1e-6, "sample %d", i)
		assert.InDelta(t, s.Local.X, m.X, 1e-6, "sample %d", i)
		assert.InDelta(t, -s.Local.Y, m.Y, 1e-6, "sample %d", i)
		assert.GreaterOrEqual(t, s.Local.Y, 0.0)
	}
}

func TestTessellate_DegenerateWhenDifferenceExceedsSeparation(t *testing.T) {
	f1 := common.NewVector(0, 0)
	f2 := common.NewVector(10, 0)

	for _, dd := range []float64{10.0001, -10.5, 1e6} {
		c, err := Tessellate(f1, f2, dd, DefaultConfig())
		require.Error(t, err)
		assert.Nil(t, c)
		assert.True(t, errors.Is(err, ErrDegenerate))

		var de *DegenerateError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, ReasonExceedsBaseline, de.Reason)
		assert.Equal(t, 10.0, de.FocusSeparation)
		assert.Equal(t, dd, de.DistanceDifference)
	}
}

func TestTessellate_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		f1, f2 common.Vector
		dd     float64
		want   Reason
	}{
		{"coincident foci", common.NewVector(3, 3), common.NewVector(3, 3), 0, ReasonCoincidentFoci},
		{"coincident foci nonzero dd", common.NewVector(3, 3), common.NewVector(3, 3), 1, ReasonCoincidentFoci},
		{"nan difference", common.NewVector(0, 0), common.NewVector(10, 0), math.NaN(), ReasonNonFinite},
		{"inf focus", common.NewVector(math.Inf(1), 0), common.NewVector(10, 0), 1, ReasonNonFinite},
		{"separation overflows", common.NewVector(-1.5e308, 0), common.NewVector(1.5e308, 0), 1, ReasonNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tessellate(tt.f1, tt.f2, tt.dd, DefaultConfig())
			var de *DegenerateError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.want, de.Reason)
			assert.ErrorIs(t, err, ErrDegenerate)
			assert.NotEmpty(t, de.Error())
		})
	}
}

func TestTessellate_InvalidConfig(t *testing.T) {
	f1 := common.NewVector(0, 0)
	f2 := common.NewVector(10, 0)

	for _, cfg := range []Config{
		{Points: 1, MinX: -1, MaxX: 1},
		{Points: 0, MinX: -1, MaxX: 1},
		{Points: 10, MinX: 1, MaxX: 1},
		{Points: 10, MinX: 0, MaxX: math.NaN()},
	} {
		_, err := Tessellate(f1, f2, 2, cfg)
		assert.Error(t, err, "%+v", cfg)
		assert.False(t, errors.Is(err, ErrDegenerate))
	}
}

func TestTessellate_InvalidSamplesAreSkipped(t *testing.T) {
	// Domain straddles the vertices at x = ±4.
	cfg := Config{Points: 17, MinX: -8, MaxX: 8}
	c, err := Tessellate(common.NewVector(-5, 0), common.NewVector(5, 0), 8, cfg)
	require.NoError(t, err)
	assertNoNaN(t, c)

	for _, s := range c.Samples {
		assert.Equal(t, math.Abs(s.Local.X) >= 4, s.Valid, "x=%v", s.Local.X)
		if !s.Valid {
			assert.False(t, s.Physical)
			assert.Equal(t, 0.0, s.Local.Y)
		}
	}

	// x = -8..-4 and 4..8 are valid: 5 samples per arm, 4 segments each,
	// and nothing joins the arms.
	assert.Len(t, c.BranchSegments(Primary), 8)
	assert.Len(t, c.BranchSegments(Mirrored), 8)
	for _, seg := range c.Segments {
		assert.False(t, seg.From.X < 0 && seg.To.X > 0, "segment bridges the arms: %+v", seg)
	}
}

func TestTessellate_PhysicalBranchFollowsSign(t *testing.T) {
	f1 := common.NewVector(0, 0)
	f2 := common.NewVector(100, 0)
	cfg := Config{Points: 101, MinX: -100, MaxX: 100}

	pos, err := Tessellate(f1, f2, 40, cfg)
	require.NoError(t, err)
	neg, err := Tessellate(f1, f2, -40, cfg)
	require.NoError(t, err)

	for i := range pos.Samples {
		p, n := pos.Samples[i], neg.Samples[i]
		if !p.Valid {
			continue
		}
		// Positive difference: closer to focus2, which lies on +x.
		assert.Equal(t, p.Local.X > 0, p.Physical, "x=%v", p.Local.X)
		assert.Equal(t, n.Local.X < 0, n.Physical, "x=%v", n.Local.X)
	}
}

func TestTessellate_ZeroDifferenceIsBisector(t *testing.T) {
	f1 := common.NewVector(10, 10)
	f2 := common.NewVector(30, 50)
	c, err := Tessellate(f1, f2, 0, Config{Points: 50, MinX: -100, MaxX: 100})
	require.NoError(t, err)

	assert.Equal(t, 50, c.ValidSamples())
	assert.Len(t, c.BranchSegments(Primary), 49)
	for _, s := range c.Samples {
		assert.True(t, s.Physical)
		assert.InDelta(t, s.Point.Distance(f1), s.Point.Distance(f2), 1e-9)
		assert.InDelta(t, s.Mirror.Distance(f1), s.Mirror.Distance(f2), 1e-9)
	}
}

func TestTessellate_DifferenceEqualToSeparation(t *testing.T) {
	f1 := common.NewVector(0, 0)
	f2 := common.NewVector(20, 0)
	c, err := Tessellate(f1, f2, 20, Config{Points: 41, MinX: -20, MaxX: 20})
	require.NoError(t, err)

	assert.Equal(t, 0.0, c.Params.B)
	assertNoNaN(t, c)
	for _, s := range c.Samples {
		if s.Valid {
			assert.Equal(t, 0.0, s.Local.Y)
		}
	}
}

func TestTessellate_Params(t *testing.T) {
	c, err := Tessellate(common.NewVector(0, 0), common.NewVector(0, 10), 6, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 3.0, c.Params.A)
	assert.Equal(t, 5.0, c.Params.C)
	assert.Equal(t, 4.0, c.Params.B)
	assert.Equal(t, common.NewVector(0, 5), c.Params.Center)
	assert.InDelta(t, math.Pi/2, c.Params.Angle, 1e-12)

	first, last := c.Samples[0], c.Samples[len(c.Samples)-1]
	assert.Equal(t, -500.0, first.Local.X)
	assert.InDelta(t, 1500.0, last.Local.X, 1e-9)
}

func TestTessellate_TinyDifferenceStaysFinite(t *testing.T) {
	c, err := Tessellate(common.NewVector(0, 0), common.NewVector(10, 0), 1e-310, DefaultConfig())
	require.NoError(t, err)
	assertNoNaN(t, c)
}

func TestTessellate_Deterministic(t *testing.T) {
	f1 := common.NewVector(50, 250)
	f2 := common.NewVector(100, 200)
	a, err := Tessellate(f1, f2, 14.9896229, DefaultConfig())
	require.NoError(t, err)
	b, err := Tessellate(f1, f2, 14.9896229, DefaultConfig())
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("tessellation not deterministic (-first +second):\n%s", diff)
	}
}
