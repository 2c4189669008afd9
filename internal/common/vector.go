package common

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector represents a point or vector in the 2-D simulation plane.
type Vector struct {
	X, Y float64
}

// NewVector creates a vector from its coordinates.
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) r2() r2.Vec { return r2.Vec(v) }

// Add adds another vector to this vector.
func (v Vector) Add(other Vector) Vector {
	return Vector(r2.Add(v.r2(), other.r2()))
}

// Subtract subtracts another vector from this vector.
func (v Vector) Subtract(other Vector) Vector {
	return Vector(r2.Sub(v.r2(), other.r2()))
}

// MultiplyByScalar multiplies the vector by a scalar value.
func (v Vector) MultiplyByScalar(scalar float64) Vector {
	return Vector(r2.Scale(scalar, v.r2()))
}

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 {
	return r2.Norm(v.r2())
}

// Distance calculates the Euclidean distance between two points.
func (v Vector) Distance(other Vector) float64 {
	return r2.Norm(r2.Sub(v.r2(), other.r2()))
}

// Midpoint returns the point halfway between v and other.
func (v Vector) Midpoint(other Vector) Vector {
	return Vector(r2.Scale(0.5, r2.Add(v.r2(), other.r2())))
}

// Angle returns the direction of the v→other vector in radians.
func (v Vector) Angle(other Vector) float64 {
	return math.Atan2(other.Y-v.Y, other.X-v.X)
}

// Rotate rotates the vector around the origin by angle radians.
func (v Vector) Rotate(angle float64) Vector {
	return Vector(r2.Rotate(v.r2(), angle, r2.Vec{}))
}

// ReflectX mirrors the point across the vertical line x = axis.
func (v Vector) ReflectX(axis float64) Vector {
	return Vector{X: 2*axis - v.X, Y: v.Y}
}

// IsFinite reports whether both coordinates are finite numbers.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// String returns a string representation of the vector.
func (v Vector) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", v.X, v.Y)
}
