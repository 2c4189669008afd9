package visualization

import (
	"math"

	"loran-sim/internal/common"
)

// Camera maps world coordinates to screen pixels. Target is the world point
// drawn at Offset on screen; Zoom scales world units to pixels.
type Camera struct {
	Target common.Vector
	Offset common.Vector
	Zoom   float64
}

// WorldToScreen converts a world position to screen coordinates.
func (c Camera) WorldToScreen(world common.Vector) (float32, float32) {
	s := world.Subtract(c.Target).MultiplyByScalar(c.Zoom).Add(c.Offset)
	return float32(s.X), float32(s.Y)
}

// ScreenToWorld converts screen coordinates to a world position.
func (c Camera) ScreenToWorld(x, y float64) common.Vector {
	return common.NewVector(x, y).Subtract(c.Offset).MultiplyByScalar(1 / c.Zoom).Add(c.Target)
}

// ClampZoom keeps Zoom inside [lo, hi].
func (c *Camera) ClampZoom(lo, hi float64) {
	c.Zoom = math.Max(lo, math.Min(hi, c.Zoom))
}

// Fit centres the camera on pts and picks the largest zoom, capped at
// maxZoom, that keeps them padding pixels away from the screen edges.
func (c *Camera) Fit(pts []common.Vector, screenWidth, screenHeight int, padding, maxZoom float64) {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range pts {
		if !p.IsFinite() {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if minX == math.MaxFloat64 { // No valid points found
		return
	}

	c.Target = common.NewVector((minX+maxX)/2, (minY+maxY)/2)
	c.Offset = common.NewVector(float64(screenWidth)/2, float64(screenHeight)/2)

	worldWidth := math.Max(maxX-minX, 1)
	worldHeight := math.Max(maxY-minY, 1)
	scaleX := (float64(screenWidth) - 2*padding) / worldWidth
	scaleY := (float64(screenHeight) - 2*padding) / worldHeight
	zoom := math.Min(scaleX, scaleY) // Preserve aspect ratio
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	c.Zoom = math.Min(zoom, maxZoom)
}
