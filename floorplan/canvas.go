package floorplan

import (
	"fmt"
	"math"
)

const (
	GridUnit = 20

	MinZoom = 0.25
	MaxZoom = 3.0

	// MaxTablesPerZone caps table creation per zone on the server.
	MaxTablesPerZone = 500

	RotationStep = 90
)

// Point is a zone-local coordinate.
type Point struct {
	X, Y float64
}

// Canvas describes the rendered editor surface. Width and Height are the
// measured container size in screen pixels; zero means it could not be
// measured and positions are snapped but not clamped. Zoom must lie in
// [MinZoom, MaxZoom]; zero means 1. Validate reports any other zoom, since
// geometry computed at a clamped zoom would not match the rendered scale.
type Canvas struct {
	Zoom   float64
	Width  float64
	Height float64
}

func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

func (c Canvas) Validate() error {
	if c.Zoom == 0 {
		return nil
	}
	if math.IsNaN(c.Zoom) || c.Zoom < MinZoom || c.Zoom > MaxZoom {
		return &ValidationError{Field: "zoom", Reason: fmt.Sprintf("must be between %g and %g", MinZoom, MaxZoom)}
	}
	return nil
}

func SnapToGrid(v float64) float64 {
	return math.Round(v/GridUnit) * GridUnit
}

func (c Canvas) measured() bool {
	return c.Width > 0 && c.Height > 0
}

// Resolve snaps a candidate position to the grid and clamps it so a table of
// the given size stays within the canvas.
func (c Canvas) Resolve(candidate Point, size Size) Point {
	p := Point{X: SnapToGrid(candidate.X), Y: SnapToGrid(candidate.Y)}
	if !c.measured() {
		return p
	}
	z := ClampZoom(c.Zoom)
	maxX := math.Max(0, c.Width/z-float64(size.Width))
	maxY := math.Max(0, c.Height/z-float64(size.Height))
	p.X = math.Max(0, math.Min(p.X, maxX))
	p.Y = math.Max(0, math.Min(p.Y, maxY))
	return p
}

// Drag converts a screen-pixel pointer delta into a resolved zone-local position.
func (c Canvas) Drag(origin Point, dx, dy float64, size Size) Point {
	z := ClampZoom(c.Zoom)
	return c.Resolve(Point{X: origin.X + dx/z, Y: origin.Y + dy/z}, size)
}

// NextRotation advances rotation by a quarter turn.
func NextRotation(rotation int) int {
	return NormalizeRotation(float64(rotation + RotationStep))
}
