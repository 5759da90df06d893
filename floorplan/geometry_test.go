package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		remote string
		want   Status
	}{
		{"available", StatusAvailable},
		{"occupied", StatusOccupied},
		{"waiting_for_payment", StatusWaitingForBill},
		{"maintenance", StatusDisabled},
		{"dirty", StatusAvailable},
		{"", StatusAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStatus(tt.remote))
		})
	}

	assert.Equal(t, "available", MapStatusToBackend(Status("Cleaning")))
}

func TestStatusAndShapeRoundTrip(t *testing.T) {
	for _, s := range []string{"available", "occupied", "waiting_for_payment", "maintenance"} {
		assert.Equal(t, s, MapStatusToBackend(MapStatus(s)))
		assert.True(t, IsKnownRemoteStatus(s))
	}
	for _, s := range []string{"rectangle", "circle", "oval"} {
		assert.Equal(t, s, MapShapeToBackend(MapShape(s)))
		assert.True(t, IsKnownRemoteShape(s))
	}
	assert.Equal(t, ShapeRectangle, MapShape(""))
	assert.Equal(t, ShapeRectangle, MapShape("hexagon"))
	assert.Equal(t, "rectangle", MapShapeToBackend(Shape("triangle")))
	assert.False(t, IsKnownRemoteShape("square"))
}

func TestCalculateTableSize_Breakpoints(t *testing.T) {
	tests := []struct {
		shape Shape
		seats int
		want  Size
	}{
		{ShapeRectangle, 1, Size{80, 60}},
		{ShapeRectangle, 4, Size{120, 80}},
		{ShapeRectangle, 5, Size{160, 80}},
		{ShapeRectangle, 10, Size{240, 100}},
		{ShapeRectangle, 11, Size{280, 110}},
		{ShapeRectangle, 12, Size{280, 110}},
		{ShapeRectangle, 14, Size{320, 120}},
		{ShapeCircle, 2, Size{70, 70}},
		{ShapeCircle, 12, Size{170, 170}},
		{ShapeOval, 8, Size{180, 100}},
		{ShapeOval, 12, Size{240, 120}},
		{Shape(""), 4, Size{120, 80}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateTableSize(tt.shape, tt.seats), "%s with %d seats", tt.shape, tt.seats)
	}
}

func TestCalculateTableSize_Monotonic(t *testing.T) {
	for _, shape := range []Shape{ShapeRectangle, ShapeCircle, ShapeOval} {
		prev := CalculateTableSize(shape, 1)
		for n := 2; n <= 40; n++ {
			cur := CalculateTableSize(shape, n)
			assert.GreaterOrEqual(t, cur.Width, prev.Width, "%s width at %d", shape, n)
			assert.GreaterOrEqual(t, cur.Height, prev.Height, "%s height at %d", shape, n)
			prev = cur
		}
	}
}

func TestCalculateTableSize_ShapeFamilies(t *testing.T) {
	for n := 1; n <= 40; n++ {
		c := CalculateTableSize(ShapeCircle, n)
		assert.Equal(t, c.Width, c.Height, "circle with %d seats", n)

		o := CalculateTableSize(ShapeOval, n)
		assert.Greater(t, o.Width, o.Height, "oval with %d seats", n)
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{270, 270},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-180, 180},
		{-450, 270},
		{44, 0},
		{46, 90},
		{225, 270},
		{359, 0},
		{720.5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRotation(tt.in), "NormalizeRotation(%v)", tt.in)
	}
}

func TestNormalizeRotation_Idempotent(t *testing.T) {
	canonical := map[int]bool{0: true, 90: true, 180: true, 270: true}
	for deg := -1080.0; deg <= 1080; deg += 7.5 {
		once := NormalizeRotation(deg)
		assert.True(t, canonical[once], "NormalizeRotation(%v) = %d", deg, once)
		assert.Equal(t, once, NormalizeRotation(float64(once)))
	}
}
