package pixelgrid

import "math"

// Point is a pointer position in viewport coordinates.
type Point struct {
	X, Y float64
}

// PointerTracker holds the current pointer set. Each update replaces the
// whole set; no identity is kept between events.
type PointerTracker struct {
	points []Point
}

// Move records a single mouse position.
func (t *PointerTracker) Move(x, y float64) {
	t.points = []Point{{X: x, Y: y}}
}

// Leave clears all pointers.
func (t *PointerTracker) Leave() {
	t.points = nil
}

// SetTouches replaces the set with the current touch contacts.
func (t *PointerTracker) SetTouches(points []Point) {
	if len(points) == 0 {
		t.points = nil
		return
	}
	t.points = append(make([]Point, 0, len(points)), points...)
}

// Points returns the active pointers. The slice must not be modified.
func (t *PointerTracker) Points() []Point {
	return t.points
}

// Active reports whether any pointer is present.
func (t *PointerTracker) Active() bool {
	return len(t.points) > 0
}

// MinDistance returns the distance from (x, y) to the nearest point, or
// +Inf when there are none.
func MinDistance(x, y float64, points []Point) float64 {
	minD := math.Inf(1)
	for _, pt := range points {
		if d := math.Hypot(x-pt.X, y-pt.Y); d < minD {
			minD = d
		}
	}
	return minD
}
