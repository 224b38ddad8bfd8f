package game

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

// deviceScale returns the monitor's device pixel ratio, at least 1.
func deviceScale() float64 {
	m := ebiten.Monitor()
	if m == nil {
		return 1
	}
	return math.Max(1, m.DeviceScaleFactor())
}

// toViewport converts screen pixels from ebiten into device-independent
// viewport coordinates.
func toViewport(x, y int, dpr float64) pixelgrid.Point {
	return pixelgrid.Point{X: float64(x) / dpr, Y: float64(y) / dpr}
}

// cursorInside reports whether the cursor counts as over the backdrop.
// A passthrough window never holds focus for long since clicks land on
// the windows below, so focus only matters when passthrough is off.
func cursorInside(p pixelgrid.Point, width, height int, focused, passthrough bool) bool {
	if !passthrough && !focused {
		return false
	}
	return inside(p, width, height)
}

func inside(p pixelgrid.Point, width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(width) && p.Y < float64(height)
}

func samePoints(a, b []pixelgrid.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
