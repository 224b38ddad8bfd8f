package pixelgrid

import (
	"math"
	"time"
)

const (
	driftPeriodX = 1200.0 // ms
	driftPeriodY = 1000.0 // ms
)

// Smoothstep eases t in [0, 1] as 3t² - 2t³.
func Smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Drift returns the idle offset of c at time now. Cells that are not idle
// eligible never move.
func Drift(c *Cell, now time.Duration, amplitude float64) (dx, dy float64) {
	if !c.IdleEligible {
		return 0, 0
	}
	ms := float64(now) / float64(time.Millisecond)
	dx = math.Cos(ms/driftPeriodX+c.FloatPhase) * amplitude
	dy = math.Sin(ms/driftPeriodY+c.FloatPhase) * amplitude
	return dx, dy
}

// Proximity returns the eased closeness of the nearest pointer to the
// cell anchor: 1 on the anchor, 0 at or beyond the radius.
func Proximity(c *Cell, points []Point, radius float64) float64 {
	if len(points) == 0 || radius <= 0 {
		return 0
	}
	minD := MinDistance(c.BaseX, c.BaseY, points)
	if minD >= radius {
		return 0
	}
	return Smoothstep(1 - minD/radius)
}

// Ignite raises the cell's glow when the density gate admits it. Glow is
// only ever raised here, never lowered. It reports whether the cell was
// admitted.
func Ignite(c *Cell, points []Point, p Params) bool {
	t := Proximity(c, points, p.Radius())
	if t <= 0 {
		return false
	}
	if c.Stamp >= p.Density*t {
		return false
	}
	c.Alpha = math.Max(c.Alpha, t*p.MaxAlpha)
	return true
}

// Decay fades a lit cell by one frame's worth. Alpha is not floored; any
// value at or below zero is simply off.
func Decay(c *Cell, fade float64) {
	if c.Alpha > 0 {
		c.Alpha -= fade
	}
}
