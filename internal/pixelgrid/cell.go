package pixelgrid

import (
	"image/color"
	"math"
	"math/rand"
)

// Params holds the tunables of the effect. Distances are in
// device-independent pixels.
type Params struct {
	CellSize      int
	Density       float64 // trail density gate, 0..1
	RadiusMult    float64 // glow radius in cells
	MaxAlpha      float64 // peak glow
	FadeSpeed     float64 // alpha lost per frame
	ShadowBlur    float64 // glow softness
	IdleFraction  float64 // share of cells that drift when idle
	IdleAmplitude float64 // drift distance
	Palette       []color.NRGBA
}

// Radius returns the distance within which a pointer lights cells up.
func (p Params) Radius() float64 {
	return float64(p.CellSize) * p.RadiusMult
}

// Cell is one grid tile. Only Alpha changes after the grid is built.
type Cell struct {
	BaseX, BaseY float64
	Color        color.NRGBA
	Alpha        float64
	Stamp        float64
	IdleEligible bool
	FloatPhase   float64
}

// Grid is the ordered set of cells covering the viewport.
type Grid []Cell

// Stamp returns a stable pseudo-random value in [0, 1) for a position.
func Stamp(x, y float64) float64 {
	s := math.Sin(x*12.9898+y*78.233) * 43758.5453
	return s - math.Floor(s)
}

// CellCount returns how many cells a width x height viewport holds.
func CellCount(width, height, cellSize int) int {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		return 0
	}
	return (width / cellSize) * (height / cellSize)
}

// BuildGrid lays out cells column by column over the viewport. Only
// whole tiles are created. Colours and float phases are drawn from rng;
// stamps depend on position alone so rebuilds keep their character.
func BuildGrid(width, height int, p Params, rng *rand.Rand) Grid {
	n := CellCount(width, height, p.CellSize)
	if n == 0 {
		return nil
	}

	cols := width / p.CellSize
	rows := height / p.CellSize
	size := float64(p.CellSize)

	grid := make(Grid, 0, n)
	for col := 0; col < cols; col++ {
		x := float64(col) * size
		for row := 0; row < rows; row++ {
			y := float64(row) * size
			stamp := Stamp(x, y)

			var c color.NRGBA
			if len(p.Palette) > 0 {
				c = p.Palette[rng.Intn(len(p.Palette))]
			}

			grid = append(grid, Cell{
				BaseX:        x,
				BaseY:        y,
				Color:        c,
				Stamp:        stamp,
				IdleEligible: stamp < p.IdleFraction,
				FloatPhase:   rng.Float64() * 2 * math.Pi,
			})
		}
	}
	return grid
}

// Glowing counts cells bright enough to be drawn lit.
func (g Grid) Glowing() int {
	n := 0
	for i := range g {
		if g[i].Alpha > GlowThreshold {
			n++
		}
	}
	return n
}
