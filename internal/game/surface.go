package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

// glowLayers is how many widening translucent rings approximate a blur.
const glowLayers = 4

// Surface draws the grid into an offscreen backing image sized
// viewport x dpr. Coordinates passed in are device-independent pixels.
type Surface struct {
	backing *ebiten.Image
	width   int
	height  int
	dpr     float64
}

// NewSurface returns an empty surface; Resize allocates the backing image.
func NewSurface() *Surface {
	return &Surface{dpr: 1}
}

func (s *Surface) Resize(width, height int, dpr float64) {
	bw, bh := backingSize(width, height, dpr)
	s.width, s.height, s.dpr = width, height, dpr
	if s.backing != nil {
		w, h := s.backing.Bounds().Dx(), s.backing.Bounds().Dy()
		if w == bw && h == bh {
			return
		}
		s.backing.Deallocate()
		s.backing = nil
	}
	if bw > 0 && bh > 0 {
		s.backing = ebiten.NewImage(bw, bh)
	}
}

func (s *Surface) Clear() {
	if s.backing != nil {
		s.backing.Clear()
	}
}

func (s *Surface) FillRect(r pixelgrid.Rect, c color.NRGBA, blur float64) {
	if s.backing == nil || r.W <= 0 || r.H <= 0 {
		return
	}
	if blur > 0 {
		s.drawGlow(r, c, blur)
	}
	s.fill(r, c)
}

// drawGlow fakes a canvas shadow: rings grow outwards and fade.
func (s *Surface) drawGlow(r pixelgrid.Rect, c color.NRGBA, blur float64) {
	for i := glowLayers; i >= 1; i-- {
		spread := blur / 2 * float64(i) / glowLayers
		halo := c
		halo.A = uint8(float64(c.A) * 0.35 * (1 - float64(i)/(glowLayers+1)))
		s.fill(pixelgrid.Rect{
			X: r.X - spread,
			Y: r.Y - spread,
			W: r.W + 2*spread,
			H: r.H + 2*spread,
		}, halo)
	}
}

func (s *Surface) fill(r pixelgrid.Rect, c color.NRGBA) {
	k := s.dpr
	vector.DrawFilledRect(s.backing,
		float32(r.X*k), float32(r.Y*k), float32(r.W*k), float32(r.H*k),
		c, false)
}

// Image returns the backing image, nil while the viewport is empty.
func (s *Surface) Image() *ebiten.Image {
	return s.backing
}

func backingSize(width, height int, dpr float64) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return int(math.Floor(float64(width) * dpr)), int(math.Floor(float64(height) * dpr))
}
