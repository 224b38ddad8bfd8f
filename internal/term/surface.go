package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

// Surface rasterises the grid onto terminal cells. Every character holds
// two vertically stacked pixels drawn with an upper half block; one pixel
// covers unit x unit viewport px. The device pixel ratio is ignored since a
// terminal has no finer resolution to offer.
type Surface struct {
	unit       float64
	background colorful.Color

	cols, rows int // pixels
	pix        []colorful.Color
}

func NewSurface(unit int, background color.NRGBA) *Surface {
	return &Surface{
		unit:       float64(max(unit, 1)),
		background: toColorful(background),
	}
}

func (s *Surface) Resize(width, height int, dpr float64) {
	s.cols = int(float64(width) / s.unit)
	s.rows = int(float64(height) / s.unit)
	if s.cols <= 0 || s.rows <= 0 {
		s.cols, s.rows, s.pix = 0, 0, nil
		return
	}
	s.pix = make([]colorful.Color, s.cols*s.rows)
	s.Clear()
}

func (s *Surface) Clear() {
	for i := range s.pix {
		s.pix[i] = s.background
	}
}

// FillRect blends c over every pixel the rectangle touches, weighted by
// coverage. A blur spills a fainter halo onto neighbouring pixels.
func (s *Surface) FillRect(r pixelgrid.Rect, c color.NRGBA, blur float64) {
	if len(s.pix) == 0 || c.A == 0 {
		return
	}
	col := toColorful(c)
	alpha := float64(c.A) / 255

	if blur > 0 {
		spread := blur / 2
		s.blend(pixelgrid.Rect{X: r.X - spread, Y: r.Y - spread, W: r.W + 2*spread, H: r.H + 2*spread}, col, alpha*0.25)
	}
	s.blend(r, col, alpha)
}

func (s *Surface) blend(r pixelgrid.Rect, col colorful.Color, alpha float64) {
	x0 := max(int(math.Floor(r.X/s.unit)), 0)
	y0 := max(int(math.Floor(r.Y/s.unit)), 0)
	x1 := min(int(math.Ceil((r.X+r.W)/s.unit)), s.cols)
	y1 := min(int(math.Ceil((r.Y+r.H)/s.unit)), s.rows)

	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			cover := overlap(r.X, r.X+r.W, float64(px)*s.unit, float64(px+1)*s.unit) *
				overlap(r.Y, r.Y+r.H, float64(py)*s.unit, float64(py+1)*s.unit) /
				(s.unit * s.unit)
			if cover <= 0 {
				continue
			}
			i := py*s.cols + px
			s.pix[i] = s.pix[i].BlendRgb(col, alpha*cover).Clamped()
		}
	}
}

func overlap(a0, a1, b0, b1 float64) float64 {
	return math.Max(0, math.Min(a1, b1)-math.Max(a0, b0))
}

// At returns the colour of pixel (x, y).
func (s *Surface) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows {
		return s.background
	}
	return s.pix[y*s.cols+x]
}

// Flush writes the pixels to screen, two per character.
func (s *Surface) Flush(screen tcell.Screen) {
	for cy := 0; cy*2 < s.rows; cy++ {
		for cx := 0; cx < s.cols; cx++ {
			top := s.At(cx, cy*2)
			bottom := s.At(cx, cy*2+1)
			style := tcell.StyleDefault.
				Foreground(toTcell(top)).
				Background(toTcell(bottom))
			screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
