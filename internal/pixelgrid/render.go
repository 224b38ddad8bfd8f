package pixelgrid

import (
	"image/color"
)

const (
	// GlowThreshold is the alpha above which a cell is drawn lit.
	GlowThreshold = 0.01

	liftFactor = 2.2  // px of elevation per unit alpha
	insetShade = 0.12 // inset darkness per unit alpha
)

// BaseColor is the faint lattice tile drawn for every cell.
var BaseColor = color.NRGBA{R: 255, G: 255, B: 255, A: 20} // 0.08 opacity

// Rect is an axis-aligned rectangle in device-independent pixels.
type Rect struct {
	X, Y, W, H float64
}

// Surface is a 2D drawing target sized to the viewport.
//
// Resize sets the viewport in device-independent pixels; implementations
// keep a backing buffer of floor(w*dpr) x floor(h*dpr) and scale drawing by
// dpr. A positive blur asks for a soft glow of that radius around the
// rectangle in the fill colour.
type Surface interface {
	Resize(width, height int, dpr float64)
	Clear()
	FillRect(r Rect, c color.NRGBA, blur float64)
}

// DrawBase draws the always-visible lattice tile at the drifted position.
func DrawBase(s Surface, x, y float64, size int) {
	sz := float64(size)
	s.FillRect(Rect{X: x, Y: y, W: sz - 1, H: sz - 1}, BaseColor, 0)
}

// DrawGlow draws the lifted glow tile and its darker inset for a lit
// cell. Cells at or below GlowThreshold draw nothing.
func DrawGlow(s Surface, c *Cell, x, y float64, p Params) {
	if c.Alpha <= GlowThreshold {
		return
	}
	sz := float64(p.CellSize)
	lift := c.Alpha * liftFactor

	s.FillRect(Rect{X: x + 1, Y: y + 1 - lift, W: sz - 3, H: sz - 3}, c.Color, p.ShadowBlur)

	shade := color.NRGBA{A: uint8(clamp01(c.Alpha*insetShade)*255 + 0.5)}
	s.FillRect(Rect{X: x + 2, Y: y + 2 - lift, W: sz - 4, H: sz - 4}, shade, 0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DrawOp is one FillRect call captured by a Recorder.
type DrawOp struct {
	Rect  Rect
	Color color.NRGBA
	Blur  float64
}

// Recorder is a Surface that keeps every draw call of the current frame.
// It is used by tests and by tooling that inspects frames.
type Recorder struct {
	Width, Height int
	DPR           float64
	Ops           []DrawOp
	Clears        int
}

func (r *Recorder) Resize(width, height int, dpr float64) {
	r.Width, r.Height, r.DPR = width, height, dpr
	r.Ops = r.Ops[:0]
}

func (r *Recorder) Clear() {
	r.Clears++
	r.Ops = r.Ops[:0]
}

func (r *Recorder) FillRect(rect Rect, c color.NRGBA, blur float64) {
	r.Ops = append(r.Ops, DrawOp{Rect: rect, Color: c, Blur: blur})
}

// Glows returns the ops drawn with a blur, one per lit cell.
func (r *Recorder) Glows() []DrawOp {
	var out []DrawOp
	for _, op := range r.Ops {
		if op.Blur > 0 {
			out = append(out, op)
		}
	}
	return out
}
