// Package snapshot renders the backdrop offscreen with gogpu/gg and writes
// the last frame as a PNG. A scripted pointer sweeps across the viewport so
// the image shows a glow trail.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/gogpu/gg"

	"github.com/iburimskiy/pixel-backdrop/internal/config"
	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

const glowLayers = 4

// Surface draws into a gg context whose pixmap is viewport x dpr.
type Surface struct {
	dc         *gg.Context
	background gg.RGBA
	dpr        float64
}

func NewSurface(background color.NRGBA) *Surface {
	return &Surface{background: gg.FromColor(background), dpr: 1}
}

func (s *Surface) Resize(width, height int, dpr float64) {
	if s.dc != nil {
		_ = s.dc.Close()
		s.dc = nil
	}
	bw := int(math.Floor(float64(width) * dpr))
	bh := int(math.Floor(float64(height) * dpr))
	s.dpr = dpr
	if bw <= 0 || bh <= 0 {
		return
	}
	s.dc = gg.NewContext(bw, bh)
	s.dc.Scale(dpr, dpr)
	s.Clear()
}

func (s *Surface) Clear() {
	if s.dc != nil {
		s.dc.ClearWithColor(s.background)
	}
}

func (s *Surface) FillRect(r pixelgrid.Rect, c color.NRGBA, blur float64) {
	if s.dc == nil || r.W <= 0 || r.H <= 0 {
		return
	}
	col := gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)

	if blur > 0 {
		for i := glowLayers; i >= 1; i-- {
			spread := blur / 2 * float64(i) / glowLayers
			a := col.A * 0.35 * (1 - float64(i)/(glowLayers+1))
			s.dc.SetRGBA(col.R, col.G, col.B, a)
			s.dc.DrawRoundedRectangle(r.X-spread, r.Y-spread, r.W+2*spread, r.H+2*spread, spread)
			s.fill()
		}
	}

	s.dc.SetRGBA(col.R, col.G, col.B, col.A)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.fill()
}

func (s *Surface) fill() {
	if err := s.dc.Fill(); err != nil {
		gg.Logger().Warn("snapshot: fill failed", "error", err)
	}
}

// Image returns the rendered frame, nil for an empty viewport.
func (s *Surface) Image() image.Image {
	if s.dc == nil {
		return nil
	}
	return s.dc.Image()
}

// Options control a snapshot run.
type Options struct {
	Seed    int64
	Touches bool // sweep two mirrored touch points instead of a mouse
}

// Renderer steps the animator through a scripted pointer sweep.
type Renderer struct {
	cfg     config.SnapshotConfig
	opts    Options
	surface *Surface
	anim    *pixelgrid.Animator
	bus     *pixelgrid.EventBus
	clock   *pixelgrid.StepClock
	stats   pixelgrid.FrameStats
}

func NewRenderer(cfg *config.Config, opts Options) (*Renderer, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	hex := cfg.Window.Background
	if hex == "" {
		hex = config.Background
	}
	bg, err := config.ParseColor(hex)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:     cfg.Snapshot,
		opts:    opts,
		surface: NewSurface(bg),
		bus:     &pixelgrid.EventBus{},
		clock:   &pixelgrid.StepClock{},
	}
	r.anim = pixelgrid.NewAnimator(params, r.surface,
		pixelgrid.WithRand(rand.New(rand.NewSource(opts.Seed))),
		pixelgrid.WithFrameHook(func(s pixelgrid.FrameStats) { r.stats = s }),
	)
	return r, nil
}

// pointerAt returns where the sweep is at frame f of n.
func (r *Renderer) pointerAt(f, n int) pixelgrid.Point {
	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	t := float64(f) / float64(max(n-1, 1))
	return pixelgrid.Point{
		X: w * (0.1 + 0.8*t),
		Y: h/2 + h/4*math.Sin(2*math.Pi*t),
	}
}

// Render runs the configured number of frames and returns the stats of
// the last one.
func (r *Renderer) Render() pixelgrid.FrameStats {
	r.anim.Start(r.bus, r.clock)
	defer r.anim.Stop()

	r.bus.Publish(pixelgrid.Resize{Width: r.cfg.Width, Height: r.cfg.Height, DPR: r.cfg.DPR})

	n := r.cfg.Frames
	for f := 0; f < n; f++ {
		p := r.pointerAt(f, n)
		if r.opts.Touches {
			mirror := pixelgrid.Point{X: float64(r.cfg.Width) - p.X, Y: p.Y}
			r.bus.Publish(pixelgrid.Touches{Points: []pixelgrid.Point{p, mirror}})
		} else {
			r.bus.Publish(pixelgrid.PointerMove{X: p.X, Y: p.Y})
		}
		r.clock.Tick(time.Duration(f) * time.Second / 60)
	}
	return r.stats
}

// WritePNG encodes the last rendered frame.
func (r *Renderer) WritePNG(w io.Writer) error {
	if r.surface.dc == nil {
		return fmt.Errorf("snapshot: empty viewport %dx%d", r.cfg.Width, r.cfg.Height)
	}
	return r.surface.dc.EncodePNG(w)
}

// Image returns the last rendered frame.
func (r *Renderer) Image() image.Image {
	return r.surface.Image()
}

// Run renders a snapshot and saves it to cfg.Snapshot.Out.
func Run(cfg *config.Config, opts Options) error {
	r, err := NewRenderer(cfg, opts)
	if err != nil {
		return err
	}
	stats := r.Render()
	if r.surface.dc == nil {
		return fmt.Errorf("snapshot: empty viewport %dx%d", cfg.Snapshot.Width, cfg.Snapshot.Height)
	}
	if err := r.surface.dc.SavePNG(cfg.Snapshot.Out); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	slog.Info("snapshot written",
		"path", cfg.Snapshot.Out, "frames", cfg.Snapshot.Frames,
		"cells", stats.Cells, "glowing", stats.Glowing)
	return nil
}
