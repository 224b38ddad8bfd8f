package game

import (
	"errors"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/pixel-backdrop/internal/config"
	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

// Options are the run-time switches not stored in the config file.
type Options struct {
	Seed  int64
	Chime bool
}

type game struct {
	cfg        *config.Config
	background color.NRGBA

	anim    *pixelgrid.Animator
	bus     *pixelgrid.EventBus
	clock   *pixelgrid.StepClock
	surface *Surface
	chime   *Chime

	// viewport, device-independent pixels
	width, height int
	dpr           float64
	sized         bool

	now time.Duration

	// input state from the previous tick
	cursor       pixelgrid.Point
	cursorInside bool
	touchIDs     []ebiten.TouchID
	touches      []pixelgrid.Point
}

func newGame(cfg *config.Config, opts Options) (*game, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	var bg color.NRGBA
	if cfg.Window.Background != "" && !cfg.Window.Transparent {
		if bg, err = config.ParseColor(cfg.Window.Background); err != nil {
			return nil, err
		}
	}

	g := &game{
		cfg:        cfg,
		background: bg,
		bus:        &pixelgrid.EventBus{},
		clock:      &pixelgrid.StepClock{},
		surface:    NewSurface(),
		dpr:        1,
	}

	if opts.Chime || cfg.Chime.Enabled {
		chime, err := NewChime(cfg.Chime)
		if err != nil {
			// Non-fatal, the backdrop runs without sound
			slog.Warn("chime disabled", "error", err)
		} else {
			g.chime = chime
		}
	}

	g.anim = pixelgrid.NewAnimator(params, g.surface,
		pixelgrid.WithRand(rand.New(rand.NewSource(opts.Seed))),
		pixelgrid.WithFrameHook(func(s pixelgrid.FrameStats) {
			g.chime.Ring(s.Ignited)
		}),
	)
	g.anim.Start(g.bus, g.clock)
	return g, nil
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.close()
		return ebiten.Termination
	}

	if g.sized {
		g.sized = false
		g.bus.Publish(pixelgrid.Resize{Width: g.width, Height: g.height, DPR: g.dpr})
	}

	g.pollCursor()
	g.pollTouches()

	g.now += time.Second / time.Duration(ebiten.TPS())
	g.clock.Tick(g.now)
	return nil
}

// pollCursor turns cursor polling into move and leave events.
func (g *game) pollCursor() {
	x, y := ebiten.CursorPosition()
	p := toViewport(x, y, g.dpr)
	in := cursorInside(p, g.width, g.height, ebiten.IsFocused(), g.cfg.Window.Passthrough)

	switch {
	case in && (!g.cursorInside || p != g.cursor):
		g.bus.Publish(pixelgrid.PointerMove{X: p.X, Y: p.Y})
	case !in && g.cursorInside:
		g.bus.Publish(pixelgrid.PointerLeave{})
	}
	g.cursor, g.cursorInside = p, in
}

// pollTouches reports the full contact set whenever it changes, including
// the final empty set once every finger lifts.
func (g *game) pollTouches() {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	points := make([]pixelgrid.Point, 0, len(g.touchIDs))
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		points = append(points, toViewport(x, y, g.dpr))
	}
	if samePoints(points, g.touches) {
		return
	}
	g.touches = points
	g.bus.Publish(pixelgrid.Touches{Points: points})
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.background.A > 0 {
		screen.Fill(g.background)
	}
	if img := g.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
}

// Layout reports a screen of viewport x dpr so drawing happens at device
// resolution. A change in size or scale is published on the next Update.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := deviceScale()
	if outsideWidth != g.width || outsideHeight != g.height || dpr != g.dpr {
		g.width, g.height, g.dpr = outsideWidth, outsideHeight, dpr
		g.sized = true
	}
	return backingSize(max(g.width, 1), max(g.height, 1), g.dpr)
}

func (g *game) close() {
	g.anim.Stop()
	g.chime.Close()
}

// Run opens the backdrop window and blocks until it is closed.
func Run(cfg *config.Config, opts Options) error {
	g, err := newGame(cfg, opts)
	if err != nil {
		return err
	}
	defer g.close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowMousePassthrough(cfg.Window.Passthrough)

	slog.Info("window starting",
		"width", cfg.Window.Width, "height", cfg.Window.Height,
		"passthrough", cfg.Window.Passthrough, "chime", g.chime != nil)

	err = ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: cfg.Window.Transparent,
	})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	slog.Info("window closed")
	return nil
}
