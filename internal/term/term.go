// Package term runs the backdrop in a terminal using tcell. Mouse motion
// drives the pointer, losing focus clears it, and window resizes rebuild
// the grid.
package term

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/pixel-backdrop/internal/config"
	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

type Options struct {
	Seed int64
}

// Host owns the terminal screen and the single loop goroutine that
// dispatches events and frames.
type Host struct {
	screen  tcell.Screen
	surface *Surface
	anim    *pixelgrid.Animator
	bus     *pixelgrid.EventBus
	clock   *pixelgrid.StepClock
	unit    float64
	fps     int
}

// NewHost wires an animator to screen. The screen must already be
// initialised.
func NewHost(screen tcell.Screen, cfg *config.Config, opts Options) (*Host, error) {
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

	h := &Host{
		screen:  screen,
		surface: NewSurface(params.CellSize, bg),
		bus:     &pixelgrid.EventBus{},
		clock:   &pixelgrid.StepClock{},
		unit:    float64(params.CellSize),
		fps:     cfg.Terminal.FPS,
	}
	h.anim = pixelgrid.NewAnimator(params, h.surface,
		pixelgrid.WithRand(rand.New(rand.NewSource(opts.Seed))))
	return h, nil
}

// viewport returns the pixel viewport matching the current screen.
func (h *Host) viewport() pixelgrid.Resize {
	cols, rows := h.screen.Size()
	return pixelgrid.Resize{
		Width:  int(float64(cols) * h.unit),
		Height: int(float64(rows*2) * h.unit),
		DPR:    1,
	}
}

// translate maps a tcell event to an animator event.
func (h *Host) translate(ev tcell.Event) (pixelgrid.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		cx, cy := ev.Position()
		// centre of the character, which spans two pixel rows
		return pixelgrid.PointerMove{
			X: (float64(cx) + 0.5) * h.unit,
			Y: float64(cy*2+1) * h.unit,
		}, true
	case *tcell.EventFocus:
		if !ev.Focused {
			return pixelgrid.PointerLeave{}, true
		}
	case *tcell.EventResize:
		return h.viewport(), true
	}
	return nil, false
}

func isQuit(ev tcell.Event) bool {
	k, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return k.Key() == tcell.KeyEscape || k.Key() == tcell.KeyCtrlC ||
		(k.Key() == tcell.KeyRune && (k.Rune() == 'q' || k.Rune() == 'Q'))
}

// Loop runs until ctx is done or the user quits.
func (h *Host) Loop(ctx context.Context) error {
	h.anim.Start(h.bus, h.clock)
	defer h.anim.Stop()
	h.bus.Publish(h.viewport())

	fps := max(h.fps, 1)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if isQuit(ev) {
				return nil
			}
			if pe, ok := h.translate(ev); ok {
				h.bus.Publish(pe)
			}

		case <-ticker.C:
			h.frame(time.Since(start))
		}
	}
}

func (h *Host) frame(now time.Duration) {
	if !h.clock.Tick(now) {
		return
	}
	h.surface.Flush(h.screen)
	h.screen.Show()
}

// Run takes over the terminal until the user quits.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	h, err := NewHost(screen, cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("terminal starting", "fps", cfg.Terminal.FPS)
	return h.Loop(ctx)
}
