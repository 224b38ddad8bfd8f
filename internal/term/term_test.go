package term

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/pixel-backdrop/internal/config"
	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

var black = color.NRGBA{A: 0xff}

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func TestSurfaceBlend(t *testing.T) {
	s := NewSurface(12, black)
	s.Resize(24, 24, 2)

	s.FillRect(pixelgrid.Rect{X: 0, Y: 0, W: 12, H: 12}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 0)
	if got := s.At(0, 0); got.R != 1 || got.G != 1 || got.B != 1 {
		t.Errorf("full cover = %v, want white", got)
	}
	if got := s.At(1, 0); got.R != 0 {
		t.Errorf("untouched pixel = %v, want black", got)
	}

	// half the pixel, half opacity
	s.FillRect(pixelgrid.Rect{X: 12, Y: 12, W: 6, H: 12}, color.NRGBA{R: 255, A: 128}, 0)
	want := 0.5 * 128.0 / 255
	if got := s.At(1, 1); math.Abs(got.R-want) > 1e-9 {
		t.Errorf("partial cover R = %v, want %v", got.R, want)
	}

	s.Clear()
	if got := s.At(0, 0); got.R != 0 {
		t.Errorf("after clear = %v, want background", got)
	}
}

func TestSurfaceEmptyViewport(t *testing.T) {
	s := NewSurface(12, black)
	s.Resize(5, 100, 1)
	s.FillRect(pixelgrid.Rect{X: 0, Y: 0, W: 12, H: 12}, color.NRGBA{R: 255, A: 255}, 14)
	if got := s.At(0, 0); got.R != 0 {
		t.Fatalf("empty surface drew %v", got)
	}
}

func TestSurfaceFlush(t *testing.T) {
	screen := newSimScreen(t, 2, 1)
	s := NewSurface(12, black)
	s.Resize(24, 24, 1)
	s.FillRect(pixelgrid.Rect{X: 0, Y: 0, W: 12, H: 12}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 0)

	s.Flush(screen)
	screen.Show()

	mainc, _, style, _ := screen.GetContent(0, 0)
	if mainc != '▀' {
		t.Fatalf("rune = %q, want upper half block", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("top pixel = %v, want white", fg)
	}
	if bg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("bottom pixel = %v, want black", bg)
	}
}

func TestTranslate(t *testing.T) {
	screen := newSimScreen(t, 40, 10)
	h, err := NewHost(screen, config.DefaultConfig(), Options{Seed: 1})
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}

	ev, ok := h.translate(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone))
	if !ok {
		t.Fatal("mouse event not translated")
	}
	if ev != (pixelgrid.PointerMove{X: 42, Y: 60}) {
		t.Errorf("mouse = %#v", ev)
	}

	ev, ok = h.translate(tcell.NewEventFocus(false))
	if !ok || ev != (pixelgrid.PointerLeave{}) {
		t.Errorf("focus lost = %#v, %v", ev, ok)
	}
	if _, ok := h.translate(tcell.NewEventFocus(true)); ok {
		t.Error("focus gained should be ignored")
	}

	ev, ok = h.translate(tcell.NewEventResize(40, 10))
	if !ok || ev != (pixelgrid.Resize{Width: 480, Height: 240, DPR: 1}) {
		t.Errorf("resize = %#v, %v", ev, ok)
	}

	if !isQuit(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if !isQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
	if isQuit(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("x should not quit")
	}
}

func TestHostFrameLightsCell(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	cfg := config.DefaultConfig()
	h, err := NewHost(screen, cfg, Options{Seed: 1})
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}

	h.anim.Start(h.bus, h.clock)
	defer h.anim.Stop()
	h.bus.Publish(h.viewport())

	grid := h.anim.Grid()
	if len(grid) != 20*20 {
		t.Fatalf("grid has %d cells, want 400", len(grid))
	}

	target := -1
	for i, c := range grid {
		if c.Stamp < cfg.Grid.Density && !c.IdleEligible {
			target = i
			break
		}
	}
	if target < 0 {
		t.Fatal("no cell passes the density gate")
	}
	c := grid[target]
	h.bus.Publish(pixelgrid.PointerMove{X: c.BaseX, Y: c.BaseY})
	h.frame(16 * time.Millisecond)

	if h.anim.Grid().Glowing() == 0 {
		t.Fatal("no cell glowing after pointer on a gated cell")
	}
	px, py := int(c.BaseX/12), int(c.BaseY/12)
	lit := h.surface.At(px, py)
	if math.Max(lit.R, math.Max(lit.G, lit.B)) < 0.4 {
		t.Errorf("glowing pixel too dark: %v", lit)
	}

	h.bus.Publish(pixelgrid.PointerLeave{})
	for i := 0; i < 200; i++ {
		h.frame(time.Duration(i+2) * 16 * time.Millisecond)
	}
	if n := h.anim.Grid().Glowing(); n != 0 {
		t.Errorf("%d cells still glowing after fade", n)
	}
}
