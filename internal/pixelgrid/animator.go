package pixelgrid

import (
	"math"
	"math/rand"
	"time"
)

// FrameStats summarises one frame.
type FrameStats struct {
	Now     time.Duration
	Cells   int
	Glowing int
	Ignited int // cells that went from off to lit this frame
}

// Option configures an Animator.
type Option func(*Animator)

// WithRand sets the random source used for colours and float phases.
func WithRand(rng *rand.Rand) Option {
	return func(a *Animator) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithFrameHook registers fn to run after every frame.
func WithFrameHook(fn func(FrameStats)) Option {
	return func(a *Animator) {
		a.onFrame = fn
	}
}

// Animator runs the grid effect against a Surface. It is driven by a
// FrameClock and fed by an EventBus; all methods must be called from the
// host's loop goroutine.
type Animator struct {
	params  Params
	surface Surface
	rng     *rand.Rand
	onFrame func(FrameStats)

	grid          Grid
	pointers      PointerTracker
	width, height int
	dpr           float64

	clock       FrameClock
	pending     FrameID
	unsubscribe func()
	running     bool
}

// NewAnimator returns an animator drawing to s. A nil surface is allowed
// and keeps the grid empty.
func NewAnimator(p Params, s Surface, opts ...Option) *Animator {
	a := &Animator{
		params:  p,
		surface: s,
		rng:     rand.New(rand.NewSource(1)),
		dpr:     1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start subscribes to bus and requests the first frame on clock. Calling
// Start on a running animator does nothing.
func (a *Animator) Start(bus *EventBus, clock FrameClock) {
	if a.running {
		return
	}
	a.running = true
	a.clock = clock
	if bus != nil {
		a.unsubscribe = bus.Subscribe(a.Handle)
	}
	a.pending = clock.Request(a.tick)
	Logger().Info("pixelgrid: animator started", "cells", len(a.grid))
}

// Stop removes the event listener and cancels the pending frame. A frame
// callback already handed out by the clock becomes a no-op. Stop is
// idempotent.
func (a *Animator) Stop() {
	if !a.running {
		return
	}
	a.running = false
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.clock != nil {
		a.clock.Cancel(a.pending)
	}
	a.pending = 0
	Logger().Info("pixelgrid: animator stopped")
}

// Running reports whether the frame loop is active.
func (a *Animator) Running() bool {
	return a.running
}

func (a *Animator) tick(now time.Duration) {
	if !a.running {
		return
	}
	a.pending = 0
	a.Frame(now)
	if a.running {
		a.pending = a.clock.Request(a.tick)
	}
}

// Handle applies a host event. It is the listener Start registers.
func (a *Animator) Handle(ev Event) {
	before := len(a.pointers.Points())
	defer func() {
		if n := len(a.pointers.Points()); n != before {
			Logger().Debug("pixelgrid: pointers changed", "pointers", n)
		}
	}()

	switch e := ev.(type) {
	case PointerMove:
		a.pointers.Move(e.X, e.Y)
	case PointerLeave:
		a.pointers.Leave()
	case Touches:
		a.pointers.SetTouches(e.Points)
	case Resize:
		a.Resize(e.Width, e.Height, e.DPR)
	}
}

// Resize resizes the surface and rebuilds the grid from scratch. Glow
// state is not carried over.
func (a *Animator) Resize(width, height int, dpr float64) {
	a.width, a.height = width, height
	a.dpr = math.Max(1, dpr)

	if a.surface == nil {
		a.grid = nil
		return
	}
	a.surface.Resize(max(width, 0), max(height, 0), a.dpr)
	a.grid = BuildGrid(width, height, a.params, a.rng)
	Logger().Debug("pixelgrid: grid rebuilt",
		"width", width, "height", height, "dpr", a.dpr, "cells", len(a.grid))
}

// Frame advances and draws one frame at time now.
func (a *Animator) Frame(now time.Duration) FrameStats {
	stats := FrameStats{Now: now, Cells: len(a.grid)}
	if a.surface == nil {
		return stats
	}

	a.surface.Clear()
	points := a.pointers.Points()
	for i := range a.grid {
		c := &a.grid[i]
		dx, dy := Drift(c, now, a.params.IdleAmplitude)
		x, y := c.BaseX+dx, c.BaseY+dy

		DrawBase(a.surface, x, y, a.params.CellSize)

		wasLit := c.Alpha > GlowThreshold
		if len(points) > 0 {
			Ignite(c, points, a.params)
		}
		if c.Alpha > GlowThreshold {
			stats.Glowing++
			if !wasLit {
				stats.Ignited++
			}
		}

		DrawGlow(a.surface, c, x, y, a.params)
		Decay(c, a.params.FadeSpeed)
	}

	if a.onFrame != nil {
		a.onFrame(stats)
	}
	return stats
}

// Grid returns the live grid. Callers may inspect but should not keep it
// across a resize.
func (a *Animator) Grid() Grid {
	return a.grid
}

// Pointers returns the current pointer set.
func (a *Animator) Pointers() []Point {
	return a.pointers.Points()
}

// Size returns the viewport size and device pixel ratio last applied.
func (a *Animator) Size() (width, height int, dpr float64) {
	return a.width, a.height, a.dpr
}
