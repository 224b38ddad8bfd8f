package pixelgrid

import "time"

// FrameID identifies a pending frame request. Zero means none.
type FrameID uint64

// FrameClock schedules a callback for the next display refresh. The
// callback receives a monotonically increasing timestamp.
type FrameClock interface {
	Request(fn func(now time.Duration)) FrameID
	Cancel(id FrameID)
}

// StepClock is a FrameClock advanced explicitly by its owner. Hosts call
// Tick once per refresh; tests call it to single-step frames. It holds at
// most one pending callback; a new Request replaces the old one.
type StepClock struct {
	last    FrameID
	pending FrameID
	fn      func(now time.Duration)
}

func (c *StepClock) Request(fn func(now time.Duration)) FrameID {
	c.last++
	c.pending = c.last
	c.fn = fn
	return c.pending
}

func (c *StepClock) Cancel(id FrameID) {
	if id != 0 && id == c.pending {
		c.pending = 0
		c.fn = nil
	}
}

// Pending reports whether a callback is waiting for the next Tick.
func (c *StepClock) Pending() bool {
	return c.fn != nil
}

// Tick runs the pending callback, if any, and reports whether one ran.
// The callback is cleared before it runs so it may request again.
func (c *StepClock) Tick(now time.Duration) bool {
	fn := c.fn
	if fn == nil {
		return false
	}
	c.fn = nil
	c.pending = 0
	fn(now)
	return true
}
