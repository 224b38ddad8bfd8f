package pixelgrid

// Event is something the host reports to the animator.
type Event interface {
	event()
}

// PointerMove reports the mouse at (X, Y).
type PointerMove struct{ X, Y float64 }

// PointerLeave reports the mouse leaving the viewport.
type PointerLeave struct{}

// Touches reports every current touch contact, empty when none remain.
// Hosts send it on touch start, move, end and cancel.
type Touches struct{ Points []Point }

// Resize reports new viewport dimensions and device pixel ratio.
type Resize struct {
	Width, Height int
	DPR           float64
}

func (PointerMove) event()  {}
func (PointerLeave) event() {}
func (Touches) event()      {}
func (Resize) event()       {}

// Listener receives events. Listeners are passive: they return nothing
// and cannot hold up the host.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// EventBus fans host events out to listeners, synchronously and in
// subscription order. It is not safe for concurrent use; hosts publish from
// their single loop goroutine.
type EventBus struct {
	subs []subscription
	next int
}

// Subscribe registers l and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (b *EventBus) Subscribe(l Listener) (unsubscribe func()) {
	b.next++
	id := b.next
	b.subs = append(b.subs, subscription{id: id, fn: l})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every listener.
func (b *EventBus) Publish(ev Event) {
	for _, s := range b.subs {
		s.fn(ev)
	}
}

// Listeners returns the number of registered listeners.
func (b *EventBus) Listeners() int {
	return len(b.subs)
}
