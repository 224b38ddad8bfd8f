// Package pixelgrid implements the pointer-reactive pixel grid backdrop.
//
// A Grid of square cells covers the viewport. Every frame each cell may
// drift slightly (idle-eligible cells only), light up when a pointer is
// close enough and its stamp passes the density gate, and fade back out by
// a fixed amount. Rendering goes through the Surface interface so the same
// simulation drives an ebiten window, a terminal, or an offscreen raster.
//
// The Animator ties the pieces together: it listens on an EventBus for
// pointer and resize events and re-requests itself on a FrameClock until
// Stop is called. Everything runs on the host's single goroutine.
package pixelgrid
