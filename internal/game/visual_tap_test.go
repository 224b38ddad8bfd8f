package game

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/pixel-backdrop/internal/pixelgrid"
)

func TestChimeTapSilentUntilRung(t *testing.T) {
	tap := newChimeTap(beep.SampleRate(44100), 880, 50*time.Millisecond, 4)
	buf := make([][2]float64, 512)

	n, ok := tap.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream = (%d, %v), want (%d, true)", n, ok, len(buf))
	}
	for i, s := range buf {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("sample %d = %v, want silence", i, s)
		}
	}
}

func TestChimeTapRingAndFade(t *testing.T) {
	sr := beep.SampleRate(44100)
	tap := newChimeTap(sr, 880, 50*time.Millisecond, 4)

	tap.ring(10)
	if got := tap.active(); got != 4 {
		t.Fatalf("active voices = %d, want capped at 4", got)
	}

	buf := make([][2]float64, 256)
	tap.Stream(buf)
	var peak float64
	for _, s := range buf {
		if s[0] != s[1] {
			t.Fatal("chime should be mono")
		}
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak == 0 {
		t.Fatal("rung chime produced silence")
	}

	// play past the voice length
	long := make([][2]float64, sr.N(60*time.Millisecond))
	tap.Stream(long)
	if got := tap.active(); got != 0 {
		t.Fatalf("active voices after fade = %d, want 0", got)
	}
	if tap.Err() != nil {
		t.Fatal("chime tap reported an error")
	}
}

func TestBackingSize(t *testing.T) {
	tests := []struct {
		w, h  int
		dpr   float64
		wantW int
		wantH int
	}{
		{800, 600, 1, 800, 600},
		{800, 600, 2, 1600, 1200},
		{333, 201, 1.5, 499, 301},
		{0, 600, 2, 0, 0},
	}
	for _, tt := range tests {
		w, h := backingSize(tt.w, tt.h, tt.dpr)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("backingSize(%d, %d, %v) = (%d, %d), want (%d, %d)", tt.w, tt.h, tt.dpr, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestViewportHelpers(t *testing.T) {
	p := toViewport(300, 150, 2)
	if p != (pixelgrid.Point{X: 150, Y: 75}) {
		t.Fatalf("toViewport = %v", p)
	}
	if !inside(p, 200, 100) || inside(p, 150, 100) {
		t.Fatal("inside bounds check wrong")
	}

	a := []pixelgrid.Point{{X: 1, Y: 2}}
	if !samePoints(a, []pixelgrid.Point{{X: 1, Y: 2}}) || samePoints(a, nil) || !samePoints(nil, []pixelgrid.Point{}) {
		t.Fatal("samePoints mismatch")
	}
}

func TestCursorInside(t *testing.T) {
	in := pixelgrid.Point{X: 50, Y: 40}
	out := pixelgrid.Point{X: 150, Y: 40}

	tests := []struct {
		name        string
		p           pixelgrid.Point
		focused     bool
		passthrough bool
		want        bool
	}{
		{"focused inside", in, true, false, true},
		{"unfocused inside", in, false, false, false},
		{"passthrough unfocused inside", in, false, true, true},
		{"passthrough focused inside", in, true, true, true},
		{"passthrough outside", out, false, true, false},
		{"focused outside", out, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cursorInside(tt.p, 100, 80, tt.focused, tt.passthrough); got != tt.want {
				t.Errorf("cursorInside = %v, want %v", got, tt.want)
			}
		})
	}
}
