package pixelgrid

import (
	"math"
	"math/rand"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.5},
		{0.25, 0.15625},
		{0.75, 0.84375},
	}
	for _, tt := range tests {
		if got := Smoothstep(tt.in); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Smoothstep(%v) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestDriftOnlyForIdleCells(t *testing.T) {
	g := NewWithT(t)

	still := Cell{BaseX: 24, BaseY: 36, FloatPhase: 1.3}
	moving := Cell{BaseX: 24, BaseY: 36, FloatPhase: 1.3, IdleEligible: true}

	var moved bool
	for ms := 0; ms < 10000; ms += 137 {
		now := time.Duration(ms) * time.Millisecond

		dx, dy := Drift(&still, now, 1.2)
		g.Expect(dx).To(BeZero())
		g.Expect(dy).To(BeZero())

		dx, dy = Drift(&moving, now, 1.2)
		g.Expect(math.Abs(dx)).To(BeNumerically("<=", 1.2))
		g.Expect(math.Abs(dy)).To(BeNumerically("<=", 1.2))
		if dx != 0 || dy != 0 {
			moved = true
		}
	}
	g.Expect(moved).To(BeTrue())

	g.Expect(moving.BaseX).To(Equal(24.0))
	g.Expect(moving.BaseY).To(Equal(36.0))
}

func TestDriftPeriods(t *testing.T) {
	c := Cell{IdleEligible: true}
	dx, dy := Drift(&c, 0, 2)
	if dx != 2 || dy != 0 {
		t.Fatalf("Drift at t=0 = (%v, %v), want (2, 0)", dx, dy)
	}

	// quarter of the y period: sin(pi/2)
	_, dy = Drift(&c, time.Duration(math.Round(math.Pi/2*1000*float64(time.Millisecond))), 2)
	if math.Abs(dy-2) > 1e-6 {
		t.Errorf("dy at quarter period = %v, want 2", dy)
	}
}

func TestIgniteAtAnchor(t *testing.T) {
	g := NewWithT(t)
	p := testParams()
	grid := BuildGrid(240, 240, p, rand.New(rand.NewSource(7)))

	var lit, dark int
	for i := range grid {
		c := grid[i]
		points := []Point{{X: c.BaseX, Y: c.BaseY}}

		g.Expect(MinDistance(c.BaseX, c.BaseY, points)).To(BeZero())
		g.Expect(Proximity(&c, points, p.Radius())).To(Equal(1.0))

		admitted := Ignite(&c, points, p)
		g.Expect(admitted).To(Equal(c.Stamp < 0.28), "cell at (%v, %v) stamp %v", c.BaseX, c.BaseY, c.Stamp)
		if admitted {
			lit++
			g.Expect(c.Alpha).To(BeNumerically("~", 0.7, 1e-12))
		} else {
			dark++
			g.Expect(c.Alpha).To(BeZero())
		}
	}
	g.Expect(lit).To(BeNumerically(">", 0))
	g.Expect(dark).To(BeNumerically(">", 0))
}

func TestIgniteOutsideRadius(t *testing.T) {
	g := NewWithT(t)
	p := testParams()
	grid := BuildGrid(240, 240, p, rand.New(rand.NewSource(7)))
	pointer := []Point{{X: 120, Y: 120}}

	var outside int
	for i := range grid {
		c := &grid[i]
		d := math.Hypot(c.BaseX-120, c.BaseY-120)
		admitted := Ignite(c, pointer, p)
		if d >= p.Radius() {
			outside++
			g.Expect(admitted).To(BeFalse())
			g.Expect(c.Alpha).To(BeZero())
			continue
		}
		eased := Smoothstep(1 - d/p.Radius())
		g.Expect(admitted).To(Equal(c.Stamp < p.Density*eased))
		if admitted {
			g.Expect(c.Alpha).To(BeNumerically("~", eased*p.MaxAlpha, 1e-12))
		}
	}
	g.Expect(outside).To(BeNumerically(">", 0))
}

func TestIgniteNeverLowers(t *testing.T) {
	p := testParams()
	p.Density = 1.01
	c := Cell{BaseX: 0, BaseY: 0, Alpha: 0.69}

	// far side of the radius gives a small eased t
	Ignite(&c, []Point{{X: 20, Y: 0}}, p)
	if c.Alpha != 0.69 {
		t.Fatalf("alpha lowered to %v", c.Alpha)
	}
}

func TestIgniteNearestPointerWins(t *testing.T) {
	p := testParams()
	p.Density = 1.01
	c := Cell{BaseX: 100, BaseY: 100}

	Ignite(&c, []Point{{X: 500, Y: 500}, {X: 100, Y: 100}, {X: 0, Y: 0}}, p)
	if math.Abs(c.Alpha-p.MaxAlpha) > 1e-12 {
		t.Fatalf("alpha = %v, want %v", c.Alpha, p.MaxAlpha)
	}
}

func TestDecayToOff(t *testing.T) {
	g := NewWithT(t)
	p := testParams()
	c := Cell{Alpha: p.MaxAlpha}

	frames := int(math.Ceil(p.MaxAlpha/p.FadeSpeed)) + 1
	prev := c.Alpha
	for i := 0; i < frames; i++ {
		Decay(&c, p.FadeSpeed)
		g.Expect(c.Alpha).To(BeNumerically("<=", prev))
		prev = c.Alpha
	}
	g.Expect(c.Alpha).To(BeNumerically("<=", 0))

	// off cells stay put
	Decay(&c, p.FadeSpeed)
	g.Expect(c.Alpha).To(Equal(prev))
}

func TestMinDistanceNoPointers(t *testing.T) {
	if d := MinDistance(1, 2, nil); !math.IsInf(d, 1) {
		t.Fatalf("MinDistance with no pointers = %v, want +Inf", d)
	}
	c := Cell{}
	if got := Proximity(&c, nil, 24); got != 0 {
		t.Fatalf("Proximity with no pointers = %v", got)
	}
}
