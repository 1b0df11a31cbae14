package wind

import (
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/rope"
)

func newAnchoredSim() *rope.Simulation {
	sim := rope.New(rope.DefaultParameters(), rope.ModeRuntime)
	sim.SetStartAnchor(&rope.Anchor{Position: vec3.T{0, 0, 0}})
	sim.SetEndAnchor(&rope.Anchor{Position: vec3.T{10, 0, 0}})
	sim.Refresh()
	return sim
}

func TestZeroMagnitudeProducesNoForce(t *testing.T) {
	for _, seed := range []int64{1, 42, 9999} {
		g := New(seed)
		g.Magnitude = 0
		sim := newAnchoredSim()

		for i := 0; i < 100; i++ {
			if f := g.Step(sim, 0.02); f != (vec3.T{}) {
				t.Fatalf("seed %d tick %d: expected zero force, got %v", seed, i, f)
			}
		}
	}
}

func TestForceBoundedByMagnitude(t *testing.T) {
	g := New(7)
	g.Magnitude = 2.5
	sim := newAnchoredSim()
	dt := 0.02

	for i := 0; i < 500; i++ {
		f := g.Step(sim, dt)
		if f.Length() > g.Magnitude*dt+1e-12 {
			t.Fatalf("tick %d: force %v exceeds magnitude bound %v", i, f.Length(), g.Magnitude*dt)
		}
	}
}

func TestEqualSeedsReproduce(t *testing.T) {
	a, b := New(123), New(123)
	a.Magnitude, b.Magnitude = 1.5, 1.5
	simA, simB := newAnchoredSim(), newAnchoredSim()

	for i := 0; i < 200; i++ {
		fa := a.Step(simA, 0.02)
		fb := b.Step(simB, 0.02)
		if fa != fb {
			t.Fatalf("tick %d: seeds diverged: %v vs %v", i, fa, fb)
		}
	}
}

func TestForceStaysHorizontal(t *testing.T) {
	g := New(5)
	g.Mode = PerpendicularToSpan
	sim := newAnchoredSim()

	for i := 0; i < 200; i++ {
		if f := g.Step(sim, 0.02); f[1] != 0 {
			t.Fatalf("tick %d: wind has vertical component %v", i, f[1])
		}
	}
}

func TestInvertNegates(t *testing.T) {
	a, b := New(99), New(99)
	a.Magnitude, b.Magnitude = 1, 1
	b.Invert = true
	simA, simB := newAnchoredSim(), newAnchoredSim()

	for i := 0; i < 50; i++ {
		fa := a.Step(simA, 0.02)
		fb := b.Step(simB, 0.02)
		neg := fb.Scaled(-1)
		if fa != neg {
			t.Fatalf("tick %d: invert is not a pure negation: %v vs %v", i, fa, fb)
		}
	}
}
