// Package wind generates a time-varying disturbance force and feeds it
// into a rope simulation once per physics tick.
//
// Direction is either a fixed compass bearing or the bearing
// perpendicular to the rope's anchor-to-anchor axis, wandered by ±10° of
// layered noise. Magnitude is the product of two noise octaves at
// different time scales, scaled by the user magnitude.
package wind

import (
	"math"
	"math/rand"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/rope"
)

// Bearing selects how the wind direction is derived.
type Bearing int

const (
	// FixedBearing blows along BearingDeg in the XZ plane.
	FixedBearing Bearing = iota

	// PerpendicularToSpan blows across the rope's anchor axis. Falls
	// back to BearingDeg while the rope has no valid span.
	PerpendicularToSpan
)

const (
	bearingWanderDeg = 10.0

	// Noise clock rates. The gust and swell octaves run at deliberately
	// incommensurate scales so their product never settles into a beat.
	bearingNoiseRate = 0.35
	gustNoiseRate    = 0.9
	swellNoiseRate   = 0.13
)

// Generator holds the user-facing wind tuning plus a per-instance phase
// that desynchronizes multiple ropes sampling the same noise field.
type Generator struct {
	Mode       Bearing
	BearingDeg float64
	Magnitude  float64
	Invert     bool

	phase float64
	t     float64
}

// New seeds a generator. Equal seeds reproduce the same force sequence.
func New(seed int64) *Generator {
	rng := rand.New(rand.NewSource(seed))
	return &Generator{Magnitude: 1, phase: rng.Float64() * 1000}
}

// Step advances the wind clock by one fixed timestep and publishes the
// resulting force into the simulation's external-force input. Call
// exactly once per physics tick; it returns the force it published.
func (g *Generator) Step(sim *rope.Simulation, dt float64) vec3.T {
	g.t += dt
	span, ok := sim.Span()
	f := g.force(span, ok, dt)
	sim.SetExternalForce(f)
	return f
}

func (g *Generator) force(span vec3.T, haveSpan bool, dt float64) vec3.T {
	bearing := g.BearingDeg
	if g.Mode == PerpendicularToSpan && haveSpan {
		bearing = math.Atan2(span[2], span[0])*180/math.Pi + 90
	}
	bearing += bearingWanderDeg * layeredNoise(g.t*bearingNoiseRate, g.phase)

	rad := bearing * math.Pi / 180
	dir := vec3.T{math.Cos(rad), 0, math.Sin(rad)}

	mag := g.Magnitude *
		layeredNoise(g.t*gustNoiseRate, g.phase+41.3) *
		unitNoise(g.t*swellNoiseRate, g.phase+7.9)
	if g.Invert {
		mag = -mag
	}

	return dir.Scaled(mag * dt)
}
