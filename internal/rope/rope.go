// Package rope simulates a physically animated rope between externally
// owned anchors.
//
// One dynamic sag point is driven toward a droop target by a damped
// spring on a fixed physics cadence; a rational quadratic Bézier through
// start, sag point, and end is resampled on the render cadence. The two
// cadences are deliberately separate entry points:
//
//	sim := rope.New(rope.DefaultParameters(), rope.ModeRuntime)
//	sim.SetStartAnchor(a)
//	sim.SetEndAnchor(b)
//	sim.StepPhysics(dt) // fixed step, deterministic
//	sim.Refresh()       // per render frame
//
// Listeners subscribe for a payload-free "points changed" signal and
// re-pull Samples or Evaluate as needed.
package rope

import (
	"errors"
	"log"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/curve"
	"github.com/san-kum/ropesim/internal/spring"
)

// ErrPointsInvalid indicates evaluation was requested while either end
// anchor is missing. Recoverable: output degrades to an empty curve.
var ErrPointsInvalid = errors.New("rope: start and end anchors required")

// Mode selects host semantics at construction time.
type Mode int

const (
	// ModeRuntime defers anchor-driven recomputation to the next tick.
	ModeRuntime Mode = iota

	// ModeEditor recomputes immediately when an anchor handle changes,
	// so hosts that only redraw on edits see the new shape without
	// stepping the simulation.
	ModeEditor
)

// Listener is notified, without payload, whenever the published sample
// set changes. Consumers re-pull the current samples rather than
// receiving them pushed.
type Listener interface {
	PointsChanged()
}

// LineSink receives the sampled polyline whenever it is regenerated. A
// nil positions slice means the curve is empty.
type LineSink interface {
	SetPositions([]vec3.T)
}

// Simulation owns the sag point and orchestrates re-evaluation and
// change notification. Instances are not safe for concurrent use; each
// rope is stepped by a single frame loop.
type Simulation struct {
	mode   Mode
	params Parameters

	start, mid, end *Anchor

	sag   spring.State
	force vec3.T
	valid bool

	samples []vec3.T

	prevParams     Parameters
	prevStart      vec3.T
	prevEnd        vec3.T
	prevMid        vec3.T
	prevMidPresent bool

	listeners []Listener
	sink      LineSink

	logger        *log.Logger
	loggedInvalid bool
}

func New(params Parameters, mode Mode) *Simulation {
	params.Clamp()
	return &Simulation{mode: mode, params: params}
}

// SetLogger installs a logger for the polled-evaluation failure path.
// Without one, failures stay silent and still return the zero vector.
func (s *Simulation) SetLogger(l *log.Logger) { s.logger = l }

func (s *Simulation) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Params returns the live tunables. Hosts mutate them directly; the next
// Refresh picks the change up and fires the change notification.
func (s *Simulation) Params() *Parameters { return &s.params }

func (s *Simulation) SetStartAnchor(a *Anchor) { s.start = a; s.afterAnchorChange() }
func (s *Simulation) SetMidAnchor(a *Anchor)   { s.mid = a; s.afterAnchorChange() }
func (s *Simulation) SetEndAnchor(a *Anchor)   { s.end = a; s.afterAnchorChange() }

func (s *Simulation) afterAnchorChange() {
	if s.mode == ModeEditor {
		s.Refresh()
	}
}

func (s *Simulation) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Simulation) RemoveListener(l Listener) {
	for i, reg := range s.listeners {
		if reg == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *Simulation) SetLineSink(sink LineSink) { s.sink = sink }

// SetExternalForce publishes this tick's additive force contribution,
// typically from a wind generator. The force is consumed by the next
// StepPhysics and never accumulated.
func (s *Simulation) SetExternalForce(f vec3.T) { s.force = f }

func (s *Simulation) present() bool { return s.start != nil && s.end != nil }

// Valid reports whether both end anchors are present and the simulation
// is in its stable state.
func (s *Simulation) Valid() bool { return s.valid }

// SagPoint returns a copy of the dynamic state for inspection.
func (s *Simulation) SagPoint() spring.State { return s.sag }

// Samples returns the currently published sample set. Callers treat the
// slice as read-only; it is rewritten in place on the next Refresh.
func (s *Simulation) Samples() []vec3.T { return s.samples }

// Span returns the end-minus-start vector when both anchors are present.
func (s *Simulation) Span() (vec3.T, bool) {
	if !s.present() {
		return vec3.T{}, false
	}
	return vec3.Sub(&s.end.Position, &s.start.Position), true
}

// StepPhysics advances the sag point one fixed timestep. It retargets the
// spring from the current anchor positions, applies the pending external
// force, and consumes it. Does nothing while anchors are missing.
func (s *Simulation) StepPhysics(dt float64) {
	s.params.Clamp()
	if !s.present() {
		return
	}
	if !s.valid {
		s.becomeStable()
	}

	s.sag.Target = SagTarget(s.start.Position, s.end.Position, s.params)
	s.sag.Step(dt, s.params.Stiffness, s.params.Damping, s.force)
	s.force = vec3.T{}
}

// Refresh runs the variable-step render cadence: state transitions,
// sample regeneration, line sink update, and change notification.
//
// The notification fires only when an anchor moved (exact comparison) or
// a tunable changed (approximate comparison) since the previous frame;
// sag-point motion alone regenerates samples without notifying.
func (s *Simulation) Refresh() {
	s.params.Clamp()
	present := s.present()

	switch {
	case present && !s.valid:
		s.becomeStable()
		return
	case !present && s.valid:
		s.becomeInvalid()
		return
	case !present:
		return
	}

	changed := s.dirty()
	s.resample()
	s.pushLine()
	if changed {
		s.snapshot()
		s.notify()
	}
}

// Evaluate returns the point at parameter t on the current rope shape.
// With missing anchors it logs once and returns the zero vector instead
// of failing, since dependents may poll it every frame.
func (s *Simulation) Evaluate(t float64) vec3.T {
	if !s.present() {
		if !s.loggedInvalid {
			s.logf("%v, returning zero vector", ErrPointsInvalid)
			s.loggedInvalid = true
		}
		return vec3.T{}
	}
	return curve.Eval(s.start.Position, s.controlPoint(), s.end.Position,
		1, s.params.MidpointWeight, 1, t)
}

// Teardown releases sinks and listeners and clears all derived state.
func (s *Simulation) Teardown() {
	if s.sink != nil {
		s.sink.SetPositions(nil)
		s.sink = nil
	}
	s.listeners = nil
	s.samples = nil
	s.start, s.mid, s.end = nil, nil, nil
	s.valid = false
}

// controlPoint is the middle Bézier control point: a present mid anchor
// pins the rope through it, otherwise the simulated sag point is used.
func (s *Simulation) controlPoint() vec3.T {
	if s.mid != nil {
		return s.mid.Position
	}
	return s.sag.Current
}

func (s *Simulation) becomeStable() {
	s.valid = true
	s.loggedInvalid = false
	s.sag.Reset(SagTarget(s.start.Position, s.end.Position, s.params))
	s.resample()
	s.pushLine()
	s.snapshot()
	s.notify()
}

func (s *Simulation) becomeInvalid() {
	s.valid = false
	s.samples = s.samples[:0]
	if s.sink != nil {
		s.sink.SetPositions(nil)
	}
	s.notify()
}

func (s *Simulation) dirty() bool {
	if s.start.Position != s.prevStart || s.end.Position != s.prevEnd {
		return true
	}
	midPresent := s.mid != nil
	if midPresent != s.prevMidPresent {
		return true
	}
	if midPresent && s.mid.Position != s.prevMid {
		return true
	}
	return !s.params.Equal(s.prevParams)
}

func (s *Simulation) snapshot() {
	s.prevParams = s.params
	s.prevStart = s.start.Position
	s.prevEnd = s.end.Position
	s.prevMidPresent = s.mid != nil
	if s.prevMidPresent {
		s.prevMid = s.mid.Position
	}
}

func (s *Simulation) resample() {
	s.samples = curve.Sample(s.start.Position, s.controlPoint(), s.end.Position,
		1, s.params.MidpointWeight, 1, s.params.SampleCount, s.samples[:0])
}

func (s *Simulation) pushLine() {
	if s.sink != nil {
		s.sink.SetPositions(s.samples)
	}
}

func (s *Simulation) notify() {
	for _, l := range s.listeners {
		l.PointsChanged()
	}
}
