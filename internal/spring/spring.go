// Package spring advances a single 3D point toward a moving target with a
// damped-spring update on a fixed timestep.
package spring

import (
	"github.com/ungerik/go3d/float64/vec3"
)

// SnapEpsilon is the distance and speed (world units, units/sec) below
// which the point locks onto its target, preventing perpetual
// micro-oscillation around the rest pose.
const SnapEpsilon = 0.01

// State is the dynamic state of the tracked point.
type State struct {
	Current  vec3.T
	Velocity vec3.T
	Target   vec3.T
}

// Reset places the point on the target with zero velocity.
func (s *State) Reset(target vec3.T) {
	s.Current = target
	s.Target = target
	s.Velocity = vec3.T{}
}

// Step advances the state by one fixed timestep dt.
//
// The stiffness term scales positional error by stiffness*dt directly
// rather than dt² as a force/mass model would. Stiffness presets were
// tuned against this exact form; keep it.
//
// force is an additive per-step displacement. It is consumed here, never
// accumulated; callers republish it every step.
func (s *State) Step(dt, stiffness, damping float64, force vec3.T) {
	decay := 1 - damping*dt
	if decay < 0 {
		decay = 0
	}
	s.Velocity.Scale(decay)

	pull := vec3.Sub(&s.Target, &s.Current)
	pull.Scale(stiffness * dt)
	s.Velocity.Add(&pull)
	s.Velocity.Add(&force)

	delta := s.Velocity.Scaled(dt)
	s.Current.Add(&delta)

	rest := vec3.Sub(&s.Current, &s.Target)
	if rest.Length() < SnapEpsilon && s.Velocity.Length() < SnapEpsilon {
		s.Current = s.Target
		s.Velocity = vec3.T{}
	}
}

// Settled reports whether the point has locked onto its target.
func (s *State) Settled() bool {
	return s.Current == s.Target && s.Velocity == (vec3.T{})
}
