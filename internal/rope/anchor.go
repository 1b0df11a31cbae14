package rope

import "github.com/ungerik/go3d/float64/vec3"

// Anchor is an externally owned position handle bounding the rope. The
// simulation never owns anchors; it polls Position by value each tick, so
// hosts move the rope simply by mutating the handle they passed in.
type Anchor struct {
	Position vec3.T

	// Rotation is carried for hosts that orient attachment fixtures at
	// the rope ends; the simulation itself never reads it.
	Rotation vec3.T
}
