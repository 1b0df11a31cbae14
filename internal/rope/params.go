package rope

import "math"

const (
	DefaultSampleCount      = 24
	DefaultStiffness        = 14.0
	DefaultDamping          = 5.0
	DefaultRestLength       = 12.0
	DefaultRenderWidth      = 0.15
	DefaultMidpointWeight   = 1.0
	DefaultMidpointFraction = 0.5

	minStiffness   = 1e-3
	minRestLength  = 1e-3
	minRenderWidth = 1e-3

	// approxTolerance is the absolute tolerance used when comparing
	// floating tunables between frames. Anchor positions compare exactly.
	approxTolerance = 1e-6
)

// Parameters are the designer-tunable rope controls. A host may mutate
// them at any time; Refresh detects changes by comparing against the
// previous frame's snapshot.
//
// MidpointFraction between 0.25 and 0.75 reads best but is not enforced.
type Parameters struct {
	SampleCount      int
	Stiffness        float64
	Damping          float64
	RestLength       float64
	RenderWidth      float64
	MidpointWeight   float64
	MidpointFraction float64
}

func DefaultParameters() Parameters {
	return Parameters{
		SampleCount:      DefaultSampleCount,
		Stiffness:        DefaultStiffness,
		Damping:          DefaultDamping,
		RestLength:       DefaultRestLength,
		RenderWidth:      DefaultRenderWidth,
		MidpointWeight:   DefaultMidpointWeight,
		MidpointFraction: DefaultMidpointFraction,
	}
}

// Clamp forces every field into its valid range. Curve evaluation can
// therefore never see a zero total weight or a degenerate sample count.
func (p *Parameters) Clamp() {
	if p.SampleCount < 2 {
		p.SampleCount = 2
	}
	if p.Stiffness <= 0 {
		p.Stiffness = minStiffness
	}
	if p.Damping < 0 {
		p.Damping = 0
	}
	if p.RestLength <= 0 {
		p.RestLength = minRestLength
	}
	if p.RenderWidth <= 0 {
		p.RenderWidth = minRenderWidth
	}
	if p.MidpointWeight < 1 {
		p.MidpointWeight = 1
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= approxTolerance
}

// Equal reports whether two snapshots match: integer fields exactly,
// floating tunables within approxTolerance.
func (p Parameters) Equal(o Parameters) bool {
	return p.SampleCount == o.SampleCount &&
		approxEqual(p.Stiffness, o.Stiffness) &&
		approxEqual(p.Damping, o.Damping) &&
		approxEqual(p.RestLength, o.RestLength) &&
		approxEqual(p.RenderWidth, o.RenderWidth) &&
		approxEqual(p.MidpointWeight, o.MidpointWeight) &&
		approxEqual(p.MidpointFraction, o.MidpointFraction)
}
