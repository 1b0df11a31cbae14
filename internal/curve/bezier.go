// Package curve evaluates rational quadratic Bézier curves.
//
// A rational quadratic Bézier interpolates three control points with
// per-point weights biasing the curve toward each point:
//
//	B(t) = (w0(1-t)²p0 + 2w1(1-t)t p1 + w2t²p2) / (w0(1-t)² + 2w1(1-t)t + w2t²)
//
// The rope uses the same evaluation for sag placement and for every
// sampled point along the curve.
package curve

import (
	"github.com/ungerik/go3d/float64/vec3"
)

// homoPoint is a control point in homogeneous coordinates: the weighted
// point (w*p) carried together with its weight.
type homoPoint struct {
	vec vec3.T
	w   float64
}

func homogenized(p vec3.T, w float64) homoPoint {
	return homoPoint{p.Scaled(w), w}
}

func (h *homoPoint) add(o homoPoint) {
	h.vec.Add(&o.vec)
	h.w += o.w
}

func (h *homoPoint) scale(s float64) {
	h.vec.Scale(s)
	h.w *= s
}

func (h *homoPoint) dehomogenized() vec3.T {
	return h.vec.Scaled(1 / h.w)
}

// Eval returns the point at parameter t on the rational quadratic Bézier
// through p0, p1, p2 with weights w0, w1, w2.
//
// The caller guarantees the weights are not all zero; the parameter model
// clamps them to positive ranges before they reach evaluation. Parameters
// at the boundary return the endpoints exactly.
func Eval(p0, p1, p2 vec3.T, w0, w1, w2, t float64) vec3.T {
	if t <= 0 {
		return p0
	}
	if t >= 1 {
		return p2
	}

	s := 1 - t
	acc := homogenized(p0, w0)
	acc.scale(s * s)

	mid := homogenized(p1, w1)
	mid.scale(2 * s * t)
	acc.add(mid)

	end := homogenized(p2, w2)
	end.scale(t * t)
	acc.add(end)

	return acc.dehomogenized()
}

// Sample appends n evenly spaced curve points over [0,1] to dst and
// returns the extended slice. n must be at least 2 so both endpoints are
// emitted.
func Sample(p0, p1, p2 vec3.T, w0, w1, w2 float64, n int, dst []vec3.T) []vec3.T {
	if n < 2 {
		n = 2
	}
	step := 1.0 / float64(n-1)
	for i := 0; i < n; i++ {
		dst = append(dst, Eval(p0, p1, p2, w0, w1, w2, float64(i)*step))
	}
	return dst
}
