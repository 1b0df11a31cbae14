package rope

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Empirical slack-amplification constants. The factor interpolates between
// them on a clamped log(weight) scale so the visible droop stays consistent
// as the midpoint weight sharpens the curve. Tuned by eye; do not re-derive.
const (
	slackFactorLow  = 0.493
	slackFactorHigh = 0.323
)

func slackFactor(weight float64) float64 {
	t := math.Log(weight)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return slackFactorLow + (slackFactorHigh-slackFactorLow)*t
}

// SagTarget computes where the sag point is pulled toward: the fractional
// point between the anchors, lowered by the slack left over once the
// straight-line span is subtracted from the rest length. A taut rope
// (span >= rest length) has zero droop.
func SagTarget(start, end vec3.T, p Parameters) vec3.T {
	target := vec3.Interpolate(&start, &end, p.MidpointFraction)

	span := vec3.Sub(&end, &start)
	straight := span.Length()
	if straight > p.RestLength {
		straight = p.RestLength
	}

	target[1] -= (p.RestLength - straight) / slackFactor(p.MidpointWeight)
	return target
}
