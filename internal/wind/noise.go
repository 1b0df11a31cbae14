package wind

import "math"

// layeredNoise sums three sine octaves at irrational frequency ratios so
// the signal never visibly repeats. phase desynchronizes instances that
// sample the same field. Output stays within roughly [-1, 1].
func layeredNoise(t, phase float64) float64 {
	return (math.Sin(t+phase) +
		0.5*math.Sin(2.1619*t+1.7*phase) +
		0.25*math.Sin(5.8031*t+2.3*phase)) / 1.75
}

// unitNoise remaps layered noise into [0, 1].
func unitNoise(t, phase float64) float64 {
	return 0.5 + 0.5*layeredNoise(t, phase)
}
