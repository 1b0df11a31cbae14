package config

import "sort"

// Presets are named rope setups for quick experiments. Fields left zero
// inherit defaults through Clamp.
var Presets = map[string]*Config{
	"slack": {
		Rope: RopeConfig{
			SampleCount: 32, Stiffness: 10, Damping: 4,
			RestLength: 18, RenderWidth: 0.15, MidpointWeight: 1, MidpointFraction: 0.5,
		},
		Anchors: AnchorConfig{Start: [3]float64{-5, 3, 0}, End: [3]float64{5, 3, 0}},
		Tube:    TubeConfig{Radius: 0.15, Segments: 8, TilesPerUnit: 1},
		Sim:     SimConfig{Dt: 0.02, Duration: 15},
	},
	"taut": {
		Rope: RopeConfig{
			SampleCount: 16, Stiffness: 30, Damping: 8,
			RestLength: 10.2, RenderWidth: 0.1, MidpointWeight: 1, MidpointFraction: 0.5,
		},
		Anchors: AnchorConfig{Start: [3]float64{-5, 3, 0}, End: [3]float64{5, 3, 0}},
		Tube:    TubeConfig{Radius: 0.1, Segments: 6, TilesPerUnit: 2},
		Sim:     SimConfig{Dt: 0.02, Duration: 10},
	},
	"heavy": {
		Rope: RopeConfig{
			SampleCount: 32, Stiffness: 6, Damping: 3,
			RestLength: 16, RenderWidth: 0.3, MidpointWeight: 4, MidpointFraction: 0.5,
		},
		Anchors: AnchorConfig{Start: [3]float64{-5, 4, 0}, End: [3]float64{5, 4, 0}},
		Tube:    TubeConfig{Radius: 0.3, Segments: 12, TilesPerUnit: 0.5},
		Sim:     SimConfig{Dt: 0.02, Duration: 20},
	},
	"breeze": {
		Rope: RopeConfig{
			SampleCount: 32, Stiffness: 10, Damping: 4,
			RestLength: 16, RenderWidth: 0.15, MidpointWeight: 1, MidpointFraction: 0.5,
		},
		Anchors: AnchorConfig{Start: [3]float64{-5, 3, 0}, End: [3]float64{5, 3, 0}},
		Wind:    WindConfig{Mode: "perpendicular", Magnitude: 0.6},
		Tube:    TubeConfig{Radius: 0.15, Segments: 8, TilesPerUnit: 1},
		Sim:     SimConfig{Dt: 0.02, Duration: 30},
	},
	"storm": {
		Rope: RopeConfig{
			SampleCount: 48, Stiffness: 8, Damping: 2,
			RestLength: 20, RenderWidth: 0.15, MidpointWeight: 2, MidpointFraction: 0.4,
		},
		Anchors: AnchorConfig{Start: [3]float64{-6, 5, 0}, End: [3]float64{6, 5, 0}},
		Wind:    WindConfig{Mode: "fixed", BearingDeg: 45, Magnitude: 3},
		Tube:    TubeConfig{Radius: 0.15, Segments: 8, TilesPerUnit: 1},
		Sim:     SimConfig{Dt: 0.01, Duration: 30},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	clone.Clamp()
	return &clone
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
