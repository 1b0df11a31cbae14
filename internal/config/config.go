// Package config loads, saves, and validates rope setups.
package config

import (
	"os"

	"github.com/ungerik/go3d/float64/vec3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/tube"
	"github.com/san-kum/ropesim/internal/wind"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 10.0
	DefaultFPS      = 30
)

type Config struct {
	Rope    RopeConfig   `yaml:"rope"`
	Anchors AnchorConfig `yaml:"anchors"`
	Wind    WindConfig   `yaml:"wind"`
	Tube    TubeConfig   `yaml:"tube"`
	Sim     SimConfig    `yaml:"sim"`
}

type RopeConfig struct {
	SampleCount      int     `yaml:"sample_count"`
	Stiffness        float64 `yaml:"stiffness"`
	Damping          float64 `yaml:"damping"`
	RestLength       float64 `yaml:"rest_length"`
	RenderWidth      float64 `yaml:"render_width"`
	MidpointWeight   float64 `yaml:"midpoint_weight"`
	MidpointFraction float64 `yaml:"midpoint_fraction"`
}

type AnchorConfig struct {
	Start [3]float64  `yaml:"start,flow"`
	End   [3]float64  `yaml:"end,flow"`
	Mid   *[3]float64 `yaml:"mid,flow,omitempty"`
}

type WindConfig struct {
	// Mode is "fixed" or "perpendicular".
	Mode       string  `yaml:"mode"`
	BearingDeg float64 `yaml:"bearing_deg"`
	Magnitude  float64 `yaml:"magnitude"`
	Invert     bool    `yaml:"invert"`
}

type TubeConfig struct {
	Radius       float64 `yaml:"radius"`
	Segments     int     `yaml:"segments"`
	TilesPerUnit float64 `yaml:"tiles_per_unit"`
}

type SimConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
	FPS      int     `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Rope: RopeConfig{
			SampleCount:      rope.DefaultSampleCount,
			Stiffness:        rope.DefaultStiffness,
			Damping:          rope.DefaultDamping,
			RestLength:       rope.DefaultRestLength,
			RenderWidth:      rope.DefaultRenderWidth,
			MidpointWeight:   rope.DefaultMidpointWeight,
			MidpointFraction: rope.DefaultMidpointFraction,
		},
		Anchors: AnchorConfig{
			Start: [3]float64{-5, 3, 0},
			End:   [3]float64{5, 3, 0},
		},
		Wind: WindConfig{Mode: "fixed", BearingDeg: 90, Magnitude: 0},
		Tube: TubeConfig{Radius: 0.15, Segments: 8, TilesPerUnit: 1},
		Sim:  SimConfig{Dt: DefaultDt, Duration: DefaultDuration, FPS: DefaultFPS},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Clamp()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clamp forces every tunable into its valid range, so a degenerate curve
// weight or segment count can never reach evaluation.
func (c *Config) Clamp() {
	p := c.RopeParameters()
	p.Clamp()
	c.Rope = RopeConfig{
		SampleCount:      p.SampleCount,
		Stiffness:        p.Stiffness,
		Damping:          p.Damping,
		RestLength:       p.RestLength,
		RenderWidth:      p.RenderWidth,
		MidpointWeight:   p.MidpointWeight,
		MidpointFraction: p.MidpointFraction,
	}

	if c.Tube.Segments < 3 {
		c.Tube.Segments = 3
	}
	if c.Tube.Radius <= 0 {
		c.Tube.Radius = c.Rope.RenderWidth
	}
	if c.Tube.TilesPerUnit <= 0 {
		c.Tube.TilesPerUnit = 1
	}

	if c.Sim.Dt <= 0 {
		c.Sim.Dt = DefaultDt
	}
	if c.Sim.Duration <= 0 {
		c.Sim.Duration = DefaultDuration
	}
	if c.Sim.FPS <= 0 {
		c.Sim.FPS = DefaultFPS
	}
}

// RopeParameters converts the rope section into simulation parameters.
func (c *Config) RopeParameters() rope.Parameters {
	return rope.Parameters{
		SampleCount:      c.Rope.SampleCount,
		Stiffness:        c.Rope.Stiffness,
		Damping:          c.Rope.Damping,
		RestLength:       c.Rope.RestLength,
		RenderWidth:      c.Rope.RenderWidth,
		MidpointWeight:   c.Rope.MidpointWeight,
		MidpointFraction: c.Rope.MidpointFraction,
	}
}

// TubeParams converts the tube section into generator parameters.
func (c *Config) TubeParams() tube.Params {
	return tube.Params{
		Radius:       c.Tube.Radius,
		Segments:     c.Tube.Segments,
		TilesPerUnit: c.Tube.TilesPerUnit,
	}
}

// WindGenerator builds a seeded generator from the wind section.
func (c *Config) WindGenerator(seed int64) *wind.Generator {
	g := wind.New(seed)
	g.BearingDeg = c.Wind.BearingDeg
	g.Magnitude = c.Wind.Magnitude
	g.Invert = c.Wind.Invert
	if c.Wind.Mode == "perpendicular" {
		g.Mode = wind.PerpendicularToSpan
	}
	return g
}

// StartAnchor and EndAnchor build the externally owned handles the rope
// polls; MidAnchor returns nil when the section omits one.
func (c *Config) StartAnchor() *rope.Anchor {
	return &rope.Anchor{Position: vec3.T(c.Anchors.Start)}
}

func (c *Config) EndAnchor() *rope.Anchor {
	return &rope.Anchor{Position: vec3.T(c.Anchors.End)}
}

func (c *Config) MidAnchor() *rope.Anchor {
	if c.Anchors.Mid == nil {
		return nil
	}
	return &rope.Anchor{Position: vec3.T(*c.Anchors.Mid)}
}
