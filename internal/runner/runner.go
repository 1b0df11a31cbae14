// Package runner drives a rope simulation headlessly over a fixed
// duration, recording the sag-point trajectory and summary metrics.
package runner

import (
	"context"
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/spring"
	"github.com/san-kum/ropesim/internal/wind"
)

type Config struct {
	Dt       float64
	Duration float64
}

// Sample is one recorded physics step.
type Sample struct {
	Time     float64
	Sag      vec3.T
	Velocity vec3.T
	Target   vec3.T
	Wind     vec3.T
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
}

// Runner couples a simulation with an optional wind generator. Headless
// runs step physics and render refresh on the same fixed cadence.
type Runner struct {
	sim  *rope.Simulation
	wind *wind.Generator
}

func New(sim *rope.Simulation, gen *wind.Generator) *Runner {
	return &Runner{sim: sim, wind: gen}
}

func (r *Runner) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Run executes the configured number of fixed steps and returns the
// recorded trajectory. A canceled context returns the partial result with
// the context's error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	// Round, don't truncate: duration/dt lands fractionally under the
	// intended count for common decimal timesteps.
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
	}

	maxSpeed := 0.0
	settleTime := math.NaN()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var force vec3.T
		if r.wind != nil {
			force = r.wind.Step(r.sim, cfg.Dt)
		}
		r.sim.StepPhysics(cfg.Dt)
		r.sim.Refresh()

		t := float64(i+1) * cfg.Dt
		sag := r.sim.SagPoint()
		result.Samples = append(result.Samples, Sample{
			Time:     t,
			Sag:      sag.Current,
			Velocity: sag.Velocity,
			Target:   sag.Target,
			Wind:     force,
		})

		if speed := sag.Velocity.Length(); speed > maxSpeed {
			maxSpeed = speed
		}
		if sag.Settled() {
			if math.IsNaN(settleTime) {
				settleTime = t
			}
		} else {
			settleTime = math.NaN()
		}
	}

	final := r.sim.SagPoint()
	err := vec3.Sub(&final.Current, &final.Target)
	result.Metrics["max_sag_speed"] = maxSpeed
	result.Metrics["final_target_error"] = err.Length()
	if !math.IsNaN(settleTime) {
		result.Metrics["settle_time"] = settleTime
	}

	return result, nil
}

// RunWithCallback steps until the duration elapses or the callback
// returns false. Used by live consumers that render each state.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(spring.State, float64) bool) error {
	if err := r.validate(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if r.wind != nil {
			r.wind.Step(r.sim, cfg.Dt)
		}
		r.sim.StepPhysics(cfg.Dt)
		r.sim.Refresh()
		t += cfg.Dt

		if !callback(r.sim.SagPoint(), t) {
			return nil
		}
	}

	return nil
}
