package storage

import (
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/runner"
)

func testResult() *runner.Result {
	return &runner.Result{
		Samples: []runner.Sample{
			{Time: 0.02, Sag: vec3.T{5, -2, 0}, Velocity: vec3.T{0, 0.5, 0}, Target: vec3.T{5, -2.5, 0}},
			{Time: 0.04, Sag: vec3.T{5, -2.2, 0}, Velocity: vec3.T{0, 0.3, 0}, Target: vec3.T{5, -2.5, 0}, Wind: vec3.T{0.01, 0, 0.02}},
		},
		Metrics: map[string]float64{"max_sag_speed": 0.5},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := st.Save(RunMetadata{Dt: 0.02, Duration: 0.04, Stiffness: 14}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Stiffness != 14 {
		t.Errorf("stiffness: got %v, want 14", meta.Stiffness)
	}
	if meta.Metrics["max_sag_speed"] != 0.5 {
		t.Errorf("metric lost: %v", meta.Metrics)
	}

	samples, err := st.LoadSamples(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if math.Abs(samples[1].Wind[2]-0.02) > 1e-9 {
		t.Errorf("wind z: got %v, want 0.02", samples[1].Wind[2])
	}
}

func TestListEmpty(t *testing.T) {
	st := New(t.TempDir())
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestListFindsSavedRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(RunMetadata{Dt: 0.02}, testResult()); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}
