package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Sim.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Rope.SampleCount < 2 {
		t.Error("sample count should allow a curve")
	}
	if cfg.Anchors.Mid != nil {
		t.Error("default config should not pin a mid anchor")
	}
}

func TestClampPreventsDegenerateWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rope.MidpointWeight = 0
	cfg.Rope.Stiffness = -3
	cfg.Tube.Segments = 1

	cfg.Clamp()

	if cfg.Rope.MidpointWeight < 1 {
		t.Errorf("midpoint weight not clamped: %v", cfg.Rope.MidpointWeight)
	}
	if cfg.Rope.Stiffness <= 0 {
		t.Errorf("stiffness not clamped: %v", cfg.Rope.Stiffness)
	}
	if cfg.Tube.Segments < 3 {
		t.Errorf("tube segments not clamped: %v", cfg.Tube.Segments)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rope.yaml")

	cfg := GetPreset("storm")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Rope.RestLength != cfg.Rope.RestLength {
		t.Errorf("rest length: got %v, want %v", loaded.Rope.RestLength, cfg.Rope.RestLength)
	}
	if loaded.Wind.Magnitude != cfg.Wind.Magnitude {
		t.Errorf("wind magnitude: got %v, want %v", loaded.Wind.Magnitude, cfg.Wind.Magnitude)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	if GetPreset("slack") == nil {
		t.Fatal("expected slack preset")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
	if len(ListPresets()) == 0 {
		t.Error("expected presets listed")
	}
}

func TestMidAnchorOptional(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MidAnchor() != nil {
		t.Error("expected nil mid anchor")
	}

	mid := [3]float64{0, 5, 0}
	cfg.Anchors.Mid = &mid
	a := cfg.MidAnchor()
	if a == nil || a.Position[1] != 5 {
		t.Errorf("expected mid anchor at y=5, got %v", a)
	}
}
