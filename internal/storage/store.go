// Package storage persists recorded rope runs as a metadata JSON plus a
// CSV trajectory per run directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/runner"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Preset     string             `json:"preset,omitempty"`
	Stiffness  float64            `json:"stiffness"`
	Damping    float64            `json:"damping"`
	RestLength float64            `json:"rest_length"`
	WindMag    float64            `json:"wind_magnitude"`
	Metrics    map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"time",
	"sag_x", "sag_y", "sag_z",
	"vel_x", "vel_y", "vel_z",
	"target_x", "target_y", "target_z",
	"wind_x", "wind_y", "wind_z",
}

// Save writes one run directory and returns its generated ID.
func (s *Store) Save(meta RunMetadata, result *runner.Result) (string, error) {
	runID := fmt.Sprintf("rope_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, sample := range result.Samples {
		if err := w.Write(sampleRow(sample)); err != nil {
			return "", err
		}
	}

	return runID, w.Error()
}

func sampleRow(s runner.Sample) []string {
	row := make([]string, 0, len(csvHeader))
	row = append(row, formatFloat(s.Time))
	for _, v := range []vec3.T{s.Sag, s.Velocity, s.Target, s.Wind} {
		row = append(row, formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
	}
	return row
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples re-reads a run's trajectory CSV.
func (s *Store) LoadSamples(runID string) ([]runner.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	samples := make([]runner.Sample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("storage: malformed row with %d columns", len(row))
		}
		vals := make([]float64, len(row))
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		samples = append(samples, runner.Sample{
			Time:     vals[0],
			Sag:      vec3.T{vals[1], vals[2], vals[3]},
			Velocity: vec3.T{vals[4], vals[5], vals[6]},
			Target:   vec3.T{vals[7], vals[8], vals[9]},
			Wind:     vec3.T{vals[10], vals[11], vals[12]},
		})
	}
	return samples, nil
}

// List returns all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// ExportJSON writes a run's metadata and trajectory as one JSON document.
func ExportJSON(w *json.Encoder, meta *RunMetadata, samples []runner.Sample) error {
	return w.Encode(struct {
		Meta    *RunMetadata    `json:"meta"`
		Samples []runner.Sample `json:"samples"`
	}{meta, samples})
}
