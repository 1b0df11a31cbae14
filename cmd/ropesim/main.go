package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/export"
	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/runner"
	"github.com/san-kum/ropesim/internal/storage"
	"github.com/san-kum/ropesim/internal/tube"
	"github.com/san-kum/ropesim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	configFile string
	preset     string
	windMag    float64
	outFile    string
)

// main registers the ropesim commands. With no subcommand the live
// terminal view starts with the default rope.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ropesim",
		Short: "spring-and-spline rope simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(config.DefaultConfig())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ropesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "record a headless run",
		RunE:  runSimulation,
	}
	addSetupFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	meshCmd := &cobra.Command{
		Use:   "mesh",
		Short: "extrude the settled rope into an OBJ tube mesh",
		RunE:  exportMesh,
	}
	addSetupFlags(meshCmd)
	meshCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the settled rope to an SVG snapshot",
		RunE:  exportSnapshot,
	}
	addSetupFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSetup(cmd)
			if err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}
	addSetupFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, meshCmd, snapshotCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "fixed physics timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "wind noise seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset")
	cmd.Flags().Float64Var(&windMag, "wind", -1, "override wind magnitude")
}

// loadSetup resolves preset, config file, and flag overrides in that
// order, matching flag precedence over files.
func loadSetup(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Sim.Duration = duration
	}
	if cmd.Flags().Changed("seed") || cfg.Sim.Seed == 0 {
		cfg.Sim.Seed = seed
	}
	if cmd.Flags().Changed("wind") {
		cfg.Wind.Magnitude = windMag
	}
	cfg.Clamp()
	return cfg, nil
}

func buildSimulation(cfg *config.Config) *rope.Simulation {
	sim := rope.New(cfg.RopeParameters(), rope.ModeRuntime)
	sim.SetStartAnchor(cfg.StartAnchor())
	sim.SetMidAnchor(cfg.MidAnchor())
	sim.SetEndAnchor(cfg.EndAnchor())
	sim.Refresh()
	return sim
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sim := buildSimulation(cfg)
	gen := cfg.WindGenerator(cfg.Sim.Seed)
	r := runner.New(sim, gen)

	fmt.Println("running rope simulation...")
	start := time.Now()

	result, err := r.Run(context.Background(), runner.Config{Dt: cfg.Sim.Dt, Duration: cfg.Sim.Duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Seed:       cfg.Sim.Seed,
		Dt:         cfg.Sim.Dt,
		Duration:   cfg.Sim.Duration,
		Preset:     preset,
		Stiffness:  cfg.Rope.Stiffness,
		Damping:    cfg.Rope.Damping,
		RestLength: cfg.Rope.RestLength,
		WindMag:    cfg.Wind.Magnitude,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.Samples))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tSTIFF\tDAMP\tWIND")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%.1f\t%.1f\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Stiffness,
			run.Damping,
			run.WindMag,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))

	heights := make([]float64, len(samples))
	speeds := make([]float64, len(samples))
	for i, s := range samples {
		heights[i] = s.Sag[1]
		speeds[i] = s.Velocity.Length()
	}

	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("sag height"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("sag speed"),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "sag_x", "sag_y", "sag_z", "speed"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Sag[0], 'f', 6, 64),
			strconv.FormatFloat(s.Sag[1], 'f', 6, 64),
			strconv.FormatFloat(s.Sag[2], 'f', 6, 64),
			strconv.FormatFloat(s.Velocity.Length(), 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return storage.ExportJSON(enc, meta, samples)
}

// exportSnapshot settles the rope headlessly, draws it onto a braille
// canvas from the three-quarter pose, and writes the canvas as SVG.
func exportSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	sim := buildSimulation(cfg)
	r := runner.New(sim, nil)
	if _, err := r.Run(context.Background(), runner.Config{Dt: cfg.Sim.Dt, Duration: cfg.Sim.Duration}); err != nil {
		return err
	}

	canvas := viz.NewCanvas(80, 22)
	cam := viz.NewCamera()
	pose := viz.DefaultPoses()[1]
	cam.RotX, cam.RotY, cam.RotZ, cam.Zoom = pose.RotX, pose.RotY, pose.RotZ, pose.Zoom

	viz.DrawMarker(canvas, cam, cfg.StartAnchor().Position)
	viz.DrawMarker(canvas, cam, cfg.EndAnchor().Position)
	viz.DrawPolyline(canvas, cam, sim.Samples())

	svg := export.CanvasToSVG(canvas, 4)
	if outFile == "" {
		fmt.Print(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

// exportMesh settles the rope headlessly, then extrudes the sampled
// curve into a tube and writes it as OBJ.
func exportMesh(cmd *cobra.Command, args []string) error {
	cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	sim := buildSimulation(cfg)
	r := runner.New(sim, nil)
	if _, err := r.Run(context.Background(), runner.Config{Dt: cfg.Sim.Dt, Duration: cfg.Sim.Duration}); err != nil {
		return err
	}

	gen := tube.NewGenerator()
	if err := gen.Generate(sim.Samples(), cfg.TubeParams()); err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := export.MeshToOBJ(out, gen.Mesh()); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Printf("wrote %d vertices, %d triangles to %s\n",
			gen.Mesh().VertexCount(), gen.Mesh().TriangleCount(), outFile)
	}
	return nil
}
