package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gyrosim/internal/analysis"
	"github.com/san-kum/gyrosim/internal/config"
	"github.com/san-kum/gyrosim/internal/export"
	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/marker"
	"github.com/san-kum/gyrosim/internal/metrics"
	"github.com/san-kum/gyrosim/internal/orbit"
	"github.com/san-kum/gyrosim/internal/sim"
	"github.com/san-kum/gyrosim/internal/storage"
	"github.com/san-kum/gyrosim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	markerFile string
	timestep   float64
	maxTime    float64
	fieldModel string
	b0         float64
	r0         float64
	minorR     float64
	safetyQ    float64
	frameRate  int
	lane       int
	plane      float64
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gyrosim",
		Short: "guiding-center orbit following in toroidal fields",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gyrosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "follow markers until all lanes terminate",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "follow markers with live cross-section view",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's poloidal cross section",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&lane, "lane", 0, "lane to plot in the time trace")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "transit-frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&plane, "plane", 0, "poincare plane toroidal angle [rad]")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored run's cross section to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "orbits.svg", "output file")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the stepper",
		RunE:  benchStepper,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list run presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	sampleCmd := &cobra.Command{
		Use:   "sample-markers [file]",
		Short: "write an example marker file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return marker.Save(args[0], sampleMarkers())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportSVGCmd, benchCmd, presetsCmd, sampleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&markerFile, "markers", "", "marker file path (yaml)")
	cmd.Flags().Float64Var(&timestep, "dt", 0, "fixed timestep (overrides gyrotime rule)")
	cmd.Flags().Float64Var(&maxTime, "time", 0, "max simulation time")
	cmd.Flags().StringVar(&fieldModel, "field", "", "field model (uniform|circular|grid)")
	cmd.Flags().Float64Var(&b0, "b0", 0, "on-axis field strength")
	cmd.Flags().Float64Var(&r0, "r0", 0, "major radius of the axis")
	cmd.Flags().Float64Var(&minorR, "minor-radius", 0, "plasma minor radius")
	cmd.Flags().Float64Var(&safetyQ, "q", 0, "safety factor")
}

// buildConfig merges preset, config file and flags, flags winning.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
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
		cfg.Step.UseFixed = true
		cfg.Step.Timestep = timestep
	}
	if cmd.Flags().Changed("time") {
		cfg.End.MaxSimTime = maxTime
	}
	if cmd.Flags().Changed("field") {
		cfg.Field.Model = fieldModel
	}
	if cmd.Flags().Changed("b0") {
		cfg.Field.B0 = b0
	}
	if cmd.Flags().Changed("r0") {
		cfg.Field.R0 = r0
	}
	if cmd.Flags().Changed("minor-radius") {
		cfg.Field.MinorRadius = minorR
	}
	if cmd.Flags().Changed("q") {
		cfg.Field.SafetyFactor = safetyQ
	}
	if markerFile != "" {
		cfg.Markers = markerFile
	}

	return cfg, cfg.Validate()
}

func setup(cmd *cobra.Command) (*config.Config, *sim.Simulator, *orbit.Batch, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	bf, err := sim.BuildField(cfg.Field)
	if err != nil {
		return nil, nil, nil, err
	}
	ef, err := sim.BuildElectric(cfg.Electric, bf)
	if err != nil {
		return nil, nil, nil, err
	}
	eom, err := sim.BuildMotion("gc")
	if err != nil {
		return nil, nil, nil, err
	}

	var markers []marker.Particle
	if cfg.Markers != "" {
		markers, err = marker.Load(cfg.Markers)
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		markers = sampleMarkers()
	}

	batch := marker.InitBatch(markers, bf)
	return cfg, sim.New(bf, ef, eom, cfg), batch, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, simulator, batch, err := setup(cmd)
	if err != nil {
		return err
	}

	simulator.AddMetric(metrics.NewEnergyDrift())
	simulator.AddMetric(metrics.NewMuDrift())
	simulator.AddMetric(metrics.NewPoloidalTransits())
	simulator.AddMetric(metrics.NewToroidalTransits())

	start := time.Now()
	res, err := simulator.Run(context.Background(), batch)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "lane\tid\tend\trho\tpol [rad]\terror")
	for i := 0; i < batch.N(); i++ {
		errText := ""
		if !batch.Err[i].OK() {
			errText = batch.Err[i].Error()
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%.4f\t%.3f\t%s\n",
			i, batch.ID[i], res.End[i], batch.Rho[i], batch.Pol[i], errText)
	}
	w.Flush()

	fmt.Printf("\n%d steps, %d lanes, %.1f steps/ms\n",
		res.Steps, batch.N(), float64(res.Steps)/float64(elapsed.Milliseconds()+1))
	for name, val := range simulator.Metrics() {
		fmt.Printf("  %s: %.4e\n", name, val)
	}

	if len(res.History) > 0 && len(res.History[0]) > 2 {
		rs := make([]float64, len(res.History[0]))
		for i, pt := range res.History[0] {
			rs[i] = pt.R
		}
		fmt.Println("\n" + asciigraph.Plot(rs, asciigraph.Height(10), asciigraph.Caption("r(t), lane 0")))
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	axisR, axisZ := simulatorAxis(cfg)
	runID, err := st.Save(cfg.Field.Model, cfg.Electric.Model, axisR, axisZ, res, simulator.Metrics())
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved as %s\n", runID)
	return nil
}

// simulatorAxis rebuilds the field to report the axis; cheap for every
// model in the closed set.
func simulatorAxis(cfg *config.Config) (float64, float64) {
	bf, err := sim.BuildField(cfg.Field)
	if err != nil {
		return cfg.Field.R0, cfg.Field.Z0
	}
	return bf.Axis()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, simulator, batch, err := setup(cmd)
	if err != nil {
		return err
	}

	bf, err := sim.BuildField(cfg.Field)
	if err != nil {
		return err
	}
	ef, err := sim.BuildElectric(cfg.Electric, bf)
	if err != nil {
		return err
	}
	eom, err := sim.BuildMotion("gc")
	if err != nil {
		return err
	}

	h := simulator.Timesteps(batch)
	bound := cfg.Field.MinorRadius
	if bound <= 0 {
		bound = 0.5
	}
	m := viz.NewModel(batch, h, bf, ef, eom, bound, 50, frameRate)
	return viz.RunLive(m)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\ttimestamp\tfield\tmarkers\tsteps")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.FieldModel, r.Markers, r.Steps)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadOrbits(args[0])
	if err != nil {
		return err
	}

	bound := 0.0
	for _, hist := range history {
		for _, pt := range hist {
			dr := pt.R - meta.AxisR
			dz := pt.Z - meta.AxisZ
			if d := dr*dr + dz*dz; d > bound {
				bound = d
			}
		}
	}
	if bound == 0 {
		return fmt.Errorf("run %s holds no orbit samples", args[0])
	}
	cs := viz.NewCrossSection(70, 30, meta.AxisR, meta.AxisZ, math.Sqrt(bound))
	cs.Frame()
	for _, hist := range history {
		cs.AddOrbit(hist)
	}
	fmt.Println(cs.String())

	if lane < len(history) && len(history[lane]) > 2 {
		rho := make([]float64, len(history[lane]))
		for i, pt := range history[lane] {
			rho[i] = pt.Rho
		}
		fmt.Println(asciigraph.Plot(rho, asciigraph.Height(8),
			asciigraph.Caption(fmt.Sprintf("rho(t), lane %d", lane))))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	history, err := st.LoadOrbits(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "lane\tsamples\tf_pol [Hz]\tpoincare pts")
	for i, hist := range history {
		if len(hist) < 4 {
			continue
		}
		dt := (hist[len(hist)-1].T - hist[0].T) / float64(len(hist)-1)
		rs := make([]float64, len(hist))
		for k, pt := range hist {
			rs[k] = pt.R
		}
		section := analysis.PoincareSection(hist, plane)
		fmt.Fprintf(w, "%d\t%d\t%.4e\t%d\n",
			i, len(hist), analysis.DominantFrequency(rs, dt), len(section))
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadOrbits(args[0])
	if err != nil {
		return err
	}

	svg := export.CrossSectionSVG(history, meta.AxisR, meta.AxisZ, 800, 800)
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func benchStepper(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.End.MaxSimTime = 1e-5

	bf, err := sim.BuildField(cfg.Field)
	if err != nil {
		return err
	}
	eom, _ := sim.BuildMotion("gc")

	markers := make([]marker.Particle, 32)
	for i := range markers {
		m := sampleMarkers()[0]
		m.ID = int64(i + 1)
		m.Z = 0.01 * float64(i%8)
		markers[i] = m
	}
	batch := marker.InitBatch(markers, bf)

	simulator := sim.New(bf, field.ZeroE{}, eom, cfg)
	start := time.Now()
	res, err := simulator.Run(context.Background(), batch)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	laneSteps := float64(res.Steps) * float64(batch.N())
	fmt.Printf("%d sweeps x %d lanes in %v (%.2e lane-steps/s)\n",
		res.Steps, batch.N(), elapsed, laneSteps/elapsed.Seconds())
	return nil
}

func sampleMarkers() []marker.Particle {
	return []marker.Particle{
		{ID: 1, Mass: 4.003, Charge: 2, R: 1.85, Phi: 0, Z: 0,
			VR: 0, VPhi: 1.2e6, VZ: 6e5, Weight: 1, Time: 0},
		{ID: 2, Mass: 2.014, Charge: 1, R: 1.5, Phi: 0, Z: 0.1,
			VR: 2e5, VPhi: -8e5, VZ: 0, Weight: 1, Time: 0},
	}
}
