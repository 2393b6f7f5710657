package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/esim/internal/analysis"
	"github.com/san-kum/esim/internal/automation"
	"github.com/san-kum/esim/internal/config"
	"github.com/san-kum/esim/internal/experiment"
	"github.com/san-kum/esim/internal/export"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
	"github.com/san-kum/esim/internal/spawn"
	"github.com/san-kum/esim/internal/storage"
	"github.com/san-kum/esim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	logFile string
	logOut  io.Closer
	// Config file
	configFile string
	// Preset name
	preset string
	// Box and bodies
	width      float64
	height     float64
	depth      float64
	numBodies  int
	radius     float64
	mass       float64
	speed      float64
	margin     float64
	layout     string
	seed       int64
	ticks      int
	duration   float64
	maxAdvance float64
	advance    string
	noValidate bool
	// Run output
	recordEvery int
	noSave      bool
	metricNames []string
	// Live view
	frameRate int
	theme     string
	trail     int
	endless   bool
	// Export
	outFile    string
	frameIndex int
	imgSize    int
	braille    bool
	trajectory bool
	// Sweeps and benchmarks
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	numRuns      int
	benchTicks   int
	perturbation float64
	samples      int
)

// main registers commands and flags, opens the preset picker when no
// subcommand is given and exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "esim",
		Short:             "event-driven elastic collision simulator",
		PersistentPreRunE: setupLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logOut != nil {
				logOut.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(viz.NewPicker(config.ListPresets(), config.Describe, buildPreset))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".esim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "record every n-th frame")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to compute: "+strings.Join(experiment.NewRegistry().ListMetrics(), ", "))

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addViewFlags(liveCmd)
	liveCmd.Flags().BoolVar(&endless, "endless", true, "ignore the tick and duration budget")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and collisions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "speed distribution, collision statistics and occupancy",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lyapunov,
	}
	addSimFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-9, "initial displacement of body 0")
	lyapunovCmd.Flags().IntVar(&samples, "samples", 40, "number of renormalizations")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [file]",
		Short: "export recorded frames to CSV",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a recorded frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")
	exportSVGCmd.Flags().IntVar(&imgSize, "size", 600, "image size in pixels")
	exportSVGCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "draw the terminal canvas instead of vector shapes")
	exportSVGCmd.Flags().BoolVar(&trajectory, "trajectory", false, "draw the path of body 0")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [preset] [file]",
		Short: "write the resolved configuration to a YAML file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  writeConfig,
	}
	addSimFlags(configCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark event throughput across body counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 4, "concurrent seeds per body count")
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 2000, "ticks per run")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "compare synchronized and partial advance on the same bodies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareModes,
	}
	addSimFlags(compareCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one parameter over several seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "speed", "parameter: "+strings.Join(automation.SweepParams(), ", "))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.25, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")
	sweepCmd.Flags().IntVar(&numRuns, "seeds", 4, "seeds per value")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, lyapunovCmd, exportCmd, exportCSVCmd,
		exportJSONCmd, exportSVGCmd, presetsCmd, configCmd, benchCmd, compareCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to --log, or discards it. The
// terminal belongs to the UI.
func setupLogging(cmd *cobra.Command, args []string) error {
	if logFile == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(logFile, "esim")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	logOut = f
	return nil
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&width, "width", config.DefaultWidth, "box width")
	f.Float64Var(&height, "height", config.DefaultHeight, "box height")
	f.Float64Var(&depth, "depth", 0, "box depth (0 for a 2D box)")
	f.IntVar(&numBodies, "bodies", 30, "number of bodies")
	f.Float64Var(&radius, "radius", 10, "body radius")
	f.Float64Var(&mass, "mass", 1, "body mass")
	f.Float64Var(&speed, "speed", 0.5, "maximum speed per axis")
	f.Float64Var(&margin, "margin", 100, "spawn margin from the walls")
	f.StringVar(&layout, "layout", string(spawn.Uniform), "spawn layout: uniform, grid, line")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "number of events to process")
	f.Float64Var(&duration, "time", 0, "simulated time limit (0 for none)")
	f.Float64Var(&maxAdvance, "max-advance", config.DefaultMaxAdvance, "drift when no event is found")
	f.StringVar(&advance, "advance", sim.AdvanceSynchronized.String(), "advance mode: synchronized, partial")
	f.BoolVar(&noValidate, "no-validate", false, "skip non-finite state checks")
}

func addViewFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	f.StringVar(&theme, "theme", config.DefaultTheme, "color theme: "+strings.Join(viz.ThemeNames(), ", "))
	f.IntVar(&trail, "trail", 200, "trail length of body 0")
}

// buildConfig resolves preset < config file < explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Overlay(data); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Bounds.Width = width
	}
	if flags.Changed("height") {
		cfg.Bounds.Height = height
	}
	if flags.Changed("depth") {
		cfg.Bounds.Depth = depth
	}
	if flags.Changed("bodies") {
		cfg.Spawn.Count = numBodies
	}
	if flags.Changed("radius") {
		cfg.Spawn.Radius = radius
	}
	if flags.Changed("mass") {
		cfg.Spawn.Mass = mass
	}
	if flags.Changed("speed") {
		cfg.Spawn.Speed = speed
	}
	if flags.Changed("margin") {
		cfg.Spawn.Margin = margin
	}
	if flags.Changed("layout") {
		cfg.Spawn.Layout = spawn.Layout(layout)
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("max-advance") {
		cfg.MaxAdvance = maxAdvance
	}
	if flags.Changed("advance") {
		cfg.Advance = advance
	}
	if flags.Changed("no-validate") {
		cfg.ValidateState = !noValidate
	}
	if f := flags.Lookup("fps"); f != nil && f.Changed {
		cfg.View.FPS = frameRate
	}
	if f := flags.Lookup("theme"); f != nil && f.Changed {
		cfg.View.Theme = theme
	}
	if f := flags.Lookup("trail"); f != nil && f.Changed {
		cfg.View.Trail = trail
	}
	if cfg.Name == "" {
		cfg.Name = "run"
	}

	return cfg, cfg.Validate()
}

// newSimulator spawns the bodies of cfg and wraps them in a simulator.
func newSimulator(cfg *config.Config, unbounded bool) (*sim.Simulator, error) {
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	if unbounded {
		simCfg.Ticks, simCfg.Duration = 0, 0
	}
	bodies, err := experiment.Factory(cfg)(cfg.Seed)
	if err != nil {
		return nil, err
	}
	return sim.New(cfg.Bounds, bodies, simCfg)
}

func viewOptions(cfg *config.Config) viz.Options {
	opts := viz.DefaultOptions()
	opts.Name = cfg.Name
	opts.Theme = cfg.View.Theme
	opts.FPS = cfg.View.FPS
	opts.Trail = cfg.View.Trail
	opts.Yaw, opts.Pitch = cfg.View.Yaw, cfg.View.Pitch
	return opts
}

func buildPreset(name string) (*sim.Simulator, viz.Options, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, viz.Options{}, fmt.Errorf("unknown preset: %s", name)
	}
	s, err := newSimulator(cfg, true)
	if err != nil {
		return nil, viz.Options{}, err
	}
	return s, viewOptions(cfg), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.Record = !noSave
	cfg.RecordEvery = recordEvery

	registry := experiment.NewRegistry()
	metrics, err := registry.Metrics(metricNames)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	if err := exp.Setup(metrics); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s with %d bodies...\n", cfg.Name, len(exp.GetSimulator().Bodies()))
	start := time.Now()

	result, err := exp.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("interrupted")
	} else if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("time: %.4f\n", result.Time)
	fmt.Printf("events: pair %d, wall %d, none %d\n",
		result.Events[kinetic.KindPair], result.Events[kinetic.KindWall], result.Events[kinetic.KindNone])
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	return printMetrics(result.Metrics)
}

func printMetrics(m map[string]float64) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, m[name])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg, endless)
	if err != nil {
		return err
	}
	return viz.RunLive(viz.NewModel(s, viewOptions(cfg)))
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBODIES\tBOX\tSTEPS\tSIM TIME\tADVANCE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%.2f\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			boxString(run.Bounds),
			run.Steps,
			run.Time,
			run.Advance,
		)
	}

	return w.Flush()
}

func boxString(b kinetic.Bounds) string {
	if b.Dim() == 2 {
		return fmt.Sprintf("%gx%g", b.Width, b.Height)
	}
	return fmt.Sprintf("%gx%gx%g", b.Width, b.Height, b.Depth)
}

func loadFrames(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no frames recorded for %s", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadFrames(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d\n", len(meta.Bodies))
	fmt.Printf("samples: %d\n\n", len(frames))

	energy := make([]float64, len(frames))
	pairs := make([]float64, len(frames))
	walls := make([]float64, len(frames))
	var np, nw float64
	for i, f := range frames {
		energy[i] = f.KineticEnergy()
		if f.Changed {
			switch f.Event.Kind {
			case kinetic.KindPair:
				np++
			case kinetic.KindWall:
				nw++
			}
		}
		pairs[i], walls[i] = np, nw
	}

	for _, chart := range []string{
		viz.Chart(energy, 80, 10, "kinetic energy"),
		viz.ChartMany([][]float64{pairs, walls}, 80, 10, "cumulative collisions and wall hits"),
	} {
		if chart == "" {
			continue
		}
		fmt.Println(chart)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadFrames(args[0])
	if err != nil {
		return err
	}
	first, last := frames[0], frames[len(frames)-1]
	dim := meta.Bounds.Dim()

	fmt.Printf("collision analysis: %s\n", meta.ID)
	fmt.Printf("bodies: %d, frames: %d, time: %.2f\n\n", len(meta.Bodies), len(frames), last.Time)

	edges, counts := analysis.SpeedHistogram(analysis.Speeds(last), 10)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tBODIES\t")
	for i, c := range counts {
		fmt.Fprintf(w, "%.3f-%.3f\t%d\t%s\n", edges[i], edges[i+1], c, strings.Repeat("█", c))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nequilibrium deviation: %.4f (start %.4f)\n",
		analysis.EquilibriumDeviation(analysis.Speeds(last), dim),
		analysis.EquilibriumDeviation(analysis.Speeds(first), dim))
	if mft := analysis.MeanFreeTime(frames); mft > 0 {
		fmt.Printf("mean free time: %.3f\n", mft)
	}
	if series, span := analysis.CollisionSeries(frames, 128); len(series) > 0 {
		if p := analysis.DominantPeriod(series, span); p > 0 {
			fmt.Printf("dominant collision period: %.3f\n", p)
		}
		fmt.Printf("collisions over time: %s\n", viz.Sparkline(series, 60))
	}

	fmt.Println("\noccupancy (x/y):")
	fmt.Print(analysis.NewOccupancy(meta.Bounds, frames, 60, 20).ASCII())
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	bodies, err := experiment.Factory(cfg)(cfg.Seed)
	if err != nil {
		return err
	}

	span := cfg.Duration
	if span == 0 {
		span = 1000
	}
	d, err := analysis.LyapunovExponent(cfg.Bounds, bodies, simCfg, perturbation, span, samples)
	if err != nil {
		return err
	}

	logs := make([]float64, len(d.Separations))
	for i, s := range d.Separations {
		logs[i] = math.Log10(math.Max(s, 1e-300) / perturbation)
	}
	if chart := viz.Chart(logs, 60, 8, "log10 growth per interval"); chart != "" {
		fmt.Println(chart)
		fmt.Println()
	}
	fmt.Printf("largest lyapunov exponent: %.6f (over %.1f time units, %d bodies)\n", d.Exponent, span, len(bodies))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if len(args) == 2 {
		return st.ExportCSV(args[0], args[1])
	}

	f, err := os.Open(st.FramesPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(os.Stdout, f)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadFrames(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return storage.ExportJSONStdout(meta, frames)
	}
	return storage.ExportJSON(outFile, meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadFrames(args[0])
	if err != nil {
		return err
	}
	idx := frameIndex
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range (run has %d)", frameIndex, len(frames))
	}
	th := viz.GetTheme(theme)
	f := frames[idx]

	var svg string
	switch {
	case trajectory:
		svg = export.TrajectoryToSVG(frames[:idx+1], 0, imgSize, imgSize, th.Hex(viz.ToneTrail))
	case braille:
		canvas := viz.NewCanvas(imgSize/8, imgSize/16)
		w, h := canvas.PixelSize()
		scene := viz.NewScene(viz.NewProjector(meta.Bounds, nil, w, h), 200)
		for _, past := range frames[max(0, idx-200) : idx+1] {
			scene.Track(past)
		}
		scene.Draw(canvas, f)
		svg = export.CanvasToSVG(canvas, th, 4)
	default:
		svg = export.FrameToSVG(f, meta.Bounds, th, imgSize, imgSize)
	}

	path := outFile
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := export.WriteSVG(path, svg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (frame %d, t=%.3f)\n", path, f.Step, f.Time)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBOX\tLAYOUT\tBODIES\tADVANCE\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		bodies := fmt.Sprintf("%d", p.Spawn.Count)
		if p.Spawn.Count == 0 {
			bodies = "fill"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", name, boxString(p.Bounds), p.Spawn.Layout, bodies, p.Advance, config.Describe(name))
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	path := cfg.Name + ".yaml"
	if len(args) == 2 {
		path = args[1]
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	name := "scatter"
	if len(args) > 0 {
		name = args[0]
	}
	base := config.GetPreset(name)
	if base == nil {
		return fmt.Errorf("unknown preset: %s", name)
	}

	registry := experiment.NewRegistry()
	fmt.Printf("benchmarking %s (%d ticks, %d seeds)\n\n", name, benchTicks, numRuns)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSTEPS\tTIME\tSTEPS/SEC\tCOLLISIONS\tDRIFT")

	for _, n := range []int{10, 25, 50, 100, 200} {
		cfg := base.Clone()
		cfg.Spawn.Layout = spawn.Uniform
		cfg.Spawn.Count = n
		cfg.Ticks = benchTicks
		cfg.Duration = 0
		simCfg, err := cfg.SimConfig()
		if err != nil {
			return err
		}

		start := time.Now()
		results, err := experiment.NewEnsemble(cfg, numRuns, registry).Run(context.Background(), simCfg)
		if err != nil {
			fmt.Fprintf(w, "%d\terror: %v\t\t\t\t\n", n, err)
			continue
		}
		elapsed := time.Since(start)

		steps, collisions, drift := 0, 0.0, 0.0
		for _, r := range results {
			steps += r.StepsTaken
			collisions += r.Metrics["collisions"]
			drift = math.Max(drift, r.Metrics["energy_drift"])
		}
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.0f\t%.2e\n",
			n, steps, elapsed.Round(time.Millisecond), float64(steps)/elapsed.Seconds(), collisions, drift)
	}

	return w.Flush()
}

func compareModes(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("comparing advance modes for %s (seed %d, %d ticks)\n\n", cfg.Name, cfg.Seed, cfg.Ticks)
	fmt.Printf("%-14s  %10s  %10s  %12s  %12s  %10s\n", "advance", "collisions", "wall_hits", "energy_drift", "max_overlap", "time_ms")
	fmt.Println(strings.Repeat("-", 78))

	for _, mode := range []sim.AdvanceMode{sim.AdvanceSynchronized, sim.AdvancePartial} {
		c := cfg.Clone()
		c.Advance = mode.String()
		exp, err := experiment.New(c)
		if err != nil {
			return err
		}
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			fmt.Printf("%-14s  error: %v\n", mode, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-14s  error: %v\n", mode, err)
			continue
		}

		fmt.Printf("%-14s  %10.0f  %10.0f  %12.2e  %12.4g  %10.2f\n", mode,
			result.Metrics["collisions"], result.Metrics["wall_hits"], result.Metrics["energy_drift"],
			result.Metrics["max_overlap"], float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Println()

	summaries, err := automation.RunScenario(context.Background(), scenario, experiment.NewRegistry(), st)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tSTEPS\tTIME\tCOLLISIONS\tWALL HITS\tDRIFT\tRUN")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%d\t%d\t%.2e\t%s\n",
			s.Name, s.Bodies, s.Steps, s.Time, s.Collisions, s.WallHits, s.EnergyDrift, s.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Seeds:     numRuns,
	}
	results, err := automation.RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRUNS\tCOLLISION RATE\tWALL HITS\tDRIFT\tMAX OVERLAP\tSTABILITY\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%.4g\t%.1f\t%.2e\t%.3g\t%.3f\n",
			r.ParamValue, r.Runs, r.Metrics["collision_rate"], r.Metrics["wall_hits"],
			r.Metrics["energy_drift"], r.Metrics["max_overlap"], r.Metrics["stability"])
	}
	return w.Flush()
}
