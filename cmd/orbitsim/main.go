package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/optim"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	dt          float64
	ticks       int
	gravity     float64
	seed        int64
	ringCount   int
	sampleEvery int
	width       int
	height      int

	// live view
	frameRate int
	trail     int
	theme     string
	logFile   string

	// plot / analyze / export
	plotSeries    string
	analyzeSeries string
	outFile       string
	frameTick     int
	asPath        bool

	sweepGs    []float64
	benchTicks int
	benchSizes []int

	// search / montecarlo
	vary         []string
	searchMetric string
	trialMetric  string
	trials       int
)

var logger = log.New(os.Stderr)

var errNoSweepValues = errors.New("sweep needs at least one --gs value")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// newRootCmd registers the commands and flags. The root command opens the
// scenario picker when no subcommand is given.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "n-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(os.Stderr)
		},
		RunE: runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation headless and archive it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addLiveFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-body series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotSeries, "series", "speed", "series to plot (x, y, z, speed)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a recorded frame or the trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&frameTick, "tick", -1, "tick of the frame to render (default last)")
	exportSVGCmd.Flags().BoolVar(&asPath, "trajectory", false, "draw trajectories instead of a frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario for several gravitational constants in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepGravity,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepGs, "gs", []float64{0.5, 1, 2}, "gravitational constants")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrator on rings of increasing size",
		RunE:  benchRing,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 1000, "ticks per size")
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{2, 10, 30, 100}, "body counts")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "show the power spectrum and dominant period of each body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeSeries, "series", "x", "series to analyze (x, y, z, speed)")

	searchCmd := &cobra.Command{
		Use:   "search [scenario]",
		Short: "grid search parameters for the smallest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  searchParams,
	}
	addSimFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&vary, "vary", []string{"dt=0.25,0.5,1"}, "parameter values as name=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "energy_drift", "metric to minimise")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run and archive every step of a yaml batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "count stable runs over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds to try")
	monteCarloCmd.Flags().StringVar(&trialMetric, "metric", "energy_drift", "metric to report per trial")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		RunE:  listScenarios,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportSVGCmd, sweepCmd, benchCmd,
		analyzeCmd, searchCmd, batchCmd, monteCarloCmd, scenariosCmd, initCmd)

	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks (live: 0 runs until quit)")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().IntVar(&ringCount, "bodies", config.DefaultRingCount, "number of bodies (ring)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "record every n-th tick")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas height")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().IntVar(&trail, "trail", 40, "trail length in frames")
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs here while the view is open")
}

func setupLogger(w io.Writer) error {
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "orbitsim",
	})
	return nil
}

// loadConfig starts from the config file (or defaults) and applies the
// flags that were set explicitly. A scenario argument replaces any inline
// bodies from the file.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Scenario = args[0]
		cfg.Bodies = nil
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Physics.Dt = dt
	}
	if flags.Changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if flags.Changed("g") {
		cfg.Physics.G = gravity
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.RingCount = ringCount
	}
	if flags.Changed("sample-every") {
		cfg.Run.SampleEvery = sampleEvery
	}
	if flags.Changed("width") {
		cfg.Canvas.Width = width
	}
	if flags.Changed("height") {
		cfg.Canvas.Height = height
	}
	if flags.Changed("fps") {
		cfg.Run.FPS = frameRate
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(exp.Metadata(out), out.Result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", out.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", out.Result.TicksTaken)
	fmt.Printf("frames: %d\n", len(out.Result.Frames))
	if out.Result.NonFiniteTicks > 0 {
		fmt.Printf("non-finite ticks: %d\n", out.Result.NonFiniteTicks)
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(out.Result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, out.Result.Metrics[name])
	}

	return nil
}

// liveLogger sends logs to --log-file, or discards them, so the full-screen
// view is not overwritten.
func liveLogger() (*log.Logger, func(), error) {
	if logFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	l := log.NewWithOptions(f, log.Options{Level: logger.GetLevel(), ReportTimestamp: true, Prefix: "orbitsim"})
	return l, func() { f.Close() }, nil
}

func newLiveModel(cfg *config.Config, l *log.Logger) (viz.Model, error) {
	exp, err := experiment.New(cfg, l)
	if err != nil {
		return viz.Model{}, err
	}
	ens, err := exp.Ensemble()
	if err != nil {
		return viz.Model{}, err
	}

	fps := cfg.Run.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return viz.NewModel(ens, integrators.NewEuler(), cfg.SimConfig(), viz.Options{
		Title:        cfg.Scenario,
		FPS:          fps,
		FrameAverage: cfg.Run.FrameAverage,
		Trail:        trail,
		Theme:        theme,
		Logger:       l,
	}), nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	// a live view runs until quit unless a tick count was asked for
	if !cmd.Flags().Changed("ticks") {
		cfg.Run.Ticks = 0
	}

	l, closeLog, err := liveLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := newLiveModel(cfg, l)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runPicker(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	l, closeLog, err := liveLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	items := make([]viz.ScenarioInfo, 0, len(config.Scenarios))
	for _, name := range config.ListScenarios() {
		sc, _ := config.GetScenario(name)
		items = append(items, viz.ScenarioInfo{Name: sc.Name, Description: sc.Description})
	}

	launch := func(name string) (viz.Model, error) {
		cfg := *base
		cfg.Scenario = name
		cfg.Bodies = nil
		cfg.Run.Ticks = 0
		return newLiveModel(&cfg, l)
	}

	return viz.RunPicker(items, launch, theme)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tTICKS\tDT\tG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%g\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Ticks,
			run.Dt,
			run.G,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	value, err := seriesFunc(plotSeries)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	numBodies := len(frames[0].Bodies)
	maxPlots := 6
	if numBodies > maxPlots {
		numBodies = maxPlots
	}

	for body := 0; body < numBodies; body++ {
		data := make([]float64, 0, len(frames))
		for _, f := range frames {
			v := math.NaN()
			if body < len(f.Bodies) {
				v = value(f.Bodies[body])
			}
			if math.IsInf(v, 0) {
				v = math.NaN()
			}
			data = append(data, v)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d %s vs tick", body, plotSeries)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func seriesFunc(name string) (func(sim.BodySample) float64, error) {
	switch name {
	case "x":
		return func(b sim.BodySample) float64 { return b.Position.X() }, nil
	case "y":
		return func(b sim.BodySample) float64 { return b.Position.Y() }, nil
	case "z":
		return func(b sim.BodySample) float64 { return b.Position.Z() }, nil
	case "speed":
		return func(b sim.BodySample) float64 { return b.Velocity.Len() }, nil
	}
	return nil, fmt.Errorf("unknown series %q (x, y, z, speed)", name)
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

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	colors := experiment.ParseColors(meta.Colors)
	var svg string
	if asPath {
		svg = export.TrajectoryToSVG(frames, colors, int(meta.Width), int(meta.Height))
	} else {
		frame, err := pickFrame(frames, frameTick)
		if err != nil {
			return err
		}
		svg = export.FrameToSVG(frame, colors, meta.Width, meta.Height)
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", outFile)
	return nil
}

func pickFrame(frames []sim.Frame, tick int) (sim.Frame, error) {
	if tick < 0 {
		return frames[len(frames)-1], nil
	}
	for _, f := range frames {
		if f.Tick == tick {
			return f, nil
		}
	}
	return sim.Frame{}, fmt.Errorf("no frame recorded at tick %d", tick)
}

func sweepGravity(cmd *cobra.Command, args []string) error {
	if len(sweepGs) == 0 {
		return errNoSweepValues
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := exp.Sweep(ctx, sweepGs)
	if err != nil {
		return err
	}

	fmt.Printf("sweep of %s over %d values in %v\n\n", cfg.Scenario, len(sweepGs), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	names := sortedKeys(results[0].Metrics)
	fmt.Fprint(w, "G")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)

	for i, r := range results {
		fmt.Fprintf(w, "%g", sweepGs[i])
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4g", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

func benchRing(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Scenario = "ring"
	cfg.Seed = 42
	cfg.Run.Ticks = benchTicks
	cfg.Physics.MaxBodies = nbody.DefaultMaxBodies

	fmt.Printf("benchmarking ring, %d ticks\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range benchSizes {
		cfg.RingCount = n
		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return err
		}
		out, err := exp.Run(context.Background())
		if err != nil {
			return err
		}

		perSec := float64(out.Result.TicksTaken) / out.Elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, out.Result.TicksTaken, out.Elapsed.Round(time.Microsecond), perSec)
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	value, err := seriesFunc(analyzeSeries)
	if err != nil {
		return err
	}

	interval := analysis.SampleInterval(frames)
	fmt.Printf("run: %s (%s), %d samples every %g\n\n", meta.ID, meta.Scenario, len(frames), interval)

	for body := 0; body < meta.Bodies && body < 6; body++ {
		data := analysis.Series(frames, body, value)
		ps, err := analysis.PowerSpectrum(data)
		if err != nil {
			fmt.Printf("body %d: %v\n\n", body, err)
			continue
		}
		period, ok, _ := analysis.DominantPeriod(data, interval)

		caption := fmt.Sprintf("body %d %s power spectrum, no dominant period", body, analyzeSeries)
		if ok {
			caption = fmt.Sprintf("body %d %s power spectrum, dominant period %.4g", body, analyzeSeries, period)
		}
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}
	return nil
}

// parseVary turns name=v1,v2 flags into grid search axes.
func parseVary(flags []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(flags))
	ranges := make([][]float64, 0, len(flags))
	for _, f := range flags {
		name, list, ok := strings.Cut(f, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("bad --vary %q, want name=v1,v2", f)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad --vary %q: %w", f, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func searchParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseVary(vary)
	if err != nil {
		return err
	}
	if err := metrics.Check(searchMetric); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, ranges)
	logger.Info("searching", "scenario", cfg.Scenario, "runs", gs.Size(), "metric", searchMetric)

	start := time.Now()
	best, value, err := gs.Search(ctx, func(p map[string]float64) (*experiment.Experiment, error) {
		c, err := optim.Apply(cfg, p)
		if err != nil {
			return nil, err
		}
		logger.Debug("trying", "params", optim.Describe(p))
		return experiment.New(c, logger.With("params", optim.Describe(p)))
	}, searchMetric)
	if err != nil {
		return err
	}

	fmt.Printf("searched %d runs in %v\n", gs.Size(), time.Since(start))
	fmt.Printf("best: %s\n", optim.Describe(best))
	fmt.Printf("%s: %.6g\n", searchMetric, value)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	base, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunBatch(ctx, batch, base, st, logger)
	for _, r := range results {
		fmt.Printf("step %d: %s (%d ticks, %v)\n", r.Step, r.RunID, r.Outcome.Result.TicksTaken, r.Outcome.Elapsed)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, cfg, trials, trialMetric, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRIAL\tSEED\tSTABLE\t%s\n", strings.ToUpper(trialMetric))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%v\t%.4g\n", r.TrialID, r.Seed, r.Stable, r.Metric)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, name := range config.ListScenarios() {
		sc, _ := config.GetScenario(name)
		fmt.Fprintf(w, "%s\t%s\n", sc.Name, sc.Description)
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
