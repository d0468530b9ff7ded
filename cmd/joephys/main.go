package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/joephys/joephys/internal/clock"
	"github.com/joephys/joephys/internal/config"
	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/export"
	"github.com/joephys/joephys/internal/gui"
	"github.com/joephys/joephys/internal/sim"
	"github.com/joephys/joephys/internal/storage"
	"github.com/joephys/joephys/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	// run overrides
	duration      float64
	realtime      bool
	snapshotEvery int
	noSave        bool
	// live view
	theme string
	// exports
	outFile  string
	svgWidth int
	chart    string
	force    bool
)

// app is everything a command needs, built once from the flags.
type app struct {
	cfg    *config.Config
	preset string
	logger *log.Logger
	store  *storage.Store
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "joephys",
		Short:         "2D Verlet particle sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".joephys", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "apply a preset on top of the configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace steps to the wall clock")
	runCmd.Flags().IntVar(&snapshotEvery, "snapshot-every", config.DefaultSnapshotEvery, "record a frame every n steps (0 disables)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot particle count and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final scene (or a chart) of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width in pixels")
	exportSVGCmd.Flags().StringVar(&chart, "chart", "", "plot a series instead of the scene (particles, kinetic, potential, bounces)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run presets side by side and compare their metrics",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportSVGCmd, exportJSONCmd, compareCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "joephys",
		ReportTimestamp: true,
	}), nil
}

// loadConfig resolves the configuration: defaults, then the config file,
// then the preset.
func loadConfig() (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		cfg, name = loaded, "custom"
	}
	if preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			_, err := config.LoadPreset(preset)
			return nil, "", err
		}
		apply(cfg)
		name = preset
	}
	return cfg, name, nil
}

func newApp() (*app, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	cfg, name, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, preset: name, logger: logger, store: storage.New(dataDir)}, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("time") {
		a.cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("realtime") {
		a.cfg.Run.Realtime = realtime
	}
	if cmd.Flags().Changed("snapshot-every") {
		a.cfg.Run.SnapshotEvery = snapshotEvery
	}

	runner, runCfg, err := sim.FromConfig(a.cfg)
	if err != nil {
		return err
	}
	runner.SetLogger(a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a.logger.Info("starting run", "preset", a.preset, "hertz", a.cfg.SimulationHertz, "duration", runCfg.Duration, "realtime", runCfg.Realtime)
	result, err := runner.Run(ctx, runCfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		a.logger.Warn("run interrupted", "steps", result.StepsTaken)
	}

	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("particles: %d (spawned %d)\n", len(result.Final), result.Spawned)
	fmt.Printf("elapsed: %s\n", result.Elapsed)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %-14s %12.4f\n", name, result.Metrics[name])
	}

	if noSave {
		return nil
	}
	if err := a.store.Init(); err != nil {
		return err
	}
	runID, err := a.store.Save(a.preset, a.cfg, result)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runLive(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	m, err := viz.NewModel(a.cfg, clock.NewMonotonic())
	if err != nil {
		return err
	}
	m.SetTheme(theme)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	win, err := gui.NewApp(a.cfg, a.logger)
	if err != nil {
		return err
	}
	win.Run()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tHZ\tSTEPS\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Hertz,
			run.Steps,
			run.Particles,
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
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to plot (snapshot_every was 0?)")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	for _, name := range []string{"particles", "kinetic", "potential"} {
		values, err := series(frames, name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// chartNames lists the frame columns that series understands.
var chartNames = []string{"particles", "kinetic", "potential", "bounces"}

// series extracts one column of the frame summaries.
func series(frames []sim.Frame, name string) ([]float64, error) {
	var column func(sim.Frame) float64
	switch name {
	case "particles":
		column = func(f sim.Frame) float64 { return float64(f.Particles) }
	case "kinetic":
		column = func(f sim.Frame) float64 { return f.Kinetic }
	case "potential":
		column = func(f sim.Frame) float64 { return f.Potential }
	case "bounces":
		column = func(f sim.Frame) float64 { return float64(f.Bounces) }
	default:
		return nil, fmt.Errorf("unknown chart %q (want one of %s)", name, strings.Join(chartNames, ", "))
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = column(f)
	}
	return out, nil
}

// chartSVG renders one frame column as an SVG line chart.
func chartSVG(frames []sim.Frame, name string, width int) (string, error) {
	values, err := series(frames, name)
	if err != nil {
		return "", err
	}
	points := make([]export.Point, len(frames))
	for i, f := range frames {
		points[i] = export.Point{X: f.Time, Y: values[i]}
	}
	svg := export.SeriesToSVG(points, width, width/2, "#eb475e")
	if svg == "" {
		return "", fmt.Errorf("chart %q needs at least 2 frames, run has %d", name, len(frames))
	}
	return svg, nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	configs := make([]*config.Config, len(args))
	for i, name := range args {
		cfg, err := config.LoadPreset(name)
		if err != nil {
			return err
		}
		cfg.Run.Duration = duration
		cfg.Run.SnapshotEvery = 0
		configs[i] = cfg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.NewBatch(configs, logger).Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\tPARTICLES\tBOUNCES\tMAX SPEED\tENERGY DRIFT\tTIME (ms)")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f\t%.1f\t%.2e\t%.2f\n",
			args[i],
			r.StepsTaken,
			len(r.Final),
			r.Metrics["bounces"],
			r.Metrics["max_speed"],
			r.Metrics["energy_drift"],
			float64(r.Elapsed.Microseconds())/1000,
		)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if chart != "" {
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		svg, err = chartSVG(frames, chart, svgWidth)
		if err != nil {
			return err
		}
	} else {
		circles, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		cfg := meta.Config
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
		bounds := cfg.Settings().Constraint
		svg = export.SceneToSVG(circles, bounds, svgWidth, dynamo.RGBA(0.92, 0.28, 0.37, 1))
	}

	if outFile == "" {
		fmt.Print(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	circles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	data := export.ExportData{
		RunID:     meta.ID,
		Preset:    meta.Preset,
		Hertz:     meta.Hertz,
		Duration:  meta.Duration,
		Frames:    frames,
		Particles: circles,
		Metrics:   meta.Metrics,
	}
	if outFile == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	return export.ExportJSON(outFile, data)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "joephys.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
