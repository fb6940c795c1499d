package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
)

var (
	dataDir  string
	logLevel string

	// simulation overrides
	preset      string
	configFile  string
	seed        int64
	dt          float64
	duration    float64
	numBodies   int
	fps         int
	recordEvery int
	armed       bool
	restitution float64
	damping     float64

	// live view
	theme   string
	plain   bool
	fixedDt bool
	speed   float64
	sound   bool

	// headless
	ensemble  int
	output    string
	benchTime float64

	// analysis
	bodyIdx    int
	axis       int
	bins       int
	crossAxis  int
	series     bool
	svgWidth   int
	svgHeight  int
	fromCanvas bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ballsim",
		Short:         "bouncing ball collision simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, []string{config.Elastic2D})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run a headless simulation and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of seeds to run in parallel (not stored)")

	liveCmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "arcade", "color theme")
	liveCmd.Flags().BoolVar(&plain, "plain", false, "plain redraw instead of the full-screen view")
	liveCmd.Flags().BoolVar(&fixedDt, "fixed-dt", false, "step by a constant dt instead of wall-clock time")
	liveCmd.Flags().Float64Var(&speed, "speed", 1, "time scale")
	liveCmd.Flags().BoolVar(&sound, "sound", false, "click on collisions")

	guiCmd := &cobra.Command{
		Use:   "gui [variant]",
		Short: "watch a simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	simFlags(guiCmd)
	guiCmd.Flags().BoolVar(&sound, "sound", false, "click on collisions")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy, momentum and collisions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportCSVCmd.Flags().BoolVar(&series, "series", false, "export the energy/momentum series instead of frames")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the trajectories of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().BoolVar(&fromCanvas, "canvas", false, "render the final frame as braille dots")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary, spectrum, speed histogram and phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIdx, "body", 0, "body for the phase portrait")
	analyzeCmd.Flags().IntVar(&axis, "axis", 0, "axis for the phase portrait")
	analyzeCmd.Flags().IntVar(&crossAxis, "cross-axis", -1, "also show crossings of the plane through the centre on this axis")
	analyzeCmd.Flags().IntVar(&bins, "bins", 12, "speed histogram bins")

	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list variants and their presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [variant]",
		Short: "print the resolved configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  printConfig,
	}
	simFlags(configCmd)
	configCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	benchCmd := &cobra.Command{
		Use:   "bench [variant]",
		Short: "benchmark frames per second by body count",
		Args:  cobra.ExactArgs(1),
		RunE:  benchVariant,
	}
	benchCmd.Flags().Float64Var(&benchTime, "time", 5, "simulated seconds per case")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		exportJSONCmd, exportSVGCmd, analyzeCmd, presetsCmd, configCmd, benchCmd)
	rootCmd.AddCommand(automationCommands()...)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "start from a preset")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.IntVar(&numBodies, "bodies", 0, "number of spawned bodies")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate of the live views")
	f.IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "record every N frames")
	f.BoolVar(&armed, "armed", false, "start with pair collisions armed")
	f.Float64Var(&restitution, "restitution", 1, "body-body restitution")
	f.Float64Var(&damping, "damping", 1, "wall damping")
}

// resolveConfig layers preset < config file < flags.
func resolveConfig(cmd *cobra.Command, variant string) (*config.Config, error) {
	cfg, err := experiment.NewRegistry().Resolve(variant, preset)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if fileCfg.Variant != variant {
			return nil, fmt.Errorf("config file is for %s, not %s", fileCfg.Variant, variant)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
		cfg.FixedBodies = nil
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if flags.Changed("armed") {
		cfg.CollisionsArmed = armed
	}
	if flags.Changed("restitution") {
		cfg.Material.Restitution = restitution
	}
	if flags.Changed("damping") {
		cfg.Material.Damping = damping
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug("config resolved", "variant", cfg.Variant, "preset", preset, "file", configFile, "bodies", cfg.BodyCount())
	return cfg, nil
}

func variantArg(args []string) string {
	if len(args) == 0 {
		return config.Elastic2D
	}
	return strings.ToLower(args[0])
}
