package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/storage"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	variant := variantArg(args)
	cfg, err := resolveConfig(cmd, variant)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg)
	if ensemble > 1 {
		return runEnsemble(ctx, exp, ensemble)
	}

	fmt.Printf("running %s with %d bodies...\n", variant, cfg.BodyCount())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		Variant:     variant,
		Preset:      preset,
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		HalfExtents: cfg.HalfExtents(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Printf("collisions: %d\n", result.TotalCollisions)
	for _, e := range result.Errors {
		log.Warn("run stopped early", "err", e)
	}
	printMetrics(result.Metrics)
	return nil
}

func runEnsemble(ctx context.Context, exp *experiment.Experiment, n int) error {
	cfg := exp.Config()
	fmt.Printf("running %d seeds of %s from seed %d...\n", n, cfg.Variant, cfg.Seed)
	start := time.Now()

	results, err := exp.Ensemble(ctx, n)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tCOLLISIONS\tE0\tE1\tLOSS")
	for i, r := range results {
		s := analysis.Summarize(r)
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2f\t%.2f\t%.1f%%\n",
			cfg.Seed+int64(i), r.FramesRun, r.TotalCollisions,
			s.InitialEnergy, s.FinalEnergy, s.EnergyLoss*100)
	}
	return w.Flush()
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func benchVariant(cmd *cobra.Command, args []string) error {
	variant := variantArg(args)
	base, err := experiment.NewRegistry().Resolve(variant, "")
	if err != nil {
		return err
	}

	counts := []int{4, 16, 64, 128}
	fmt.Printf("benchmarking %s over %.1fs simulated\n\n", variant, benchTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tFRAMES\tCOLLISIONS\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		cfg := base.Clone()
		cfg.Bodies = n
		cfg.FixedBodies = nil
		cfg.Duration = benchTime
		cfg.RecordEvery = max(1, int(benchTime/cfg.Dt))
		if cfg.Variant == config.Container3D {
			cfg.CollisionsArmed = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		start := time.Now()
		result, err := experiment.New(cfg).Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			n, result.FramesRun, result.TotalCollisions, elapsed.Round(time.Millisecond),
			float64(result.FramesRun)/elapsed.Seconds())
	}
	return w.Flush()
}
