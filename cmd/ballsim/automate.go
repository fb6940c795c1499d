package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/automation"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/optim"
	"github.com/san-kum/ballsim/internal/storage"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	gridParams []string
	metricName string
	maximize   bool
	trials     int
)

func automationCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a YAML scenario, storing those with save_as",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [variant]",
		Short: "run a variant across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter to sweep ("+strings.Join(config.Params, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune [variant]",
		Short: "grid search parameters for the best metric value",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	simFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to optimise")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [variant]",
		Short: "check containment across many seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	simFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")

	return []*cobra.Command{scenarioCmd, sweepCmd, tuneCmd, monteCarloCmd}
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, runErr := automation.RunScenario(ctx, sc, experiment.NewRegistry())

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tVARIANT\tFRAMES\tCOLLISIONS\tENERGY DRIFT\tSAVED")
	for i, r := range results {
		saved := "-"
		if r.Step.SaveAs != "" {
			id, err := st.Save(storage.RunInfo{
				Variant:     r.Config.Variant,
				Preset:      r.Step.SaveAs,
				Seed:        r.Config.Seed,
				Dt:          r.Config.Dt,
				Duration:    r.Config.Duration,
				HalfExtents: r.Config.HalfExtents(),
			}, r.Result)
			if err != nil {
				return err
			}
			saved = r.Step.SaveAs + " -> " + id
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.4f\t%s\n",
			i+1, r.Config.Variant, r.Result.FramesRun, r.Result.TotalCollisions,
			r.Result.Metrics["energy_drift"], saved)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, variantArg(args))
	if err != nil {
		return err
	}
	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("sweeping %s of %s from %g to %g in %d steps\n\n", sweepParam, cfg.Variant, sweepMin, sweepMax, sweepSteps)
	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		ParamMin: sweepMin,
		ParamMax: sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOLLISIONS\tENERGY LOSS\tMEAN SPEED\tCONTAINED\n", strings.ToUpper(sweepParam))
	loss := make([]float64, len(results))
	for i, r := range results {
		loss[i] = r.Summary.EnergyLoss * 100
		fmt.Fprintf(w, "%.4g\t%d\t%.2f%%\t%.3f\t%v\n",
			r.ParamValue, r.Summary.Collisions, loss[i], r.Summary.MeanSpeed,
			r.Metrics["containment"] == 1 && len(r.Errors) == 0)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(loss) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(loss,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("energy loss % by "+sweepParam),
		))
	}
	return nil
}

// parseGrid turns name=v1,v2 flags into the parameter list of a grid search.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad --grid %q, want name=v1,v2", entry)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad --grid value %q: %w", s, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, variantArg(args))
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to search, pass at least one --grid")
	}
	ctx, stop := interruptible()
	defer stop()

	search := optim.NewGridSearch(names, ranges)
	search.Maximize = maximize
	log.Info("grid search", "variant", cfg.Variant, "metric", metricName, "params", names)

	params, best, err := search.Search(ctx, cfg, metricName)
	if err != nil {
		return err
	}

	sort.Strings(names)
	fmt.Printf("best %s: %.6f\n", metricName, best)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, params[name])
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, variantArg(args))
	if err != nil {
		return err
	}
	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("running %d seeds of %s from seed %d...\n", trials, cfg.Variant, cfg.Seed)
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{Base: cfg, NumTrials: trials})
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.Contained {
			log.Warn("body left the box", "seed", r.Seed)
		}
	}
	contained, escaped := automation.MonteCarloStats(results)
	fmt.Printf("contained: %d\nescaped: %d\n", contained, escaped)
	return nil
}
