package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/viz"
)

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
	fmt.Fprintln(w, "ID\tVARIANT\tPRESET\tTIME\tDURATION\tDT\tBODIES\tCOLLISIONS")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Variant,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Bodies),
			run.Collisions,
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
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	collisions := make([]float64, len(series.Collisions))
	for i, c := range series.Collisions {
		collisions[i] = float64(c)
	}

	plots := []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", series.Energy},
		{"|momentum|", series.Momentum},
		{"collisions (cumulative)", collisions},
	}
	for _, p := range plots {
		if len(p.data) < 2 {
			continue
		}
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

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

// outputWriter opens --output, or stdout when it is empty.
func outputWriter() (io.Writer, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	if series {
		err = storage.WriteSeries(w, result)
	} else {
		err = storage.WriteFrames(w, result)
	}
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if output != "" {
		if err := storage.ExportJSON(output, meta, result); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", output)
		return nil
	}
	return storage.ExportJSONTo(os.Stdout, meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no frames recorded")
	}

	var svg string
	if fromCanvas {
		scene := viz.NewScene(80, 24)
		switch meta.Dim {
		case 2:
			viz.Draw(scene, finalView[mgl64.Vec2](meta, result))
		default:
			viz.Draw(scene, finalView[mgl64.Vec3](meta, result))
		}
		svg = export.CanvasToSVG(scene.Canvas, 4)
	} else {
		svg = export.TrajectoriesToSVG(result, meta.HalfExtents, svgWidth, svgHeight)
	}

	path := output
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

// finalView rebuilds a drawable snapshot of the last recorded frame.
func finalView[V dynamo.Vector[V]](meta *storage.RunMetadata, result *sim.Result) sim.View[V] {
	boundary, _ := physics.NewBoundary(dynamo.FromAxes[V](meta.HalfExtents))
	last := result.Samples[len(result.Samples)-1]
	bodies := make([]physics.Body[V], 0, len(last))
	for _, smp := range last {
		b := physics.Body[V]{
			ID:       smp.Body,
			Position: dynamo.FromAxes[V](smp.Position),
			Velocity: dynamo.FromAxes[V](smp.Velocity),
		}
		if smp.Body < len(result.Bodies) {
			b.Mass = result.Bodies[smp.Body].Mass
			b.Radius = result.Bodies[smp.Body].Radius
		}
		bodies = append(bodies, b)
	}
	return sim.View[V]{
		Bodies:   bodies,
		Boundary: boundary,
		Stats:    sim.FrameStats{Index: result.FramesRun, Time: result.Times[len(result.Times)-1]},
		Phase:    sim.Closing,
	}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Times) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("variant: %s\n\n", meta.Variant)

	s := analysis.Summarize(result)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", s.Samples)
	fmt.Fprintf(w, "duration\t%.3fs\n", s.Duration)
	fmt.Fprintf(w, "energy\t%.4f -> %.4f (%.2f%% lost)\n", s.InitialEnergy, s.FinalEnergy, s.EnergyLoss*100)
	fmt.Fprintf(w, "max |momentum|\t%.4f\n", s.MaxMomentum)
	fmt.Fprintf(w, "collisions\t%d (%.2f/s)\n", s.Collisions, s.CollisionRate)
	fmt.Fprintf(w, "speed\tmean %.3f, rms %.3f\n", s.MeanSpeed, s.RMSSpeed)
	if err := w.Flush(); err != nil {
		return err
	}

	sampleDt := (result.Times[len(result.Times)-1] - result.Times[0]) / float64(len(result.Times)-1)
	if freq, mag := analysis.DominantFrequency(result.Energy, sampleDt); freq > 0 {
		fmt.Printf("\nenergy oscillation: %.3f hz (power %.3g)\n", freq, mag)
		fmt.Printf("period: %.3f s\n", 1/freq)
	}

	hist := analysis.SpeedHistogram(result, -1, bins)
	fmt.Println("\nfinal speed distribution:")
	peak := 0
	for _, c := range hist.Counts {
		peak = max(peak, c)
	}
	for i, c := range hist.Counts {
		bar := 0
		if peak > 0 {
			bar = c * 40 / peak
		}
		fmt.Printf("  %7.3f-%-7.3f %s %d\n", hist.Edges[i], hist.Edges[i+1], strings.Repeat("█", bar), c)
	}

	portrait := analysis.PhasePortrait(result, bodyIdx, axis)
	if plot := analysis.PortraitToASCII(portrait, 60, 20); plot != "" {
		fmt.Printf("\nphase portrait: body %d, axis %d (position vs velocity)\n", bodyIdx, axis)
		fmt.Println(plot)
	}

	if crossAxis >= 0 {
		section := analysis.PlaneCrossings(result, bodyIdx, crossAxis, axis, 0)
		if section == nil {
			return fmt.Errorf("axis out of range for a %dD run", result.Dim)
		}
		fmt.Printf("\ncrossings of axis %d = 0: %d\n", crossAxis, len(section.Points))
		if plot := analysis.PortraitToASCII(section, 60, 20); plot != "" {
			fmt.Println(plot)
		}
	}

	return nil
}
