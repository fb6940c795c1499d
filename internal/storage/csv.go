package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/ballsim/internal/sim"
)

var axisNames = []string{"x", "y", "z"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func framesHeader(dim int) []string {
	header := []string{"time", "frame", "body"}
	for _, a := range axisNames[:dim] {
		header = append(header, "p"+a)
	}
	for _, a := range axisNames[:dim] {
		header = append(header, "v"+a)
	}
	return header
}

// WriteFrames writes one row per body per recorded frame.
func WriteFrames(w io.Writer, result *sim.Result) error {
	if result.Dim < 1 || result.Dim > len(axisNames) {
		return fmt.Errorf("cannot write %d-dimensional frames", result.Dim)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(framesHeader(result.Dim)); err != nil {
		return err
	}

	row := make([]string, 0, 3+2*result.Dim)
	for i, samples := range result.Samples {
		t := formatFloat(result.Times[i])
		frame := strconv.Itoa(result.Frames[i])
		for _, smp := range samples {
			row = append(row[:0], t, frame, strconv.Itoa(smp.Body))
			for _, v := range smp.Position {
				row = append(row, formatFloat(v))
			}
			for _, v := range smp.Velocity {
				row = append(row, formatFloat(v))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadFrames fills Times, Frames and Samples of result from WriteFrames output.
func ReadFrames(r io.Reader, result *sim.Result) error {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	dim := (len(header) - 3) / 2
	if dim < 1 || len(header) != 3+2*dim {
		return fmt.Errorf("frames header %v: unexpected column count", header)
	}
	if result.Dim == 0 {
		result.Dim = dim
	}

	lastFrame := -1
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		vals := make([]float64, len(record))
		for i, field := range record {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return fmt.Errorf("frames line %d column %s: %w", line, header[i], err)
			}
		}

		frame := int(vals[1])
		if frame != lastFrame || len(result.Samples) == 0 {
			result.Times = append(result.Times, vals[0])
			result.Frames = append(result.Frames, frame)
			result.Samples = append(result.Samples, nil)
			lastFrame = frame
		}
		last := len(result.Samples) - 1
		result.Samples[last] = append(result.Samples[last], sim.Sample{
			Body:     int(vals[2]),
			Position: vals[3 : 3+dim],
			Velocity: vals[3+dim:],
		})
	}
}

// WriteSeries writes the per-sample scalar history.
func WriteSeries(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "kinetic_energy", "momentum", "collisions"}); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(at(result.Energy, i)),
			formatFloat(at(result.Momentum, i)),
			strconv.Itoa(atInt(result.Collisions, i)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadSeries fills Energy, Momentum and Collisions, and Times when empty.
func ReadSeries(r io.Reader, result *sim.Result) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return nil
	}

	fillTimes := len(result.Times) == 0
	result.Energy = make([]float64, 0, len(records)-1)
	result.Momentum = make([]float64, 0, len(records)-1)
	result.Collisions = make([]int, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != 4 {
			return fmt.Errorf("series line %d: want 4 columns, got %d", i+2, len(record))
		}
		var vals [4]float64
		for j, field := range record {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return fmt.Errorf("series line %d: %w", i+2, err)
			}
		}
		if fillTimes {
			result.Times = append(result.Times, vals[0])
		}
		result.Energy = append(result.Energy, vals[1])
		result.Momentum = append(result.Momentum, vals[2])
		result.Collisions = append(result.Collisions, int(vals[3]))
	}
	return nil
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}

func atInt(xs []int, i int) int {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}
