package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ballsim/internal/sim"
)

type ExportData struct {
	Variant     string             `json:"variant"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Dim         int                `json:"dim"`
	HalfExtents []float64          `json:"half_extents,omitempty"`
	Steps       int                `json:"steps"`
	Bodies      []sim.BodyInfo     `json:"bodies"`
	Times       []float64          `json:"times"`
	Frames      [][]ExportBody     `json:"frames"`
	Energy      []float64          `json:"kinetic_energy"`
	Momentum    []float64          `json:"momentum"`
	Collisions  []int              `json:"collisions"`
	Metrics     map[string]float64 `json:"metrics"`
}

type ExportBody struct {
	ID       int       `json:"id"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
}

func exportData(meta *RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		Variant:     meta.Variant,
		Dt:          meta.Dt,
		Duration:    meta.Duration,
		Dim:         result.Dim,
		HalfExtents: meta.HalfExtents,
		Steps:       len(result.Times),
		Bodies:      result.Bodies,
		Times:       result.Times,
		Frames:      make([][]ExportBody, len(result.Samples)),
		Energy:      result.Energy,
		Momentum:    result.Momentum,
		Collisions:  result.Collisions,
		Metrics:     result.Metrics,
	}

	for i, samples := range result.Samples {
		frame := make([]ExportBody, len(samples))
		for j, smp := range samples {
			frame[j] = ExportBody{ID: smp.Body, Position: smp.Position, Velocity: smp.Velocity}
		}
		data.Frames[i] = frame
	}
	return data
}

func ExportJSON(path string, meta *RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSONTo(file, meta, result)
}

// ExportJSONTo writes the run to w, e.g. os.Stdout.
func ExportJSONTo(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, result))
}
