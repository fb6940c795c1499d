package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ballsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	seriesFile   = "series.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Variant     string
	Preset      string
	Seed        int64
	Dt          float64
	Duration    float64
	HalfExtents []float64
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Variant     string             `json:"variant"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Dim         int                `json:"dim"`
	HalfExtents []float64          `json:"half_extents"`
	Frames      int                `json:"frames"`
	Collisions  int                `json:"collisions"`
	Bodies      []sim.BodyInfo     `json:"bodies"`
	Metrics     map[string]float64 `json:"metrics"`
	Errors      []string           `json:"errors,omitempty"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir := s.newRunDir(info.Variant, now)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Variant:     info.Variant,
		Preset:      info.Preset,
		Timestamp:   now,
		Seed:        info.Seed,
		Dt:          info.Dt,
		Duration:    info.Duration,
		Dim:         result.Dim,
		HalfExtents: info.HalfExtents,
		Frames:      result.FramesRun,
		Collisions:  result.TotalCollisions,
		Bodies:      result.Bodies,
		Metrics:     result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, framesFile), func(f *os.File) error {
		return WriteFrames(f, result)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, seriesFile), func(f *os.File) error {
		return WriteSeries(f, result)
	}); err != nil {
		return "", err
	}

	log.Debug("run saved", "id", runID, "dir", runDir)
	return runID, nil
}

func (s *Store) newRunDir(variant string, now time.Time) (string, string) {
	runID := fmt.Sprintf("%s_%d", variant, now.Unix())
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return runID, dir
		}
		runID = fmt.Sprintf("%s_%d_%d", variant, now.Unix(), i)
	}
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			log.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadResult rebuilds the recorded history of a run from its CSV files.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Dim:             meta.Dim,
		Bodies:          meta.Bodies,
		FramesRun:       meta.Frames,
		TotalCollisions: meta.Collisions,
		Metrics:         meta.Metrics,
	}

	if err := readFile(filepath.Join(s.baseDir, runID, framesFile), func(f *os.File) error {
		return ReadFrames(f, result)
	}); err != nil {
		return nil, nil, err
	}
	if err := readFile(filepath.Join(s.baseDir, runID, seriesFile), func(f *os.File) error {
		return ReadSeries(f, result)
	}); err != nil {
		return nil, nil, err
	}

	return meta, result, nil
}

// LoadSeries returns the per-sample time, kinetic energy, momentum and
// cumulative collision columns.
func (s *Store) LoadSeries(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	result := &sim.Result{Dim: meta.Dim, Metrics: meta.Metrics}
	err = readFile(filepath.Join(s.baseDir, runID, seriesFile), func(f *os.File) error {
		return ReadSeries(f, result)
	})
	return result, err
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readFile(path string, fn func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
