package sim

import (
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
)

// Phase is the lifecycle state of a Simulation.
type Phase int

const (
	Running Phase = iota
	Closing
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Closing:
		return "closing"
	}
	return "unknown"
}

// Input is what the platform reports once per frame.
type Input struct {
	Close         bool
	ArmCollisions bool
}

type Platform interface {
	Poll() Input
}

// Clock reports the seconds elapsed since its previous call.
type Clock interface {
	Elapsed() float64
}

type Renderer[V dynamo.Vector[V]] interface {
	Render(view View[V])
}

type Observer[V dynamo.Vector[V]] interface {
	OnFrame(view View[V])
}

type Metric[V dynamo.Vector[V]] interface {
	Name() string
	Observe(view View[V])
	Value() float64
	Reset()
}

// Baseliner is implemented by metrics that want the state before the first
// frame of a RunFor. It is called right after Reset.
type Baseliner[V dynamo.Vector[V]] interface {
	Baseline(view View[V])
}

// FrameStats summarises one frame. Index counts completed frames from 1.
type FrameStats struct {
	Index          int
	Dt             float64
	Time           float64
	PairCollisions int
	WallHits       int
}

// View is a read-only snapshot handed to renderers, observers and metrics.
// Bodies is reused by the next frame; copy it to keep it.
type View[V dynamo.Vector[V]] struct {
	Bodies   []physics.Body[V]
	Boundary physics.Boundary[V]
	Stats    FrameStats
	Phase    Phase
	Armed    bool
}

// KineticEnergy sums the kinetic energy of every body.
func (v View[V]) KineticEnergy() float64 {
	ke := 0.0
	for i := range v.Bodies {
		ke += v.Bodies[i].KineticEnergy()
	}
	return ke
}

// Momentum sums the linear momentum of every body.
func (v View[V]) Momentum() V {
	var p V
	for i := range v.Bodies {
		p = p.Add(v.Bodies[i].Momentum())
	}
	return p
}

// RunConfig drives a headless fixed-step run.
type RunConfig struct {
	Dt       float64
	Duration float64
	// RecordEvery samples body state every N frames; 0 or 1 records all.
	RecordEvery   int
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Dt:          1.0 / 60,
		Duration:    10,
		RecordEvery: 1,
	}
}

// Sample is the state of one body at a recorded frame.
type Sample struct {
	Body     int
	Position []float64
	Velocity []float64
}

// BodyInfo is the part of a body that does not change during a run.
type BodyInfo struct {
	ID     int     `json:"id"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// Result holds a headless run. Slices indexed by recorded frame line up.
type Result struct {
	Dim        int
	Bodies     []BodyInfo
	Times      []float64
	Frames     []int
	Samples    [][]Sample
	Energy     []float64
	Momentum   []float64
	Collisions []int

	FramesRun       int
	TotalCollisions int
	Metrics         map[string]float64
	Errors          []error
}
