package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

type Experiment struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// RunConfig derives the headless run parameters from the config.
func (e *Experiment) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		RecordEvery:   e.cfg.RecordEvery,
		ValidateState: true,
	}
}

// Run builds the simulation for the configured variant, attaches the
// standard metrics and runs it headless.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	switch e.cfg.Dims() {
	case 2:
		return runOnce[mgl64.Vec2](ctx, e.cfg, e.RunConfig())
	case 3:
		return runOnce[mgl64.Vec3](ctx, e.cfg, e.RunConfig())
	}
	return nil, fmt.Errorf("%d dimensions: %w", e.cfg.Dims(), dynamo.ErrDimensionMismatch)
}

// Ensemble runs n copies seeded cfg.Seed, cfg.Seed+1, ... in parallel.
func (e *Experiment) Ensemble(ctx context.Context, n int) ([]*sim.Result, error) {
	switch e.cfg.Dims() {
	case 2:
		return runEnsemble[mgl64.Vec2](ctx, e.cfg, e.RunConfig(), n)
	case 3:
		return runEnsemble[mgl64.Vec3](ctx, e.cfg, e.RunConfig(), n)
	}
	return nil, fmt.Errorf("%d dimensions: %w", e.cfg.Dims(), dynamo.ErrDimensionMismatch)
}

func runOnce[V dynamo.Vector[V]](ctx context.Context, cfg *config.Config, rc sim.RunConfig) (*sim.Result, error) {
	s, err := BuildWithMetrics[V](cfg, cfg.Seed)
	if err != nil {
		return nil, err
	}
	return s.RunFor(ctx, rc)
}

func runEnsemble[V dynamo.Vector[V]](ctx context.Context, cfg *config.Config, rc sim.RunConfig, n int) ([]*sim.Result, error) {
	build := func(seed int64) (*sim.Simulation[V], error) {
		return BuildWithMetrics[V](cfg, seed)
	}
	return sim.NewEnsemble(build, n, cfg.Seed).Run(ctx, rc)
}

// BuildWithMetrics is Build with metrics.Standard attached.
func BuildWithMetrics[V dynamo.Vector[V]](cfg *config.Config, seed int64) (*sim.Simulation[V], error) {
	s, err := Build[V](cfg, seed)
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Standard[V]() {
		s.AddMetric(m)
	}
	return s, nil
}

// Build turns a config into a simulation. Bodies come from FixedBodies when
// present, otherwise from a Spawner seeded with seed.
func Build[V dynamo.Vector[V]](cfg *config.Config, seed int64) (*sim.Simulation[V], error) {
	if dynamo.Dim[V]() != cfg.Dims() {
		return nil, fmt.Errorf("variant %s is %dD, simulation is %dD: %w",
			cfg.Variant, cfg.Dims(), dynamo.Dim[V](), dynamo.ErrDimensionMismatch)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	boundary, err := physics.NewBoundary(dynamo.FromAxes[V](cfg.HalfExtents()))
	if err != nil {
		return nil, err
	}
	mat := physics.Material[V]{
		Restitution: cfg.Material.Restitution,
		Damping:     cfg.Material.Damping,
		Gravity:     dynamo.FromAxes[V](cfg.Material.Gravity),
	}

	var bodies []*physics.Body[V]
	if len(cfg.FixedBodies) > 0 {
		bodies, err = fixedBodies(cfg.FixedBodies, mat)
	} else {
		spawner := physics.NewSpawner(rand.New(rand.NewSource(seed)), ranges(cfg.Spawn))
		bodies, err = physics.Spawn(spawner, cfg.Bodies, boundary, mat)
	}
	if err != nil {
		return nil, err
	}

	return sim.New(boundary, bodies, cfg.CollisionsArmed)
}

func fixedBodies[V dynamo.Vector[V]](specs []config.BodyConfig, mat physics.Material[V]) ([]*physics.Body[V], error) {
	bodies := make([]*physics.Body[V], 0, len(specs))
	for i, bc := range specs {
		b, err := physics.NewBody(dynamo.FromAxes[V](bc.Position), dynamo.FromAxes[V](bc.Velocity), bc.Mass, bc.Radius, mat)
		if err != nil {
			return nil, fmt.Errorf("fixed body %d: %w", i, err)
		}
		b.ID = i
		if bc.Color != "" {
			if b.Color, err = dynamo.ParseHex(bc.Color); err != nil {
				return nil, err
			}
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func ranges(sc config.SpawnConfig) physics.Ranges {
	speed := make([]physics.Range, len(sc.Speed))
	for i, r := range sc.Speed {
		speed[i] = physics.Range{Min: r.Min, Max: r.Max}
	}
	return physics.Ranges{
		Radius:               physics.Range{Min: sc.Radius.Min, Max: sc.Radius.Max},
		Mass:                 physics.Range{Min: sc.Mass.Min, Max: sc.Mass.Max},
		Speed:                speed,
		RandomColor:          sc.RandomColor,
		MaxPlacementAttempts: sc.MaxPlacementAttempts,
	}
}
