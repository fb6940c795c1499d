package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
)

var ErrClosed = errors.New("sim: simulation is closing")

// placementTolerance absorbs rounding in spawn positions that touch a wall.
const placementTolerance = 1e-9

type Simulation[V dynamo.Vector[V]] struct {
	bodies   []*physics.Body[V]
	boundary physics.Boundary[V]

	phase Phase
	armed bool

	frame      int
	time       float64
	collisions int
	last       FrameStats

	snapshot  []physics.Body[V]
	metrics   []Metric[V]
	observers []Observer[V]
}

// New validates the bodies against the boundary. Every body must start
// inside it. When armed is false pair
// collisions stay off until an Input arms them.
func New[V dynamo.Vector[V]](boundary physics.Boundary[V], bodies []*physics.Body[V], armed bool) (*Simulation[V], error) {
	if dynamo.IsZero(boundary.HalfExtents()) {
		return nil, fmt.Errorf("zero boundary: %w", dynamo.ErrInvalidBoundary)
	}
	for _, b := range bodies {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if !boundary.Fits(b.Radius) {
			return nil, fmt.Errorf("body %d radius %v: %w", b.ID, b.Radius, dynamo.ErrInvalidBoundary)
		}
		if !dynamo.Finite(b.Position) || !dynamo.Finite(b.Velocity) {
			return nil, fmt.Errorf("body %d: %w", b.ID, dynamo.ErrInvalidState)
		}
		if !boundary.Contains(b.Position, b.Radius, placementTolerance) {
			return nil, fmt.Errorf("body %d at %v lies outside the box: %w", b.ID, b.Position, dynamo.ErrInvalidBoundary)
		}
	}

	return &Simulation[V]{
		bodies:   bodies,
		boundary: boundary,
		armed:    armed,
		snapshot: make([]physics.Body[V], len(bodies)),
	}, nil
}

func (s *Simulation[V]) AddMetric(m Metric[V])     { s.metrics = append(s.metrics, m) }
func (s *Simulation[V]) AddObserver(o Observer[V]) { s.observers = append(s.observers, o) }

func (s *Simulation[V]) Phase() Phase                  { return s.phase }
func (s *Simulation[V]) Armed() bool                   { return s.armed }
func (s *Simulation[V]) Bodies() []*physics.Body[V]    { return s.bodies }
func (s *Simulation[V]) Boundary() physics.Boundary[V] { return s.boundary }
func (s *Simulation[V]) FrameCount() int               { return s.frame }
func (s *Simulation[V]) Time() float64                 { return s.time }
func (s *Simulation[V]) Collisions() int               { return s.collisions }
func (s *Simulation[V]) Last() FrameStats              { return s.last }

// Frame advances the simulation by one frame of dt seconds.
func (s *Simulation[V]) Frame(in Input, dt float64) FrameStats {
	if s.phase == Closing {
		return s.last
	}
	if in.Close {
		s.phase = Closing
		log.Debug("simulation closing", "frame", s.frame, "t", s.time)
		return s.last
	}
	if in.ArmCollisions && !s.armed {
		s.armed = true
		log.Info("collisions armed", "frame", s.frame)
	}

	stats := FrameStats{Dt: dt}
	if s.armed {
		stats.PairCollisions = physics.ResolveAll(s.bodies)
	}
	for _, b := range s.bodies {
		stats.WallHits += b.Integrate(dt, s.boundary).Count()
	}

	s.frame++
	s.time += dt
	s.collisions += stats.PairCollisions
	stats.Index = s.frame
	stats.Time = s.time
	s.last = stats

	if len(s.metrics) > 0 || len(s.observers) > 0 {
		view := s.View()
		for _, m := range s.metrics {
			m.Observe(view)
		}
		for _, o := range s.observers {
			o.OnFrame(view)
		}
	}
	return stats
}

// View copies the current body state into the snapshot buffer.
func (s *Simulation[V]) View() View[V] {
	for i, b := range s.bodies {
		s.snapshot[i] = *b
	}
	return View[V]{
		Bodies:   s.snapshot,
		Boundary: s.boundary,
		Stats:    s.last,
		Phase:    s.phase,
		Armed:    s.armed,
	}
}

// Run drives frames from a platform and clock until the platform asks to
// close or ctx is done.
func (s *Simulation[V]) Run(ctx context.Context, platform Platform, clock Clock, renderer Renderer[V]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		in := platform.Poll()
		dt := clock.Elapsed()
		s.Frame(in, dt)
		if s.phase == Closing {
			return nil
		}
		renderer.Render(s.View())
	}
}

// RunFor advances the simulation with a fixed step and records its history.
func (s *Simulation[V]) RunFor(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}
	if s.phase == Closing {
		return nil, ErrClosed
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	every := max(cfg.RecordEvery, 1)
	capacity := steps/every + 1

	result := &Result{
		Dim:        dynamo.Dim[V](),
		Times:      make([]float64, 0, capacity),
		Frames:     make([]int, 0, capacity),
		Samples:    make([][]Sample, 0, capacity),
		Energy:     make([]float64, 0, capacity),
		Momentum:   make([]float64, 0, capacity),
		Collisions: make([]int, 0, capacity),
		Metrics:    make(map[string]float64),
	}
	for _, b := range s.bodies {
		result.Bodies = append(result.Bodies, BodyInfo{ID: b.ID, Mass: b.Mass, Radius: b.Radius, Color: b.Color.Hex()})
	}

	start := s.View()
	for _, m := range s.metrics {
		m.Reset()
		if b, ok := m.(Baseliner[V]); ok {
			b.Baseline(start)
		}
	}

	s.record(result)
	log.Debug("headless run", "steps", steps, "dt", cfg.Dt, "bodies", len(s.bodies))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Frame(Input{}, cfg.Dt)
		result.FramesRun++

		if cfg.ValidateState {
			if err := s.validateState(); err != nil {
				result.Errors = append(result.Errors, err)
				s.record(result)
				break
			}
		}

		if (i+1)%every == 0 {
			s.record(result)
		}
	}

	result.TotalCollisions = s.collisions
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulation[V]) record(r *Result) {
	view := s.View()
	samples := make([]Sample, len(view.Bodies))
	for i, b := range view.Bodies {
		samples[i] = Sample{
			Body:     b.ID,
			Position: dynamo.Axes(b.Position),
			Velocity: dynamo.Axes(b.Velocity),
		}
	}
	r.Times = append(r.Times, s.time)
	r.Frames = append(r.Frames, s.frame)
	r.Samples = append(r.Samples, samples)
	r.Energy = append(r.Energy, view.KineticEnergy())
	r.Momentum = append(r.Momentum, view.Momentum().Len())
	r.Collisions = append(r.Collisions, s.collisions)
}

func (s *Simulation[V]) validateState() error {
	for _, b := range s.bodies {
		if !dynamo.Finite(b.Position) || !dynamo.Finite(b.Velocity) {
			return &dynamo.SimulationError{
				Frame:   s.frame,
				Time:    s.time,
				Body:    b.ID,
				Wrapped: dynamo.ErrInvalidState,
			}
		}
	}
	return nil
}

func validateRunConfig(cfg RunConfig) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record_every must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}
