package physics

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min, Max float64
}

// Fixed returns the degenerate range [v, v].
func Fixed(v float64) Range { return Range{v, v} }

func (r Range) valid() bool { return r.Min <= r.Max }

// Ranges bound the randomized initial conditions.
type Ranges struct {
	Radius Range
	Mass   Range
	// Speed holds the per-axis speed magnitude; the sign is random.
	// The last entry repeats for axes beyond len(Speed).
	Speed []Range
	// RandomColor picks a random color per body; otherwise bodies are white.
	RandomColor bool
	// MaxPlacementAttempts bounds the retries spent looking for a spot that
	// does not overlap earlier bodies. Zero places without checking.
	MaxPlacementAttempts int
}

// Spawner draws bodies from a caller-supplied random source, so a seed fully
// determines the initial state.
type Spawner struct {
	rng    *rand.Rand
	ranges Ranges
}

func NewSpawner(rng *rand.Rand, ranges Ranges) *Spawner {
	return &Spawner{rng: rng, ranges: ranges}
}

func (s *Spawner) uniform(r Range) float64 {
	return r.Min + (r.Max-r.Min)*s.rng.Float64()
}

func (s *Spawner) sign() float64 {
	if s.rng.Intn(2) == 0 {
		return 1
	}
	return -1
}

func (s *Spawner) speedRange(axis int) Range {
	if len(s.ranges.Speed) == 0 {
		return Range{}
	}
	if axis < len(s.ranges.Speed) {
		return s.ranges.Speed[axis]
	}
	return s.ranges.Speed[len(s.ranges.Speed)-1]
}

func (s *Spawner) validate(minHalf float64) error {
	r := s.ranges
	if !r.Radius.valid() || !(r.Radius.Min > 0) {
		return fmt.Errorf("radius range %v: %w", r.Radius, dynamo.ErrInvalidRadius)
	}
	if !r.Mass.valid() || !(r.Mass.Min > 0) {
		return fmt.Errorf("mass range %v: %w", r.Mass, dynamo.ErrInvalidMass)
	}
	if r.Radius.Max >= minHalf {
		return fmt.Errorf("radius %v does not fit half-extent %v: %w", r.Radius.Max, minHalf, dynamo.ErrInvalidBoundary)
	}
	for axis, sr := range r.Speed {
		if !sr.valid() {
			return fmt.Errorf("axis %d speed range %v is inverted", axis, sr)
		}
	}
	return nil
}

// Spawn creates n bodies inside the boundary. IDs are assigned 0..n-1.
func Spawn[V dynamo.Vector[V]](s *Spawner, n int, boundary Boundary[V], mat Material[V]) ([]*Body[V], error) {
	half := dynamo.Axes(boundary.HalfExtents())
	minHalf := half[0]
	for _, h := range half[1:] {
		minHalf = min(minHalf, h)
	}
	if err := s.validate(minHalf); err != nil {
		return nil, err
	}

	bodies := make([]*Body[V], 0, n)
	for id := 0; id < n; id++ {
		radius := s.uniform(s.ranges.Radius)
		mass := s.uniform(s.ranges.Mass)

		pos := place(s, bodies, half, radius)

		vel := make([]float64, len(half))
		for axis := range vel {
			vel[axis] = s.sign() * s.uniform(s.speedRange(axis))
		}

		b, err := NewBody(pos, dynamo.FromAxes[V](vel), mass, radius, mat)
		if err != nil {
			return nil, err
		}
		b.ID = id
		if s.ranges.RandomColor {
			b.Color = dynamo.Color{R: s.rng.Float64(), G: s.rng.Float64(), B: s.rng.Float64()}
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func (s *Spawner) candidate(half []float64, radius float64) []float64 {
	p := make([]float64, len(half))
	for axis, h := range half {
		lim := h - radius
		p[axis] = s.uniform(Range{-lim, lim})
	}
	return p
}

func place[V dynamo.Vector[V]](s *Spawner, placed []*Body[V], half []float64, radius float64) V {
	pos := dynamo.FromAxes[V](s.candidate(half, radius))
	for attempt := 1; attempt < s.ranges.MaxPlacementAttempts; attempt++ {
		if !overlapsAny(placed, pos, radius) {
			break
		}
		pos = dynamo.FromAxes[V](s.candidate(half, radius))
	}
	return pos
}

func overlapsAny[V dynamo.Vector[V]](placed []*Body[V], pos V, radius float64) bool {
	for _, b := range placed {
		if b.Position.Sub(pos).Len() < b.Radius+radius {
			return true
		}
	}
	return false
}
