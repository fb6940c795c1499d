package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// Body is one simulated sphere (3D) or disc (2D).
type Body[V dynamo.Vector[V]] struct {
	ID       int
	Position V
	Velocity V
	Mass     float64
	Radius   float64

	// Restitution is used for body-body impacts; the pair uses the smaller
	// of the two values. 1 is perfectly elastic.
	Restitution float64
	// Damping scales the reflected velocity component on a wall bounce.
	Damping float64
	// Gravity is a constant acceleration; the zero vector disables it.
	Gravity V

	Color dynamo.Color
}

// Material holds the per-body coefficients shared by every body of a variant.
type Material[V dynamo.Vector[V]] struct {
	Restitution float64
	Damping     float64
	Gravity     V
}

// Elastic returns a perfectly elastic material without gravity.
func Elastic[V dynamo.Vector[V]]() Material[V] {
	return Material[V]{Restitution: 1, Damping: 1}
}

// NewBody builds a body and rejects invalid mass, radius or coefficients.
func NewBody[V dynamo.Vector[V]](position, velocity V, mass, radius float64, mat Material[V]) (*Body[V], error) {
	b := &Body[V]{
		Position:    position,
		Velocity:    velocity,
		Mass:        mass,
		Radius:      radius,
		Restitution: mat.Restitution,
		Damping:     mat.Damping,
		Gravity:     mat.Gravity,
		Color:       dynamo.White,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the construction-time preconditions.
func (b *Body[V]) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 1) {
		return fmt.Errorf("body %d mass %v: %w", b.ID, b.Mass, dynamo.ErrInvalidMass)
	}
	if !(b.Radius > 0) || math.IsInf(b.Radius, 1) {
		return fmt.Errorf("body %d radius %v: %w", b.ID, b.Radius, dynamo.ErrInvalidRadius)
	}
	if !unit(b.Restitution) {
		return fmt.Errorf("body %d restitution %v: %w", b.ID, b.Restitution, dynamo.ErrInvalidCoefficient)
	}
	if !unit(b.Damping) {
		return fmt.Errorf("body %d damping %v: %w", b.ID, b.Damping, dynamo.ErrInvalidCoefficient)
	}
	return nil
}

func unit(x float64) bool { return x >= 0 && x <= 1 }

// Integrate advances the body by dt seconds and bounces it off the walls.
// dt is taken as-is: the caller passes raw wall-clock deltas.
func (b *Body[V]) Integrate(dt float64, boundary Boundary[V]) WallMask {
	if !dynamo.IsZero(b.Gravity) {
		b.Velocity = b.Velocity.Add(b.Gravity.Mul(dt))
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	return b.ResolveWallCollision(boundary)
}

// ResolveWallCollision clamps the body inside the boundary and turns every
// clamped velocity component inward, scaled by Damping.
func (b *Body[V]) ResolveWallCollision(boundary Boundary[V]) WallMask {
	pos, mask := boundary.Clamp(b.Position, b.Radius)
	if !mask.Any() {
		return 0
	}
	b.Position = pos

	v := dynamo.Axes(b.Velocity)
	for axis := range v {
		switch {
		case mask.Max(axis):
			v[axis] = -math.Abs(v[axis]) * b.Damping
		case mask.Min(axis):
			v[axis] = math.Abs(v[axis]) * b.Damping
		}
	}
	b.Velocity = dynamo.FromAxes[V](v)
	return mask
}

// KineticEnergy returns 1/2 m |v|^2.
func (b *Body[V]) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

// Momentum returns m v.
func (b *Body[V]) Momentum() V {
	return b.Velocity.Mul(b.Mass)
}

// Speed returns |v|.
func (b *Body[V]) Speed() float64 {
	return b.Velocity.Len()
}
