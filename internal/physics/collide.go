package physics

import (
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// CoincidentEpsilon is the centre distance below which a pair is skipped:
// the contact normal is undefined and dividing by the distance would feed
// Inf/NaN into both bodies.
const CoincidentEpsilon = 1e-4

// ResolvePairCollision separates two overlapping bodies and exchanges an
// impulse along the contact normal. It reports whether an overlap was found
// and corrected; separated or coincident pairs are left untouched.
func (b *Body[V]) ResolvePairCollision(other *Body[V]) bool {
	delta := other.Position.Sub(b.Position)
	dist := delta.Len()
	sumR := b.Radius + other.Radius

	if !(dist < sumR) {
		return false
	}
	if dist < CoincidentEpsilon {
		return false
	}

	normal := delta.Mul(1 / dist)
	half := (sumR - dist) * 0.5

	b.Position = b.Position.Sub(normal.Mul(half))
	other.Position = other.Position.Add(normal.Mul(half))

	// Velocity of other relative to b, along the normal. Positive means the
	// pair is already moving apart and must not be pushed further.
	velAlongNormal := other.Velocity.Sub(b.Velocity).Dot(normal)
	if velAlongNormal > 0 {
		return true
	}

	e := math.Min(b.Restitution, other.Restitution)
	j := -(1 + e) * velAlongNormal / (1/b.Mass + 1/other.Mass)
	impulse := normal.Mul(j)

	b.Velocity = b.Velocity.Sub(impulse.Mul(1 / b.Mass))
	other.Velocity = other.Velocity.Add(impulse.Mul(1 / other.Mass))
	return true
}

// Overlap returns how deep two bodies interpenetrate (<= 0 when apart).
func Overlap[V dynamo.Vector[V]](a, b *Body[V]) float64 {
	return a.Radius + b.Radius - b.Position.Sub(a.Position).Len()
}

// ResolveAll resolves every unordered pair once, in list order, and returns
// the number of pairs that collided.
func ResolveAll[V dynamo.Vector[V]](bodies []*Body[V]) int {
	n := 0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bodies[i].ResolvePairCollision(bodies[j]) {
				n++
			}
		}
	}
	return n
}
