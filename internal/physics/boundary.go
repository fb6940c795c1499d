package physics

import (
	"fmt"
	"math/bits"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// WallMask records which walls a clamp touched.
// Bit 2*axis is the negative (min) wall, bit 2*axis+1 the positive (max) wall.
type WallMask uint8

func (m WallMask) Min(axis int) bool  { return m&(1<<(2*axis)) != 0 }
func (m WallMask) Max(axis int) bool  { return m&(1<<(2*axis+1)) != 0 }
func (m WallMask) Axis(axis int) bool { return m.Min(axis) || m.Max(axis) }
func (m WallMask) Any() bool          { return m != 0 }
func (m WallMask) Count() int         { return bits.OnesCount8(uint8(m)) }

// Boundary is an origin-centred axis-aligned box given by its half-extents.
type Boundary[V dynamo.Vector[V]] struct {
	halfExtents V
}

// NewBoundary validates that every half-extent is positive.
func NewBoundary[V dynamo.Vector[V]](halfExtents V) (Boundary[V], error) {
	for axis, h := range dynamo.Axes(halfExtents) {
		if !(h > 0) || !dynamo.Finite(halfExtents) {
			return Boundary[V]{}, fmt.Errorf("axis %d half-extent %v: %w", axis, h, dynamo.ErrInvalidBoundary)
		}
	}
	return Boundary[V]{halfExtents: halfExtents}, nil
}

// HalfExtents returns the distance from the origin to each face.
func (b Boundary[V]) HalfExtents() V { return b.halfExtents }

// Size returns the full extents (width, height[, depth]).
func (b Boundary[V]) Size() V { return b.halfExtents.Mul(2) }

// Fits reports whether a body of the given radius can sit inside the box.
func (b Boundary[V]) Fits(radius float64) bool {
	for _, h := range dynamo.Axes(b.halfExtents) {
		if radius >= h {
			return false
		}
	}
	return true
}

// Clamp pulls a sphere of the given radius back inside the box and reports
// which walls it was pushed off. Each axis is handled independently.
func (b Boundary[V]) Clamp(position V, radius float64) (V, WallMask) {
	p := dynamo.Axes(position)
	h := dynamo.Axes(b.halfExtents)
	var mask WallMask

	for axis := range p {
		if p[axis]+radius > h[axis] {
			p[axis] = h[axis] - radius
			mask |= 1 << (2*axis + 1)
		} else if p[axis]-radius < -h[axis] {
			p[axis] = -h[axis] + radius
			mask |= 1 << (2 * axis)
		}
	}

	if mask == 0 {
		return position, 0
	}
	return dynamo.FromAxes[V](p), mask
}

// Contains reports whether the sphere lies inside the box, within eps.
func (b Boundary[V]) Contains(position V, radius, eps float64) bool {
	h := dynamo.Axes(b.halfExtents)
	for axis, x := range dynamo.Axes(position) {
		if !(x+radius <= h[axis]+eps && x-radius >= -h[axis]-eps) {
			return false
		}
	}
	return true
}
