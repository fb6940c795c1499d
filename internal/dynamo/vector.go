package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is satisfied by the two vector types a simulation can run in.
type Vector[V any] interface {
	mgl64.Vec2 | mgl64.Vec3
	Add(V) V
	Sub(V) V
	Mul(float64) V
	Dot(V) float64
	Len() float64
}

// Axes returns the components of v as a fresh slice.
func Axes[V Vector[V]](v V) []float64 {
	switch a := any(v).(type) {
	case mgl64.Vec2:
		return []float64{a[0], a[1]}
	case mgl64.Vec3:
		return []float64{a[0], a[1], a[2]}
	}
	return nil
}

// FromAxes builds a vector from components. Missing components are zero,
// extra ones are ignored.
func FromAxes[V Vector[V]](c []float64) V {
	var v V
	switch p := any(&v).(type) {
	case *mgl64.Vec2:
		copy(p[:], c)
	case *mgl64.Vec3:
		copy(p[:], c)
	}
	return v
}

// Dim reports the number of components of V.
func Dim[V Vector[V]]() int {
	var v V
	return len(Axes(v))
}

// Splat returns a vector with every component set to s.
func Splat[V Vector[V]](s float64) V {
	c := make([]float64, Dim[V]())
	for i := range c {
		c[i] = s
	}
	return FromAxes[V](c)
}

// IsZero reports whether every component is exactly zero.
func IsZero[V Vector[V]](v V) bool {
	for _, x := range Axes(v) {
		if x != 0 {
			return false
		}
	}
	return true
}

// Finite reports whether no component is NaN or Inf.
func Finite[V Vector[V]](v V) bool {
	for _, x := range Axes(v) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
