package metrics

import (
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// Momentum reports the magnitude of the total linear momentum on the latest
// frame. Walls exchange momentum with the bodies, so it is only conserved
// between wall hits.
type Momentum[V dynamo.Vector[V]] struct {
	name    string
	current V
	peak    float64
}

func NewMomentum[V dynamo.Vector[V]]() *Momentum[V] {
	return &Momentum[V]{name: "momentum"}
}

func (m *Momentum[V]) Name() string { return m.name }

func (m *Momentum[V]) Observe(v sim.View[V]) {
	m.current = v.Momentum()
	m.peak = max(m.peak, m.current.Len())
}

func (m *Momentum[V]) Value() float64 { return m.current.Len() }

// Vector returns the total momentum of the latest frame.
func (m *Momentum[V]) Vector() V { return m.current }

func (m *Momentum[V]) Peak() float64 { return m.peak }

func (m *Momentum[V]) Reset() {
	var zero V
	m.current = zero
	m.peak = 0
}
