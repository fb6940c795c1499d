package metrics

import (
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// Containment is the fraction of observed frames on which every body was
// inside the boundary (within tolerance). Anything below 1 is a bug.
type Containment[V dynamo.Vector[V]] struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewContainment[V dynamo.Vector[V]](tolerance float64) *Containment[V] {
	return &Containment[V]{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment[V]) Name() string {
	return c.name
}

func (c *Containment[V]) Observe(v sim.View[V]) {
	c.samples++
	for i := range v.Bodies {
		b := &v.Bodies[i]
		if !v.Boundary.Contains(b.Position, b.Radius, c.tolerance) {
			c.violations++
			break
		}
	}
}

func (c *Containment[V]) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment[V]) Reset() {
	c.violations = 0
	c.samples = 0
}
