package metrics

import (
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// Standard returns the metric set attached to every recorded run.
func Standard[V dynamo.Vector[V]]() []sim.Metric[V] {
	return []sim.Metric[V]{
		NewKineticEnergy[V](),
		NewEnergyDrift[V](),
		NewMomentum[V](),
		NewContainment[V](1e-9),
		NewCollisionRate[V](),
	}
}
