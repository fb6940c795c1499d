package metrics

import (
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// CollisionRate is the number of pair collisions per simulated second.
type CollisionRate[V dynamo.Vector[V]] struct {
	name     string
	pairs    int
	walls    int
	duration float64
}

func NewCollisionRate[V dynamo.Vector[V]]() *CollisionRate[V] {
	return &CollisionRate[V]{
		name: "collision_rate",
	}
}

func (c *CollisionRate[V]) Name() string {
	return c.name
}

func (c *CollisionRate[V]) Observe(v sim.View[V]) {
	c.pairs += v.Stats.PairCollisions
	c.walls += v.Stats.WallHits
	c.duration += v.Stats.Dt
}

func (c *CollisionRate[V]) Value() float64 {
	if c.duration <= 0 {
		return 0
	}
	return float64(c.pairs) / c.duration
}

func (c *CollisionRate[V]) Pairs() int    { return c.pairs }
func (c *CollisionRate[V]) WallHits() int { return c.walls }

func (c *CollisionRate[V]) Reset() {
	c.pairs = 0
	c.walls = 0
	c.duration = 0
}
