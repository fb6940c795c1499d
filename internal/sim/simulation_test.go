package sim_test

import (
	"context"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

type scriptedPlatform struct {
	inputs []sim.Input
	polls  int
}

func (p *scriptedPlatform) Poll() sim.Input {
	p.polls++
	if len(p.inputs) == 0 {
		return sim.Input{}
	}
	in := p.inputs[0]
	p.inputs = p.inputs[1:]
	return in
}

type countingRenderer[V dynamo.Vector[V]] struct {
	frames []sim.FrameStats
}

func (r *countingRenderer[V]) Render(v sim.View[V]) {
	r.frames = append(r.frames, v.Stats)
}

type frameCounter[V dynamo.Vector[V]] struct {
	seen int
}

func (c *frameCounter[V]) OnFrame(sim.View[V]) { c.seen++ }

func box3(h float64) physics.Boundary[mgl64.Vec3] {
	b, err := physics.NewBoundary(mgl64.Vec3{h, h, h})
	Expect(err).NotTo(HaveOccurred())
	return b
}

func damped() physics.Material[mgl64.Vec3] {
	return physics.Material[mgl64.Vec3]{Restitution: 0.99, Damping: 0.99, Gravity: mgl64.Vec3{0, -9.8, 0}}
}

func body3(pos, vel mgl64.Vec3, radius float64) *physics.Body[mgl64.Vec3] {
	b, err := physics.NewBody(pos, vel, 10, radius, damped())
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("Simulation", func() {
	var (
		s      *sim.Simulation[mgl64.Vec3]
		bodies []*physics.Body[mgl64.Vec3]
	)

	BeforeEach(func() {
		bodies = []*physics.Body[mgl64.Vec3]{
			body3(mgl64.Vec3{-4, 0, 0}, mgl64.Vec3{5, 0, 0}, 5),
			body3(mgl64.Vec3{4, 0, 0}, mgl64.Vec3{-5, 0, 0}, 5),
		}
		bodies[1].ID = 1

		var err error
		s, err = sim.New(box3(200), bodies, true)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("phases", func() {
		It("starts running", func() {
			Expect(s.Phase()).To(Equal(sim.Running))
		})

		It("moves to closing on a close request without stepping physics", func() {
			before := *bodies[0]

			s.Frame(sim.Input{Close: true}, 0.016)

			Expect(s.Phase()).To(Equal(sim.Closing))
			Expect(s.FrameCount()).To(BeZero())
			Expect(*bodies[0]).To(Equal(before))
		})

		It("ignores frames once closing", func() {
			s.Frame(sim.Input{}, 0.016)
			s.Frame(sim.Input{Close: true}, 0.016)
			snapshot := *bodies[1]

			stats := s.Frame(sim.Input{ArmCollisions: true}, 1)

			Expect(stats.Index).To(Equal(1))
			Expect(s.FrameCount()).To(Equal(1))
			Expect(*bodies[1]).To(Equal(snapshot))
		})
	})

	Describe("collision arming", func() {
		BeforeEach(func() {
			var err error
			s, err = sim.New(box3(200), bodies, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("skips pair collisions while disarmed", func() {
			stats := s.Frame(sim.Input{}, 0)

			Expect(stats.PairCollisions).To(BeZero())
			Expect(physics.Overlap(bodies[0], bodies[1])).To(BeNumerically(">", 0))
		})

		It("resolves pairs once armed", func() {
			stats := s.Frame(sim.Input{ArmCollisions: true}, 0)

			Expect(s.Armed()).To(BeTrue())
			Expect(stats.PairCollisions).To(Equal(1))
			Expect(physics.Overlap(bodies[0], bodies[1])).To(BeNumerically("<=", 1e-9))
			Expect(bodies[0].Velocity.X()).To(BeNumerically("<", 0))
			Expect(bodies[1].Velocity.X()).To(BeNumerically(">", 0))
		})

		It("treats repeated arm signals as a no-op", func() {
			s.Frame(sim.Input{ArmCollisions: true}, 0)
			s.Frame(sim.Input{ArmCollisions: true}, 0)

			Expect(s.Armed()).To(BeTrue())
		})
	})

	Describe("Frame", func() {
		It("advances time and the frame index", func() {
			s.Frame(sim.Input{}, 0.25)
			stats := s.Frame(sim.Input{}, 0.5)

			Expect(stats.Index).To(Equal(2))
			Expect(stats.Time).To(BeNumerically("~", 0.75, 1e-12))
			Expect(s.Time()).To(BeNumerically("~", 0.75, 1e-12))
		})

		It("notifies observers once per frame", func() {
			obs := &frameCounter[mgl64.Vec3]{}
			s.AddObserver(obs)

			for i := 0; i < 5; i++ {
				s.Frame(sim.Input{}, 0.01)
			}

			Expect(obs.seen).To(Equal(5))
		})

		It("keeps every body inside the box under erratic frame times", func() {
			rng := rand.New(rand.NewSource(9))
			spawner := physics.NewSpawner(rng, physics.Ranges{
				Radius: physics.Range{Min: 5, Max: 25},
				Mass:   physics.Range{Min: 5, Max: 100},
				Speed:  []physics.Range{{Min: 45, Max: 70}},
			})
			many, err := physics.Spawn(spawner, 50, box3(200), damped())
			Expect(err).NotTo(HaveOccurred())
			s, err = sim.New(box3(200), many, true)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 600; i++ {
				s.Frame(sim.Input{}, rng.Float64()*0.2)
				for _, b := range many {
					Expect(s.Boundary().Contains(b.Position, b.Radius, 1e-9)).To(BeTrue(),
						"body %d escaped at frame %d: %v", b.ID, i, b.Position)
				}
			}
		})
	})

	Describe("Run", func() {
		It("renders until the platform asks to close", func() {
			platform := &scriptedPlatform{inputs: []sim.Input{{}, {}, {}, {Close: true}}}
			renderer := &countingRenderer[mgl64.Vec3]{}

			err := s.Run(context.Background(), platform, sim.FixedClock{Dt: 0.01}, renderer)

			Expect(err).NotTo(HaveOccurred())
			Expect(renderer.frames).To(HaveLen(3))
			Expect(renderer.frames[2].Index).To(Equal(3))
			Expect(s.Phase()).To(Equal(sim.Closing))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := s.Run(ctx, &scriptedPlatform{}, sim.FixedClock{Dt: 0.01}, &countingRenderer[mgl64.Vec3]{})

			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("New", func() {
		It("rejects bodies that cannot fit the box", func() {
			big := body3(mgl64.Vec3{}, mgl64.Vec3{}, 10)

			_, err := sim.New(box3(10), []*physics.Body[mgl64.Vec3]{big}, true)

			Expect(err).To(MatchError(dynamo.ErrInvalidBoundary))
		})

		It("rejects bodies that start outside the box", func() {
			for _, pos := range []mgl64.Vec3{{5000, 0, 0}, {0, -9.5, 0}, {0, 0, 8.1}} {
				outside := body3(pos, mgl64.Vec3{}, 2)

				_, err := sim.New(box3(10), []*physics.Body[mgl64.Vec3]{outside}, true)

				Expect(err).To(MatchError(dynamo.ErrInvalidBoundary), "position %v", pos)
			}
		})

		It("accepts a body touching a wall", func() {
			touching := body3(mgl64.Vec3{8, 0, -8}, mgl64.Vec3{}, 2)

			_, err := sim.New(box3(10), []*physics.Body[mgl64.Vec3]{touching}, true)

			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects invalid bodies", func() {
			bad := body3(mgl64.Vec3{}, mgl64.Vec3{}, 1)
			bad.Mass = -1

			_, err := sim.New(box3(10), []*physics.Body[mgl64.Vec3]{bad}, true)

			Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		})
	})
})
