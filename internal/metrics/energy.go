package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// KineticEnergy reports the mean total kinetic energy over the observed frames.
type KineticEnergy[V dynamo.Vector[V]] struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy[V dynamo.Vector[V]]() *KineticEnergy[V] {
	return &KineticEnergy[V]{name: "kinetic_energy"}
}

func (k *KineticEnergy[V]) Name() string { return k.name }

func (k *KineticEnergy[V]) Observe(v sim.View[V]) {
	k.last = v.KineticEnergy()
	k.total += k.last
	k.samples++
}

func (k *KineticEnergy[V]) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

// Last returns the energy seen on the most recent frame.
func (k *KineticEnergy[V]) Last() float64 { return k.last }

func (k *KineticEnergy[V]) Reset() {
	k.total = 0
	k.last = 0
	k.samples = 0
}

// EnergyDrift tracks the largest relative departure of the total kinetic
// energy from its baseline: the pre-run state in a headless run, otherwise
// the first observed frame. Elastic runs without gravity should keep it near
// zero; damped runs lose energy at every wall hit.
type EnergyDrift[V dynamo.Vector[V]] struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift[V dynamo.Vector[V]]() *EnergyDrift[V] {
	return &EnergyDrift[V]{name: "energy_drift"}
}

func (e *EnergyDrift[V]) Name() string { return e.name }

func (e *EnergyDrift[V]) Observe(v sim.View[V]) {
	energy := v.KineticEnergy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

// Baseline records the energy before any frame has run.
func (e *EnergyDrift[V]) Baseline(v sim.View[V]) {
	e.initialEnergy = v.KineticEnergy()
	e.currentEnergy = e.initialEnergy
	e.samples = 1
}

func (e *EnergyDrift[V]) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift[V]) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
