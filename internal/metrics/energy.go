package metrics

import (
	"math"

	"github.com/joephys/joephys/internal/particles"
)

// Kinetic returns the total kinetic energy of all particles, taking unit mass
// and the implicit per-step velocity divided by the timestep.
func Kinetic(m *particles.Manager) float64 {
	dt := m.Timestep()
	total := 0.0
	for i := 0; i < m.Len(); i++ {
		p := m.Particle(i)
		v := p.Velocity().Scale(1 / dt)
		total += 0.5 * v.Dot(v)
	}
	return total
}

// Potential returns the total potential energy in the gravity field, with
// the boundary center as the zero level.
func Potential(m *particles.Manager) float64 {
	g := m.Gravity()
	ref := m.Constraint().Center
	total := 0.0
	for i := 0; i < m.Len(); i++ {
		p := m.Particle(i)
		total -= g.Dot(p.Position().Sub(ref))
	}
	return total
}

func Total(m *particles.Manager) float64 {
	return Kinetic(m) + Potential(m)
}

// Energy averages the total energy over all observations.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(m *particles.Manager) {
	e.totalEnergy += Total(m)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift records the largest relative change of total energy while the
// particle count stays constant. Each spawn starts a new baseline.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	count         int
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(m *particles.Manager) {
	energy := Total(m)

	if e.samples == 0 || m.Len() != e.count {
		e.initialEnergy = energy
		e.count = m.Len()
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.count = 0
	e.maxDrift = 0
	e.samples = 0
}
