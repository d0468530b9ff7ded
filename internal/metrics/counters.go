package metrics

import (
	"math"

	"github.com/joephys/joephys/internal/particles"
)

// Metric is the observation contract shared by every metric here.
type Metric interface {
	Name() string
	Observe(m *particles.Manager)
	Value() float64
	Reset()
}

// Default returns the metrics recorded for every run.
func Default() []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMaxSpeed(),
		NewParticleCount(),
		NewBounces(),
	}
}

// MaxSpeed tracks the fastest particle seen, in units per second.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (s *MaxSpeed) Name() string { return "max_speed" }

func (s *MaxSpeed) Observe(m *particles.Manager) {
	dt := m.Timestep()
	for i := 0; i < m.Len(); i++ {
		p := m.Particle(i)
		s.max = math.Max(s.max, p.Velocity().Norm()/dt)
	}
}

func (s *MaxSpeed) Value() float64 { return s.max }
func (s *MaxSpeed) Reset()         { s.max = 0 }

// ParticleCount reports the population at the last observation.
type ParticleCount struct {
	n int
}

func NewParticleCount() *ParticleCount { return &ParticleCount{} }

func (c *ParticleCount) Name() string                 { return "particles" }
func (c *ParticleCount) Observe(m *particles.Manager) { c.n = m.Len() }
func (c *ParticleCount) Value() float64               { return float64(c.n) }
func (c *ParticleCount) Reset()                       { c.n = 0 }

// Bounces counts wall corrections between resets.
type Bounces struct {
	start   int
	current int
	started bool
}

func NewBounces() *Bounces { return &Bounces{} }

func (b *Bounces) Name() string { return "bounces" }

func (b *Bounces) Observe(m *particles.Manager) {
	total := m.Stats().Bounces
	if !b.started {
		b.start = total - m.Stats().LastBounces
		b.started = true
	}
	b.current = total
}

func (b *Bounces) Value() float64 { return float64(b.current - b.start) }

func (b *Bounces) Reset() {
	b.start, b.current, b.started = 0, 0, false
}
