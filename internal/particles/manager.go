package particles

import (
	"fmt"

	"github.com/joephys/joephys/internal/dynamo"
)

// Stats counts what the manager has done since construction.
type Stats struct {
	Steps   int
	Spawned int
	// Bounces is the total number of wall corrections; a particle hitting a
	// corner counts twice.
	Bounces     int
	LastBounces int
}

// Manager owns the particles and runs the fixed-step simulation.
type Manager struct {
	particles       Collection
	spawner         *Spawner
	timestep        float64
	gravity         dynamo.Vec2
	bounds          dynamo.Bounds
	legacyRightWall bool
	stats           Stats
}

// NewManager builds a manager stepping at s.Hertz. The spawner reads clk.
func NewManager(s Settings, clk dynamo.Clock) (*Manager, error) {
	if s.Hertz <= 0 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrInvalidHertz, s.Hertz)
	}
	if s.Constraint.Degenerate() {
		return nil, fmt.Errorf("%w: %gx%g", dynamo.ErrDegenerateConstraint, s.Constraint.Width, s.Constraint.Height)
	}

	m := &Manager{
		timestep:        1 / float64(s.Hertz),
		gravity:         s.Gravity,
		bounds:          s.Constraint,
		legacyRightWall: s.LegacyRightWall,
	}
	m.spawner = NewSpawner(clk, &m.particles)
	m.spawner.SetRate(s.Spawn.Rate)
	m.spawner.SetRadius(s.Spawn.Radius)
	m.spawner.SetColour(s.Spawn.Colour)
	m.spawner.SetInitialImpulse(s.Spawn.InitialImpulse)
	m.spawner.SetPosition(s.Spawn.Position)
	return m, nil
}

// Update runs one tick: spawn, integrate every particle under gravity, then
// push every particle back inside the boundary.
func (m *Manager) Update() {
	if m.spawner.Update() {
		m.stats.Spawned++
	}
	m.integrate()
	m.stats.LastBounces = m.constrain()
	m.stats.Bounces += m.stats.LastBounces
	m.stats.Steps++
}

func (m *Manager) integrate() {
	for i := range m.particles.items {
		p := &m.particles.items[i]
		p.Accelerate(m.gravity)
		p.Integrate(m.timestep)
	}
}

func (m *Manager) constrain() int {
	w := wallsOf(m.bounds, m.legacyRightWall)
	bounces := 0
	for i := range m.particles.items {
		bounces += w.resolve(&m.particles.items[i])
	}
	return bounces
}

// SetConstraint replaces the boundary used from the next Update on. A
// degenerate rectangle is rejected and the current boundary kept.
func (m *Manager) SetConstraint(center dynamo.Vec2, width, height float64) error {
	b := dynamo.Bounds{Center: center, Width: width, Height: height}
	if b.Degenerate() {
		return fmt.Errorf("%w: %gx%g", dynamo.ErrDegenerateConstraint, width, height)
	}
	m.bounds = b
	return nil
}

// Add inserts an existing particle. It is not counted as spawned.
func (m *Manager) Add(p Particle) {
	m.particles.Append(p)
}

// Circles returns the render descriptors in creation order.
func (m *Manager) Circles() []dynamo.Circle {
	out := make([]dynamo.Circle, len(m.particles.items))
	for i := range m.particles.items {
		out[i] = m.particles.items[i].circle
	}
	return out
}

// Particle returns a copy of the i-th particle.
func (m *Manager) Particle(i int) Particle { return m.particles.items[i] }

func (m *Manager) Len() int                  { return m.particles.Len() }
func (m *Manager) Spawner() *Spawner         { return m.spawner }
func (m *Manager) Timestep() float64         { return m.timestep }
func (m *Manager) Gravity() dynamo.Vec2      { return m.gravity }
func (m *Manager) Constraint() dynamo.Bounds { return m.bounds }
func (m *Manager) LegacyRightWall() bool     { return m.legacyRightWall }
func (m *Manager) Stats() Stats              { return m.stats }

// Time is the simulated time covered by the steps taken so far.
func (m *Manager) Time() float64 { return float64(m.stats.Steps) * m.timestep }

// CheckState reports the first particle whose position is no longer finite.
func (m *Manager) CheckState() error {
	for i := range m.particles.items {
		if !m.particles.items[i].position.IsValid() {
			return fmt.Errorf("particle %d: %w", i, dynamo.ErrInvalidState)
		}
	}
	return nil
}
