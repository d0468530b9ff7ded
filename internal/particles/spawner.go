package particles

import "github.com/joephys/joephys/internal/dynamo"

const (
	DefaultSpawnRate   = 3.0
	DefaultSpawnRadius = 50.0
)

// Spawner appends particles to a collection it does not own, at most one per
// Update, paced by its own clock rather than the physics timestep.
type Spawner struct {
	clock     dynamo.Clock
	target    *Collection
	rate      float64
	radius    float64
	colour    dynamo.Colour
	impulse   dynamo.Vec2
	position  dynamo.Vec2
	lastSpawn float64
}

// NewSpawner returns a spawner emitting black particles of DefaultSpawnRadius
// at the origin, DefaultSpawnRate times per second.
func NewSpawner(clk dynamo.Clock, target *Collection) *Spawner {
	return &Spawner{
		clock:  clk,
		target: target,
		rate:   DefaultSpawnRate,
		radius: DefaultSpawnRadius,
		colour: dynamo.RGBA(0, 0, 0, 1),
	}
}

func (s *Spawner) SetRate(perSecond float64)         { s.rate = perSecond }
func (s *Spawner) SetRadius(radius float64)          { s.radius = radius }
func (s *Spawner) SetColour(c dynamo.Colour)         { s.colour = c }
func (s *Spawner) SetInitialImpulse(imp dynamo.Vec2) { s.impulse = imp }
func (s *Spawner) SetPosition(pos dynamo.Vec2)       { s.position = pos }

func (s *Spawner) Rate() float64               { return s.rate }
func (s *Spawner) Radius() float64             { return s.radius }
func (s *Spawner) Colour() dynamo.Colour       { return s.colour }
func (s *Spawner) InitialImpulse() dynamo.Vec2 { return s.impulse }
func (s *Spawner) Position() dynamo.Vec2       { return s.position }
func (s *Spawner) LastSpawn() float64          { return s.lastSpawn }

// Enabled reports whether the rate allows spawning at all. Zero, negative and
// NaN rates disable the spawner.
func (s *Spawner) Enabled() bool { return s.rate > 0 }

// Update spawns against the spawner's clock.
func (s *Spawner) Update() bool {
	return s.SpawnAt(s.clock.Now())
}

// SpawnAt appends one particle if at least 1/rate seconds have passed since
// the last spawn. The initial impulse is applied as a one-shot acceleration,
// so it only moves the particle by impulse*dt² on its first integration.
func (s *Spawner) SpawnAt(now float64) bool {
	if !s.Enabled() {
		return false
	}
	if now-s.lastSpawn < 1/s.rate {
		return false
	}

	p := s.target.Append(NewParticle(s.position, s.colour, s.radius))
	p.Accelerate(s.impulse)
	s.lastSpawn = now
	return true
}
