package particles

import "github.com/joephys/joephys/internal/dynamo"

// DefaultLayer is the draw layer given to every particle's circle.
const DefaultLayer = 1

// Particle is a circle advanced by position Verlet integration.
type Particle struct {
	position     dynamo.Vec2
	previous     dynamo.Vec2
	acceleration dynamo.Vec2
	radius       float64
	circle       dynamo.Circle
}

// NewParticle creates a particle at rest at position.
func NewParticle(position dynamo.Vec2, colour dynamo.Colour, radius float64) Particle {
	return Particle{
		position: position,
		previous: position,
		radius:   radius,
		circle: dynamo.Circle{
			Position: position,
			Radius:   radius,
			Colour:   colour,
			Layer:    DefaultLayer,
		},
	}
}

// Accelerate adds force to the acceleration consumed by the next Integrate.
func (p *Particle) Accelerate(force dynamo.Vec2) {
	p.acceleration = p.acceleration.Add(force)
}

// Integrate advances the particle by dt and clears the pending acceleration.
func (p *Particle) Integrate(dt float64) {
	velocity := p.position.Sub(p.previous)
	p.previous = p.position
	p.position = p.position.Add(velocity).Add(p.acceleration.Scale(dt * dt))
	p.acceleration = dynamo.Vec2{}
	p.circle.Position = p.position
}

// Place sets both positions, and with them the implicit velocity.
func (p *Particle) Place(position, previous dynamo.Vec2) {
	p.position = position
	p.previous = previous
	p.circle.Position = position
}

func (p *Particle) Position() dynamo.Vec2     { return p.position }
func (p *Particle) Previous() dynamo.Vec2     { return p.previous }
func (p *Particle) Acceleration() dynamo.Vec2 { return p.acceleration }
func (p *Particle) Radius() float64           { return p.radius }
func (p *Particle) Circle() dynamo.Circle     { return p.circle }

// Velocity returns the displacement per step, position minus previous.
func (p *Particle) Velocity() dynamo.Vec2 { return p.position.Sub(p.previous) }

func (p *Particle) setY(y float64) {
	p.position.Y = y
	p.circle.Position = p.position
}

func (p *Particle) setX(x float64) {
	p.position.X = x
	p.circle.Position = p.position
}

// Collection is the ordered, append-only particle store owned by a Manager.
type Collection struct {
	items []Particle
}

// Append stores p and returns a pointer to the stored copy. The pointer is
// only valid until the next Append.
func (c *Collection) Append(p Particle) *Particle {
	c.items = append(c.items, p)
	return &c.items[len(c.items)-1]
}

func (c *Collection) Len() int { return len(c.items) }
