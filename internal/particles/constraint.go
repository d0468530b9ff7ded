package particles

import "github.com/joephys/joephys/internal/dynamo"

type walls struct {
	top, bottom, left, right float64
	legacyRight              bool
}

func wallsOf(b dynamo.Bounds, legacyRight bool) walls {
	return walls{
		top:         b.Top(),
		bottom:      b.Bottom(),
		left:        b.Left(),
		right:       b.Right(),
		legacyRight: legacyRight,
	}
}

// resolve mirrors p back inside each wall it crosses and flips the velocity
// component on that axis. Walls are checked top, bottom, left, right against
// the current position, so a corner hit is corrected twice in one call. It
// returns the number of corrections applied.
func (w walls) resolve(p *Particle) int {
	n := 0

	if p.position.Y+p.radius > w.top {
		v := p.position.Y - p.previous.Y
		edge := p.position.Y + p.radius
		p.setY(p.position.Y - 2*(edge-w.top))
		p.previous.Y = p.position.Y + v
		n++
	}

	if p.position.Y-p.radius < w.bottom {
		v := p.position.Y - p.previous.Y
		edge := p.position.Y - p.radius
		p.setY(p.position.Y - 2*(edge-w.bottom))
		p.previous.Y = p.position.Y + v
		n++
	}

	if p.position.X-p.radius < w.left {
		v := p.position.X - p.previous.X
		edge := p.position.X - p.radius
		p.setX(p.position.X - 2*(edge-w.left))
		p.previous.X = p.position.X + v
		n++
	}

	if p.position.X+p.radius > w.right {
		v := p.position.X - p.previous.X
		edge := p.position.X + p.radius
		penetration := edge - w.right
		if w.legacyRight {
			penetration = edge + w.left
		}
		p.setX(p.position.X - 2*penetration)
		p.previous.X = p.position.X + v
		n++
	}

	return n
}
