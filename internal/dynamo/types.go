package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in world units. +Y points up.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Norm() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec2) String() string       { return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y) }
func (v Vec2) Equal(o Vec2) bool    { return v.X == o.X && v.Y == o.Y }

func (v Vec2) Near(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Colour is a linear RGBA colour with components in [0, 1].
type Colour struct {
	R, G, B, A float64
}

func RGBA(r, g, b, a float64) Colour { return Colour{R: r, G: g, B: b, A: a} }

// Bytes converts to 8-bit channels, clamping out of range components.
func (c Colour) Bytes() (r, g, b, a uint8) {
	return channel(c.R), channel(c.G), channel(c.B), channel(c.A)
}

// Hex returns the colour as #rrggbb, ignoring alpha.
func (c Colour) Hex() string {
	r, g, b, _ := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Circle is the render descriptor handed to renderers.
type Circle struct {
	Position Vec2
	Radius   float64
	Colour   Colour
	Layer    int
}

// Bounds is an axis-aligned rectangle given by its center and full extents.
type Bounds struct {
	Center Vec2
	Width  float64
	Height float64
}

func (b Bounds) Top() float64    { return b.Center.Y + b.Height/2 }
func (b Bounds) Bottom() float64 { return b.Center.Y - b.Height/2 }
func (b Bounds) Left() float64   { return b.Center.X - b.Width/2 }
func (b Bounds) Right() float64  { return b.Center.X + b.Width/2 }

// Degenerate reports whether the rectangle has no usable interior.
func (b Bounds) Degenerate() bool {
	if !b.Center.IsValid() || math.IsNaN(b.Width) || math.IsNaN(b.Height) ||
		math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0) {
		return true
	}
	return b.Width <= 0 || b.Height <= 0
}

// Steps returns how many ticks of length dt cover duration, rounded to the
// nearest tick. Durations that are not positive, not finite, or need more
// ticks than an int holds are rejected with ErrInvalidDuration.
func Steps(duration, dt float64) (int, error) {
	if !(duration > 0) {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidDuration, duration)
	}
	n := math.Round(duration / dt)
	if !(n < float64(math.MaxInt)) {
		return 0, fmt.Errorf("%w: %gs is %g steps", ErrInvalidDuration, duration, n)
	}
	return int(n), nil
}

// Clock is a monotonic time source reporting seconds.
type Clock interface {
	Now() float64
}
