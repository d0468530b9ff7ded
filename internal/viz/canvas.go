package viz

import (
	"math"
	"strings"

	"github.com/joephys/joephys/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells. Pixel coordinates address dots, so a
// canvas of Width x Height cells has (Width*2) x (Height*4) pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set turns on the dot at pixel (x, y). Out of range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return
	}
	c.Grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// FillCircle sets every pixel within r of (cx, cy). A radius under one pixel
// still marks the center.
func (c *Canvas) FillCircle(cx, cy int, r float64) {
	c.Set(cx, cy)
	ri := int(math.Ceil(r))
	r2 := r * r
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto canvas pixels, fitting a world
// rectangle with uniform scale and flipping Y so up is up.
type Viewport struct {
	world dynamo.Bounds
	scale float64
	offX  float64
	offY  float64
}

// FitView grows b by margin around its center so the boundary lines sit
// inside the picture.
func FitView(b dynamo.Bounds, margin float64) dynamo.Bounds {
	return dynamo.Bounds{Center: b.Center, Width: b.Width * margin, Height: b.Height * margin}
}

func NewViewport(world dynamo.Bounds, pixelW, pixelH int) Viewport {
	scale := math.Min(float64(pixelW)/world.Width, float64(pixelH)/world.Height)
	return Viewport{
		world: world,
		scale: scale,
		offX:  (float64(pixelW) - world.Width*scale) / 2,
		offY:  (float64(pixelH) - world.Height*scale) / 2,
	}
}

// ProjectF maps p to fractional pixel coordinates.
func (v Viewport) ProjectF(p dynamo.Vec2) (float64, float64) {
	x := (p.X-v.world.Left())*v.scale + v.offX
	y := (v.world.Top()-p.Y)*v.scale + v.offY
	return x, y
}

func (v Viewport) Project(p dynamo.Vec2) (int, int) {
	x, y := v.ProjectF(p)
	return int(math.Floor(x)), int(math.Floor(y))
}

func (v Viewport) Length(l float64) float64 { return l * v.scale }

// DrawScene renders the boundary and the circles onto c.
func DrawScene(c *Canvas, v Viewport, bounds dynamo.Bounds, circles []dynamo.Circle) {
	x0, y0 := v.Project(dynamo.V(bounds.Left(), bounds.Top()))
	x1, y1 := v.Project(dynamo.V(bounds.Right(), bounds.Bottom()))
	c.DrawRect(x0, y0, x1-1, y1-1)

	for _, circle := range circles {
		x, y := v.Project(circle.Position)
		c.FillCircle(x, y, v.Length(circle.Radius))
	}
}
