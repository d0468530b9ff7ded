package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/joephys/joephys/internal/dynamo"
)

// Point is one sample of a series plot.
type Point struct {
	X, Y float64
}

// SceneToSVG draws circles inside the boundary rectangle. World +Y is up, so
// the y axis is flipped. Circles are drawn by layer, then creation order.
func SceneToSVG(circles []dynamo.Circle, bounds dynamo.Bounds, width int, background dynamo.Colour) string {
	if width <= 0 || bounds.Degenerate() {
		return ""
	}

	scale := float64(width) / bounds.Width
	height := int(bounds.Height*scale + 0.5)
	left, top := bounds.Left(), bounds.Top()

	ordered := make([]dynamo.Circle, len(circles))
	copy(ordered, circles)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Layer < ordered[j].Layer })

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background.Hex()))

	for _, c := range ordered {
		cx := (c.Position.X - left) * scale
		cy := (top - c.Position.Y) * scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>
`, cx, cy, c.Radius*scale, c.Colour.Hex(), c.Colour.A))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots points as a polyline scaled to fill the image, with a
// dashed baseline at y = 0 when zero lies in the padded range.
func SeriesToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	lo, hi := extent(points)
	spanX := nonZero(hi.X - lo.X)
	pad := nonZero(hi.Y-lo.Y) * 0.1
	lo.Y, hi.Y = lo.Y-pad, hi.Y+pad
	spanY := hi.Y - lo.Y

	w, h := float64(width), float64(height)
	project := func(p Point) (float64, float64) {
		return (p.X - lo.X) / spanX * w, h - (p.Y-lo.Y)/spanY*h
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if lo.Y < 0 && hi.Y > 0 {
		_, y0 := project(Point{Y: 0})
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#666666" stroke-dasharray="4 4"/>
`, y0, width, y0))
	}

	coords := make([]string, len(points))
	for i, p := range points {
		x, y := project(p)
		coords[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="%s"/>
</svg>`, strokeColor, strings.Join(coords, " ")))
	return sb.String()
}

// extent returns the component-wise minimum and maximum of points.
func extent(points []Point) (lo, hi Point) {
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
