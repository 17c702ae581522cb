// Package hittest answers "which shape is under this world point", used
// by the eraser tool. All predicates work in world space, so tolerances
// shrink visually as the user zooms in.
package hittest

import (
	"math"

	"sketchroom/internal/shape"
)

// SegmentTolerance is the hit distance for line-like shapes, in world
// units.
const SegmentTolerance = 5.0

// Text hit boxes approximate glyph metrics: a fixed advance per rune and
// a fixed line height.
const (
	textCharWidth  = 15.0
	textLineHeight = 24.0
)

// TopHit probes shapes in reverse insertion order, so the most recently
// drawn (visually topmost) shape wins, and returns its id.
func TopHit(shapes []shape.Shape, wx, wy float64) (string, bool) {
	for i := len(shapes) - 1; i >= 0; i-- {
		if Contains(shapes[i], wx, wy) {
			return shapes[i].Meta().ID, true
		}
	}
	return "", false
}

// Contains reports whether the world point lies in (or near, for
// line-like variants) the shape.
func Contains(s shape.Shape, wx, wy float64) bool {
	switch v := s.(type) {
	case *shape.Rect:
		minX := math.Min(v.X, v.X+v.Width)
		maxX := math.Max(v.X, v.X+v.Width)
		minY := math.Min(v.Y, v.Y+v.Height)
		maxY := math.Max(v.Y, v.Y+v.Height)
		return wx >= minX && wx <= maxX && wy >= minY && wy <= maxY

	case *shape.Ellipse:
		// The threshold uses only the x-radius, giving a circular hit
		// region even for non-circular ellipses. Kept as the protocol's
		// established behavior.
		dx := wx - v.CenterX
		dy := wy - v.CenterY
		return dx*dx+dy*dy <= v.RadiusX*v.RadiusX

	case *shape.Line:
		return distanceToSegment(wx, wy, v.StartX, v.StartY, v.EndX, v.EndY) < SegmentTolerance

	case *shape.Arrow:
		return distanceToSegment(wx, wy, v.StartX, v.StartY, v.EndX, v.EndY) < SegmentTolerance

	case *shape.Diamond:
		cx := v.X + v.Width/2
		cy := v.Y + v.Height/2
		dx := math.Abs(wx - cx)
		dy := math.Abs(wy - cy)
		halfW := math.Abs(v.Width) / 2
		halfH := math.Abs(v.Height) / 2
		if halfW == 0 || halfH == 0 {
			return false
		}
		return dx/halfW+dy/halfH <= 1

	case *shape.Pencil:
		for i := 0; i < len(v.Points)-1; i++ {
			p1 := v.Points[i]
			p2 := v.Points[i+1]
			if distanceToSegment(wx, wy, p1.X, p1.Y, p2.X, p2.Y) < SegmentTolerance {
				return true
			}
		}
		return false

	case *shape.Text:
		return wx >= v.X && wx <= v.X+float64(len(v.Text))*textCharWidth &&
			wy >= v.Y && wy <= v.Y+textLineHeight
	}
	return false
}

// distanceToSegment returns the distance from (x,y) to the segment
// (x1,y1)-(x2,y2), clamping the projection to the endpoints.
func distanceToSegment(x, y, x1, y1, x2, y2 float64) float64 {
	a := x - x1
	b := y - y1
	c := x2 - x1
	d := y2 - y1

	lenSq := c*c + d*d
	param := -1.0
	if lenSq != 0 {
		param = (a*c + b*d) / lenSq
	}

	var px, py float64
	switch {
	case param < 0:
		px, py = x1, y1
	case param > 1:
		px, py = x2, y2
	default:
		px, py = x1+param*c, y1+param*d
	}
	return math.Hypot(x-px, y-py)
}
