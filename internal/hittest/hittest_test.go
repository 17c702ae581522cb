package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sketchroom/internal/shape"
)

func rect(id string, x, y, w, h float64) *shape.Rect {
	return &shape.Rect{Common: shape.Common{Type: shape.KindRect, ID: id}, X: x, Y: y, Width: w, Height: h}
}

func TestRectContainsNormalizesSignedExtent(t *testing.T) {
	// Dragged up and to the left: anchor bottom-right, negative extent.
	r := rect("r", 100, 100, -40, -30)

	assert.True(t, Contains(r, 80, 90))
	assert.True(t, Contains(r, 60, 70), "corner is inclusive")
	assert.False(t, Contains(r, 59, 90))
}

func TestEllipseUsesXRadiusOnly(t *testing.T) {
	e := &shape.Ellipse{
		Common:  shape.Common{Type: shape.KindEllipse, ID: "e"},
		CenterX: 0, CenterY: 0, RadiusX: 10, RadiusY: 2,
	}

	// (0,8) is far outside the true ellipse but inside the circular
	// region of radius RadiusX.
	assert.True(t, Contains(e, 0, 8))
	assert.False(t, Contains(e, 11, 0))
}

func TestLineProximity(t *testing.T) {
	l := &shape.Line{Common: shape.Common{Type: shape.KindLine, ID: "l"}, StartX: 0, StartY: 0, EndX: 100, EndY: 0}

	assert.True(t, Contains(l, 50, 4.9))
	assert.False(t, Contains(l, 50, 5.1))
	// Beyond an endpoint the distance clamps to the endpoint.
	assert.False(t, Contains(l, 110, 0))
	assert.True(t, Contains(l, 103, 0))
}

func TestDiamondTaxicab(t *testing.T) {
	d := &shape.Diamond{Common: shape.Common{Type: shape.KindDiamond, ID: "d"}, X: 0, Y: 0, Width: 20, Height: 10}

	assert.True(t, Contains(d, 10, 5), "center")
	assert.True(t, Contains(d, 10, 0), "top vertex")
	assert.False(t, Contains(d, 1, 1), "bounding-box corner is outside the diamond")

	zero := &shape.Diamond{Common: shape.Common{Type: shape.KindDiamond, ID: "z"}}
	assert.False(t, Contains(zero, 0, 0))
}

func TestPencilHitBetweenVertices(t *testing.T) {
	p := &shape.Pencil{
		Common: shape.Common{Type: shape.KindPencil, ID: "p"},
		Points: []shape.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}},
	}

	// (60,3) is near the interior of the first segment, not a recorded
	// vertex.
	assert.True(t, Contains(p, 60, 3))
	assert.True(t, Contains(p, 100, 50))
	assert.False(t, Contains(p, 50, 50))

	single := &shape.Pencil{Common: shape.Common{Type: shape.KindPencil, ID: "s"}, Points: []shape.Point{{X: 1, Y: 1}}}
	assert.False(t, Contains(single, 1, 1), "a one-point path has no segments")
}

func TestTextBox(t *testing.T) {
	txt := &shape.Text{Common: shape.Common{Type: shape.KindText, ID: "t"}, X: 10, Y: 10, Text: "hi"}

	assert.True(t, Contains(txt, 30, 20))
	assert.False(t, Contains(txt, 41, 20), "box width is 15 per character")
	assert.False(t, Contains(txt, 30, 35), "box height is 24")
}

func TestTopHitPrefersLatestInserted(t *testing.T) {
	older := rect("older", 0, 0, 50, 50)
	newer := rect("newer", 0, 0, 50, 50)
	shapes := []shape.Shape{older, newer}

	id, ok := TopHit(shapes, 25, 25)
	assert.True(t, ok)
	assert.Equal(t, "newer", id)

	_, ok = TopHit(shapes, 500, 500)
	assert.False(t, ok)
}
