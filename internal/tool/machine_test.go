package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchroom/internal/shape"
	"sketchroom/internal/view"
)

func newMachine() (*Machine, *shape.Collection, *view.Viewport) {
	v := view.New()
	c := shape.NewCollection()
	m := NewMachine(v, c)
	return m, c, v
}

func TestRectDragCommit(t *testing.T) {
	m, c, _ := newMachine()
	m.SetTool(Rect)
	m.SetColor("#ff0000")

	var committed shape.Shape
	m.OnCommit = func(s shape.Shape) { committed = s }

	m.PointerDown(10, 10)
	assert.Equal(t, Dragging, m.State())
	m.PointerMove(40, 25)
	require.NotNil(t, m.Draft())
	assert.Empty(t, m.Draft().Meta().ID, "draft has no id before commit")

	m.PointerUp(60, 40)
	assert.Equal(t, Idle, m.State())
	assert.Nil(t, m.Draft())

	require.NotNil(t, committed)
	r, ok := committed.(*shape.Rect)
	require.True(t, ok)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "#ff0000", r.Color)
	assert.Equal(t, 10.0, r.X)
	assert.Equal(t, 50.0, r.Width)
	assert.Equal(t, 30.0, r.Height)
	assert.Equal(t, 1, c.Len())
}

func TestDragUsesWorldCoordinatesUnderZoom(t *testing.T) {
	m, _, v := newMachine()
	m.SetTool(Line)

	for v.Scale < 2 {
		v.ZoomIn(400, 300)
	}
	wantX, wantY := v.ToWorld(450, 300)

	var committed shape.Shape
	m.OnCommit = func(s shape.Shape) { committed = s }
	m.PointerDown(450, 300)
	m.PointerUp(500, 350)

	l := committed.(*shape.Line)
	assert.InDelta(t, wantX, l.StartX, 1e-9)
	assert.InDelta(t, wantY, l.StartY, 1e-9)
}

func TestDegenerateShapeStillCommits(t *testing.T) {
	m, c, _ := newMachine()
	m.SetTool(Rect)

	m.PointerDown(100, 100)
	m.PointerUp(100, 100)

	require.Equal(t, 1, c.Len())
	r := c.All()[0].(*shape.Rect)
	assert.Equal(t, 0.0, r.Width)
	assert.Equal(t, 0.0, r.Height)
}

func TestPencilAccumulatesEveryMovePoint(t *testing.T) {
	m, c, _ := newMachine()
	m.SetTool(Pencil)

	m.PointerDown(0, 0)
	m.PointerMove(1, 1)
	m.PointerMove(2, 2)
	m.PointerMove(3, 3)
	m.PointerUp(3, 3)

	p := c.All()[0].(*shape.Pencil)
	require.Len(t, p.Points, 4)
	assert.Equal(t, shape.Point{X: 2, Y: 2}, p.Points[2])
}

func TestEllipseDraftGeometry(t *testing.T) {
	m, c, _ := newMachine()
	m.SetTool(Ellipse)

	// Drag up-left: radii stay non-negative, center is the midpoint.
	m.PointerDown(100, 100)
	m.PointerUp(40, 60)

	e := c.All()[0].(*shape.Ellipse)
	assert.Equal(t, 70.0, e.CenterX)
	assert.Equal(t, 80.0, e.CenterY)
	assert.Equal(t, 30.0, e.RadiusX)
	assert.Equal(t, 20.0, e.RadiusY)
}

func TestPanToolNeverCommits(t *testing.T) {
	m, c, v := newMachine()
	m.SetTool(Pan)

	m.PointerDown(100, 100)
	assert.Equal(t, Panning, m.State())
	m.PointerMove(130, 80)
	m.PointerUp(130, 80)

	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 30.0, v.PanX)
	assert.Equal(t, -20.0, v.PanY)
}

func TestEraserRemovesTopmostAndEmitsDelete(t *testing.T) {
	m, c, _ := newMachine()
	older := &shape.Rect{Common: shape.Common{Type: shape.KindRect, ID: "older"}, X: 0, Y: 0, Width: 50, Height: 50}
	newer := &shape.Rect{Common: shape.Common{Type: shape.KindRect, ID: "newer"}, X: 0, Y: 0, Width: 50, Height: 50}
	c.Append(older)
	c.Append(newer)

	var erased []string
	m.OnErase = func(id string) { erased = append(erased, id) }

	m.SetTool(Eraser)
	m.PointerDown(25, 25)

	assert.Equal(t, Idle, m.State(), "eraser never enters a drag state")
	assert.Equal(t, []string{"newer"}, erased)
	assert.Equal(t, 1, c.Len())

	// A miss erases nothing.
	m.PointerDown(500, 500)
	assert.Len(t, erased, 1)
}

func TestSecondTouchAbandonsDraft(t *testing.T) {
	m, c, v := newMachine()
	m.SetTool(Rect)

	m.TouchStart([]Point{{X: 10, Y: 10}})
	m.TouchMove([]Point{{X: 50, Y: 50}})
	require.NotNil(t, m.Draft())

	m.TouchStart([]Point{{X: 50, Y: 50}, {X: 150, Y: 50}})
	assert.Equal(t, Pinching, m.State())
	assert.Nil(t, m.Draft(), "in-progress draft is abandoned, not committed")

	m.TouchMove([]Point{{X: 25, Y: 50}, {X: 175, Y: 50}})
	assert.Greater(t, v.Scale, 1.0)

	m.TouchEnd(Point{X: 25, Y: 50}, 1)
	assert.Equal(t, Pinching, m.State(), "pinch survives while a finger remains")
	m.TouchEnd(Point{X: 175, Y: 50}, 0)
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 0, c.Len())
}

func TestTextCommitAndCancel(t *testing.T) {
	m, c, _ := newMachine()
	m.SetTool(Text)
	m.SetLineWidth(3)

	var editAt []float64
	m.OnTextEdit = func(sx, sy float64) { editAt = []float64{sx, sy} }

	m.PointerDown(40, 50)
	assert.Equal(t, EditingText, m.State())
	assert.Equal(t, []float64{40, 50}, editAt)

	m.CommitText("hello")
	assert.Equal(t, Idle, m.State())
	require.Equal(t, 1, c.Len())
	txt := c.All()[0].(*shape.Text)
	assert.Equal(t, "hello", txt.Text)
	assert.Equal(t, 40.0, txt.X)

	// Escape path: nothing is created.
	m.PointerDown(10, 10)
	m.CancelText()
	assert.Equal(t, 1, c.Len())

	// Blank text cancels too.
	m.PointerDown(10, 10)
	m.CommitText("   ")
	assert.Equal(t, 1, c.Len())
}

func TestOnChangedFiresOnDragMoves(t *testing.T) {
	m, _, _ := newMachine()
	m.SetTool(Rect)

	var redraws int
	m.OnChanged = func() { redraws++ }

	m.PointerDown(0, 0)
	m.PointerMove(10, 10)
	m.PointerMove(20, 20)
	m.PointerUp(20, 20)

	assert.GreaterOrEqual(t, redraws, 4)
}
