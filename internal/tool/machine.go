// Package tool turns pointer and touch event streams into draft shapes,
// commits, pans, pinch-zooms and erasures. The machine is driven from a
// single UI thread; it holds no locks of its own.
package tool

import (
	"strings"

	"sketchroom/internal/hittest"
	"sketchroom/internal/shape"
	"sketchroom/internal/view"
)

type Tool string

const (
	Selection Tool = "selection"
	Pan       Tool = "pan"
	Pencil    Tool = "pencil"
	Rect      Tool = "rect"
	Ellipse   Tool = "circle"
	Line      Tool = "line"
	Arrow     Tool = "arrow"
	Diamond   Tool = "diamond"
	Text      Tool = "text"
	Eraser    Tool = "eraser"
)

type State int

const (
	Idle State = iota
	Dragging
	Pinching
	Panning
	EditingText
)

// Point is a screen-space position as delivered by the input layer.
type Point struct {
	X, Y float64
}

// Machine interprets input against a viewport and the committed shape
// collection. A draft under construction is local transient state: it is
// rendered live but never persisted or broadcast until pointer-up.
type Machine struct {
	view   *view.Viewport
	shapes *shape.Collection

	tool      Tool
	state     State
	color     string
	lineWidth float64

	// Drag state, in world coordinates.
	anchorX, anchorY float64
	curX, curY       float64
	pencilPoints     []shape.Point
	draft            shape.Shape

	// Pan state, in screen coordinates.
	lastPanX, lastPanY float64

	// Text state: world anchor of the pending entry surface.
	textX, textY float64

	// OnCommit fires once per finalized shape, after it has been
	// appended to the collection.
	OnCommit func(shape.Shape)
	// OnErase fires after a local eraser hit has been removed.
	OnErase func(id string)
	// OnChanged asks the owner to redraw.
	OnChanged func()
	// OnTextEdit asks the owner to open an inline entry surface at the
	// given screen position; the owner calls CommitText or CancelText
	// when it closes.
	OnTextEdit func(screenX, screenY float64)
}

func NewMachine(v *view.Viewport, shapes *shape.Collection) *Machine {
	return &Machine{
		view:      v,
		shapes:    shapes,
		tool:      Pencil,
		color:     "#ffffff",
		lineWidth: 2,
	}
}

func (m *Machine) SetTool(t Tool)         { m.tool = t }
func (m *Machine) Tool() Tool             { return m.tool }
func (m *Machine) State() State           { return m.state }
func (m *Machine) SetColor(c string)      { m.color = c }
func (m *Machine) Color() string          { return m.color }
func (m *Machine) SetLineWidth(w float64) { m.lineWidth = w }
func (m *Machine) LineWidth() float64     { return m.lineWidth }

// Draft returns the in-progress shape, or nil.
func (m *Machine) Draft() shape.Shape { return m.draft }

func (m *Machine) PointerDown(sx, sy float64) {
	if m.state != Idle {
		return
	}

	switch m.tool {
	case Pan:
		m.state = Panning
		m.lastPanX, m.lastPanY = sx, sy
		return

	case Eraser:
		wx, wy := m.view.ToWorld(sx, sy)
		if id, ok := hittest.TopHit(m.shapes.All(), wx, wy); ok {
			m.shapes.Remove(id)
			if m.OnErase != nil {
				m.OnErase(id)
			}
			m.changed()
		}
		return

	case Text:
		m.textX, m.textY = m.view.ToWorld(sx, sy)
		m.state = EditingText
		if m.OnTextEdit != nil {
			m.OnTextEdit(sx, sy)
		}
		return

	case Selection:
		// Selection has no behavior yet; the click is accepted and
		// ignored.
		return
	}

	wx, wy := m.view.ToWorld(sx, sy)
	m.state = Dragging
	m.anchorX, m.anchorY = wx, wy
	m.curX, m.curY = wx, wy
	if m.tool == Pencil {
		m.pencilPoints = []shape.Point{{X: wx, Y: wy}}
	}
	m.rebuildDraft()
	m.changed()
}

func (m *Machine) PointerMove(sx, sy float64) {
	switch m.state {
	case Panning:
		m.view.Pan(sx-m.lastPanX, sy-m.lastPanY)
		m.lastPanX, m.lastPanY = sx, sy
		m.changed()

	case Dragging:
		wx, wy := m.view.ToWorld(sx, sy)
		m.curX, m.curY = wx, wy
		if m.tool == Pencil {
			m.pencilPoints = append(m.pencilPoints, shape.Point{X: wx, Y: wy})
		}
		m.rebuildDraft()
		m.changed()
	}
}

func (m *Machine) PointerUp(sx, sy float64) {
	switch m.state {
	case Panning:
		m.state = Idle
		return

	case Dragging:
		wx, wy := m.view.ToWorld(sx, sy)
		m.curX, m.curY = wx, wy
		m.rebuildDraft()

		s := m.draft
		m.draft = nil
		m.pencilPoints = nil
		m.state = Idle
		if s == nil {
			return
		}
		// Degenerate shapes (zero-area drags) commit like any other.
		s.Meta().ID = shape.NewID()
		m.shapes.Append(s)
		if m.OnCommit != nil {
			m.OnCommit(s)
		}
		m.changed()
	}
}

// TouchStart handles one or more touch points going down. A second
// finger forces pinching; any draft in progress is abandoned, not
// committed.
func (m *Machine) TouchStart(points []Point) {
	if len(points) == 2 {
		m.abandonDraft()
		m.state = Pinching
		m.view.PinchStart(points[0].X, points[0].Y, points[1].X, points[1].Y)
		return
	}
	if len(points) != 1 {
		return
	}
	m.PointerDown(points[0].X, points[0].Y)
}

func (m *Machine) TouchMove(points []Point) {
	if m.state == Pinching && len(points) == 2 {
		m.view.PinchMove(points[0].X, points[0].Y, points[1].X, points[1].Y)
		m.changed()
		return
	}
	if len(points) != 1 {
		return
	}
	m.PointerMove(points[0].X, points[0].Y)
}

// TouchEnd receives the lifted point and how many touches remain down.
func (m *Machine) TouchEnd(lifted Point, remaining int) {
	if m.state == Pinching {
		m.view.PinchEnd()
		if remaining >= 1 {
			return
		}
		m.state = Idle
		return
	}
	m.PointerUp(lifted.X, lifted.Y)
}

// CommitText finalizes the pending text entry. Blank text cancels
// without creating a shape.
func (m *Machine) CommitText(text string) {
	if m.state != EditingText {
		return
	}
	m.state = Idle
	if strings.TrimSpace(text) == "" {
		return
	}

	s := &shape.Text{
		Common: shape.Common{
			Type:      shape.KindText,
			ID:        shape.NewID(),
			Color:     m.color,
			LineWidth: m.lineWidth,
		},
		X:    m.textX,
		Y:    m.textY,
		Text: text,
	}
	m.shapes.Append(s)
	if m.OnCommit != nil {
		m.OnCommit(s)
	}
	m.changed()
}

// CancelText abandons the pending text entry (Escape).
func (m *Machine) CancelText() {
	if m.state == EditingText {
		m.state = Idle
	}
}

func (m *Machine) abandonDraft() {
	m.draft = nil
	m.pencilPoints = nil
	if m.state == Dragging {
		m.state = Idle
	}
}

// rebuildDraft recomputes the candidate geometry from anchor to the
// current world point per the active tool's variant rule. The draft id
// stays empty until commit.
func (m *Machine) rebuildDraft() {
	common := shape.Common{Color: m.color, LineWidth: m.lineWidth}
	width := m.curX - m.anchorX
	height := m.curY - m.anchorY

	switch m.tool {
	case Rect:
		common.Type = shape.KindRect
		m.draft = &shape.Rect{Common: common, X: m.anchorX, Y: m.anchorY, Width: width, Height: height}

	case Ellipse:
		common.Type = shape.KindEllipse
		m.draft = &shape.Ellipse{
			Common:  common,
			CenterX: m.anchorX + width/2,
			CenterY: m.anchorY + height/2,
			RadiusX: abs(width) / 2,
			RadiusY: abs(height) / 2,
		}

	case Line:
		common.Type = shape.KindLine
		m.draft = &shape.Line{Common: common, StartX: m.anchorX, StartY: m.anchorY, EndX: m.curX, EndY: m.curY}

	case Arrow:
		common.Type = shape.KindArrow
		m.draft = &shape.Arrow{Common: common, StartX: m.anchorX, StartY: m.anchorY, EndX: m.curX, EndY: m.curY}

	case Diamond:
		common.Type = shape.KindDiamond
		m.draft = &shape.Diamond{Common: common, X: m.anchorX, Y: m.anchorY, Width: width, Height: height}

	case Pencil:
		common.Type = shape.KindPencil
		points := make([]shape.Point, len(m.pencilPoints))
		copy(points, m.pencilPoints)
		m.draft = &shape.Pencil{Common: common, Points: points}

	default:
		m.draft = nil
	}
}

func (m *Machine) changed() {
	if m.OnChanged != nil {
		m.OnChanged()
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
