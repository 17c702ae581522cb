package shape

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind discriminates the shape union on the wire. The values are the
// original protocol names: an ellipse is called "circle" even though it
// carries two radii.
type Kind string

const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "circle"
	KindLine    Kind = "line"
	KindArrow   Kind = "arrow"
	KindDiamond Kind = "diamond"
	KindPencil  Kind = "pencil"
	KindText    Kind = "text"
)

// Point is a world-coordinate position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Common holds the attributes every variant carries. ID is assigned once
// at commit time and never changes; deletion is by ID.
type Common struct {
	Type      Kind    `json:"type"`
	ID        string  `json:"id"`
	Color     string  `json:"color,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
}

// Shape is the closed union of drawable primitives. Operations over
// shapes (render, hit-test) switch exhaustively on the concrete type, so
// adding a variant is a compile-visible change at each switch.
type Shape interface {
	Meta() *Common
	sealed()
}

// Rect and Diamond use a signed extent: a drag up/left produces negative
// Width/Height, and consumers normalize.
type Rect struct {
	Common
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Diamond struct {
	Common
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Ellipse struct {
	Common
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	RadiusX float64 `json:"radiusX"`
	RadiusY float64 `json:"radiusY"`
}

type Line struct {
	Common
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

type Arrow struct {
	Common
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

// Pencil is a freehand path. Point order is the stroke path; at least one
// point is always present.
type Pencil struct {
	Common
	Points []Point `json:"points"`
}

type Text struct {
	Common
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

func (c *Common) Meta() *Common { return c }

func (*Rect) sealed()    {}
func (*Diamond) sealed() {}
func (*Ellipse) sealed() {}
func (*Line) sealed()    {}
func (*Arrow) sealed()   {}
func (*Pencil) sealed()  {}
func (*Text) sealed()    {}

// NewID returns a fresh globally unique shape id.
func NewID() string { return uuid.NewString() }

// Encode serializes a shape to its wire JSON.
func Encode(s Shape) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses wire JSON into the matching variant. An unrecognized or
// missing type tag is an error; callers treat that as an ignorable
// message, not a fatal one.
func Decode(data []byte) (Shape, error) {
	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}

	var s Shape
	switch probe.Type {
	case KindRect:
		s = &Rect{}
	case KindEllipse:
		s = &Ellipse{}
	case KindLine:
		s = &Line{}
	case KindArrow:
		s = &Arrow{}
	case KindDiamond:
		s = &Diamond{}
	case KindPencil:
		s = &Pencil{}
	case KindText:
		s = &Text{}
	default:
		return nil, fmt.Errorf("decode shape: unknown type %q", probe.Type)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode shape %s: %w", probe.Type, err)
	}
	s.Meta().Type = probe.Type
	return s, nil
}
