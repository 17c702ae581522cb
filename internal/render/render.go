// Package render rasterizes the shape collection plus any in-progress
// draft. Every trigger redraws the whole frame; there is no dirty-rect
// tracking.
package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"sketchroom/internal/shape"
	"sketchroom/internal/view"
)

const (
	// DefaultBackground matches the canvas fill of the web client.
	DefaultBackground = "#121212"
	defaultStroke     = "#ffffff"
	defaultLineWidth  = 2.0

	// arrowHeadLength is the length of each stroke of the V head, in
	// world units.
	arrowHeadLength = 10.0
)

// Engine draws frames at a fixed pixel size. Not safe for concurrent
// use; all drawing happens on the UI goroutine.
type Engine struct {
	width, height int
	background    string

	ttf   *truetype.Font
	faces map[int]font.Face
}

func NewEngine(width, height int) *Engine {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		// goregular.TTF is compiled in; a parse failure is a build
		// defect, not a runtime condition.
		panic(err)
	}
	return &Engine{
		width:      width,
		height:     height,
		background: DefaultBackground,
		ttf:        f,
		faces:      make(map[int]font.Face),
	}
}

func (e *Engine) Resize(width, height int) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
}

func (e *Engine) SetBackground(hex string) { e.background = hex }
func (e *Engine) Background() string       { return e.background }
func (e *Engine) Size() (int, int)         { return e.width, e.height }

// Frame renders the committed shapes in insertion order, then the draft
// (if any), under the viewport's pan/scale transform.
func (e *Engine) Frame(shapes []shape.Shape, draft shape.Shape, v *view.Viewport) image.Image {
	dc := gg.NewContext(e.width, e.height)
	dc.SetHexColor(e.background)
	dc.Clear()

	dc.Push()
	dc.Translate(v.PanX, v.PanY)
	dc.Scale(v.Scale, v.Scale)

	for _, s := range shapes {
		e.draw(dc, s)
	}
	if draft != nil {
		e.draw(dc, draft)
	}

	dc.Pop()
	return dc.Image()
}

func (e *Engine) draw(dc *gg.Context, s shape.Shape) {
	meta := s.Meta()
	color := meta.Color
	if color == "" {
		color = defaultStroke
	}
	width := meta.LineWidth
	if width == 0 {
		width = defaultLineWidth
	}
	dc.SetHexColor(color)
	dc.SetLineWidth(width)

	switch v := s.(type) {
	case *shape.Rect:
		x, y, w, h := normalize(v.X, v.Y, v.Width, v.Height)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

	case *shape.Ellipse:
		dc.DrawEllipse(v.CenterX, v.CenterY, v.RadiusX, v.RadiusY)
		dc.Stroke()

	case *shape.Line:
		dc.DrawLine(v.StartX, v.StartY, v.EndX, v.EndY)
		dc.Stroke()

	case *shape.Arrow:
		dc.DrawLine(v.StartX, v.StartY, v.EndX, v.EndY)
		dc.Stroke()
		angle := math.Atan2(v.EndY-v.StartY, v.EndX-v.StartX)
		for _, off := range []float64{angle - math.Pi/6, angle + math.Pi/6} {
			dc.DrawLine(v.EndX, v.EndY,
				v.EndX-arrowHeadLength*math.Cos(off),
				v.EndY-arrowHeadLength*math.Sin(off))
			dc.Stroke()
		}

	case *shape.Diamond:
		cx := v.X + v.Width/2
		cy := v.Y + v.Height/2
		dc.MoveTo(cx, v.Y)
		dc.LineTo(v.X+v.Width, cy)
		dc.LineTo(cx, v.Y+v.Height)
		dc.LineTo(v.X, cy)
		dc.ClosePath()
		dc.Stroke()

	case *shape.Pencil:
		if len(v.Points) == 0 {
			return
		}
		dc.MoveTo(v.Points[0].X, v.Points[0].Y)
		for _, p := range v.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()

	case *shape.Text:
		size := FontSize(width)
		dc.SetFontFace(e.face(size))
		// The anchor is the top-left of the text box.
		dc.DrawString(v.Text, v.X, v.Y+float64(size))
	}
}

// FontSize derives the text pixel size from the stroke width.
func FontSize(lineWidth float64) int {
	return int(16 + 4*lineWidth)
}

func (e *Engine) face(size int) font.Face {
	if f, ok := e.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(e.ttf, &truetype.Options{Size: float64(size)})
	e.faces[size] = f
	return f
}

func normalize(x, y, w, h float64) (float64, float64, float64, float64) {
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return x, y, w, h
}
