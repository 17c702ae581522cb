// Package export writes a board's committed shapes out as PDF or PNG.
package export

import (
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"sketchroom/internal/render"
	"sketchroom/internal/shape"
)

const pdfMargin = 24.0

// WritePDF renders the shapes as vector strokes on a single landscape
// A4 page, scaled to fit.
func WritePDF(path string, shapes []shape.Shape) error {
	p := gofpdf.New("L", "pt", "A4", "")
	p.AddPage()

	pageW, pageH := p.GetPageSize()
	minX, minY, maxX, maxY := bounds(shapes)
	scale := fitScale(maxX-minX, maxY-minY, pageW-2*pdfMargin, pageH-2*pdfMargin)
	tx := func(x float64) float64 { return (x-minX)*scale + pdfMargin }
	ty := func(y float64) float64 { return (y-minY)*scale + pdfMargin }

	for _, s := range shapes {
		meta := s.Meta()
		r, g, b := hexRGB(meta.Color)
		p.SetDrawColor(r, g, b)
		p.SetTextColor(r, g, b)
		width := meta.LineWidth
		if width == 0 {
			width = 2
		}
		p.SetLineWidth(width * scale)

		switch v := s.(type) {
		case *shape.Rect:
			x, y, w, h := normalized(v.X, v.Y, v.Width, v.Height)
			p.Rect(tx(x), ty(y), w*scale, h*scale, "D")

		case *shape.Diamond:
			cx := v.X + v.Width/2
			cy := v.Y + v.Height/2
			p.Line(tx(cx), ty(v.Y), tx(v.X+v.Width), ty(cy))
			p.Line(tx(v.X+v.Width), ty(cy), tx(cx), ty(v.Y+v.Height))
			p.Line(tx(cx), ty(v.Y+v.Height), tx(v.X), ty(cy))
			p.Line(tx(v.X), ty(cy), tx(cx), ty(v.Y))

		case *shape.Ellipse:
			p.Ellipse(tx(v.CenterX), ty(v.CenterY), v.RadiusX*scale, v.RadiusY*scale, 0, "D")

		case *shape.Line:
			p.Line(tx(v.StartX), ty(v.StartY), tx(v.EndX), ty(v.EndY))

		case *shape.Arrow:
			p.Line(tx(v.StartX), ty(v.StartY), tx(v.EndX), ty(v.EndY))
			angle := math.Atan2(v.EndY-v.StartY, v.EndX-v.StartX)
			for _, off := range []float64{angle - math.Pi/6, angle + math.Pi/6} {
				p.Line(tx(v.EndX), ty(v.EndY),
					tx(v.EndX-10*math.Cos(off)), ty(v.EndY-10*math.Sin(off)))
			}

		case *shape.Pencil:
			for i := 1; i < len(v.Points); i++ {
				p.Line(tx(v.Points[i-1].X), ty(v.Points[i-1].Y), tx(v.Points[i].X), ty(v.Points[i].Y))
			}

		case *shape.Text:
			size := float64(render.FontSize(width)) * scale
			p.SetFont("Helvetica", "", size)
			p.Text(tx(v.X), ty(v.Y)+size, v.Text)
		}
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

// bounds returns the world-space bounding box of the shapes, or a unit
// box when there is nothing to measure.
func bounds(shapes []shape.Shape) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	grow := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	for _, s := range shapes {
		switch v := s.(type) {
		case *shape.Rect:
			grow(v.X, v.Y)
			grow(v.X+v.Width, v.Y+v.Height)
		case *shape.Diamond:
			grow(v.X, v.Y)
			grow(v.X+v.Width, v.Y+v.Height)
		case *shape.Ellipse:
			grow(v.CenterX-v.RadiusX, v.CenterY-v.RadiusY)
			grow(v.CenterX+v.RadiusX, v.CenterY+v.RadiusY)
		case *shape.Line:
			grow(v.StartX, v.StartY)
			grow(v.EndX, v.EndY)
		case *shape.Arrow:
			grow(v.StartX, v.StartY)
			grow(v.EndX, v.EndY)
		case *shape.Pencil:
			for _, pt := range v.Points {
				grow(pt.X, pt.Y)
			}
		case *shape.Text:
			grow(v.X, v.Y)
			grow(v.X+float64(len(v.Text))*15, v.Y+24)
		}
	}

	if math.IsInf(minX, 1) {
		return 0, 0, 1, 1
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}
	return minX, minY, maxX, maxY
}

func fitScale(w, h, availW, availH float64) float64 {
	s := math.Min(availW/w, availH/h)
	return math.Min(s, 1)
}

func normalized(x, y, w, h float64) (float64, float64, float64, float64) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return x, y, w, h
}

// hexRGB parses "#rrggbb"; anything else comes back white.
func hexRGB(hex string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return 255, 255, 255
	}
	return r, g, b
}
