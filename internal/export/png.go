package export

import (
	"fmt"
	"image/png"
	"io"

	"sketchroom/internal/render"
	"sketchroom/internal/shape"
	"sketchroom/internal/view"
)

// WritePNG rasterizes the shapes through the render engine and encodes
// the frame as PNG. The view is rendered as the user currently sees it.
func WritePNG(w io.Writer, shapes []shape.Shape, v *view.Viewport, background string, width, height int) error {
	engine := render.NewEngine(width, height)
	if background != "" {
		engine.SetBackground(background)
	}
	img := engine.Frame(shapes, nil, v)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
