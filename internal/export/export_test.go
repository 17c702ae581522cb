package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchroom/internal/shape"
	"sketchroom/internal/view"
)

func sampleShapes() []shape.Shape {
	return []shape.Shape{
		&shape.Rect{Common: shape.Common{Type: shape.KindRect, ID: "r", Color: "#ff0000", LineWidth: 2}, X: 10, Y: 10, Width: 50, Height: 30},
		&shape.Arrow{Common: shape.Common{Type: shape.KindArrow, ID: "a", Color: "#00ff00"}, StartX: 0, StartY: 0, EndX: 100, EndY: 100},
		&shape.Pencil{Common: shape.Common{Type: shape.KindPencil, ID: "p"}, Points: []shape.Point{{X: 1, Y: 1}, {X: 5, Y: 9}}},
		&shape.Text{Common: shape.Common{Type: shape.KindText, ID: "t", Color: "#ffffff"}, X: 20, Y: 40, Text: "note"},
	}
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.pdf")
	require.NoError(t, WritePDF(path, sampleShapes()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestWritePDFEmptyBoard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, WritePDF(path, nil))
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sampleShapes(), view.New(), "#121212", 320, 240))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestBounds(t *testing.T) {
	minX, minY, maxX, maxY := bounds(sampleShapes())
	assert.Equal(t, 0.0, minX)
	assert.Equal(t, 0.0, minY)
	assert.Equal(t, 100.0, maxX)
	assert.Equal(t, 100.0, maxY)

	minX, minY, maxX, maxY = bounds(nil)
	assert.Equal(t, [4]float64{0, 0, 1, 1}, [4]float64{minX, minY, maxX, maxY})
}

func TestHexRGB(t *testing.T) {
	r, g, b := hexRGB("#ff8000")
	assert.Equal(t, [3]int{255, 128, 0}, [3]int{r, g, b})

	r, g, b = hexRGB("red")
	assert.Equal(t, [3]int{255, 255, 255}, [3]int{r, g, b})
}
