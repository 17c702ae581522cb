package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchroom/internal/render"
	"sketchroom/internal/shape"
	"sketchroom/internal/tool"
	"sketchroom/internal/view"
)

func newTestBoard() *BoardWidget {
	v := view.New()
	c := shape.NewCollection()
	return NewBoardWidget(v, c, tool.NewMachine(v, c), render.NewEngine(200, 200))
}

// Must run before any test in this package creates an app: the join
// status is set while the event loop is not yet running.
func TestSetStatusBeforeAppExists(t *testing.T) {
	b := newTestBoard()

	b.SetStatus("Joined retro with 3 shapes")
	assert.Equal(t, "Joined retro with 3 shapes", b.StatusBar().Text)
}

func TestScrollZoomsAtCursor(t *testing.T) {
	test.NewApp()
	b := newTestBoard()

	wxBefore, wyBefore := b.Viewport().ToWorld(120, 80)
	b.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(120, 80)},
		Scrolled:   fyne.Delta{DY: 40},
	})

	assert.InDelta(t, 1.1, b.Viewport().Scale, 1e-9)
	wx, wy := b.Viewport().ToWorld(120, 80)
	assert.InDelta(t, wxBefore, wx, 1e-6, "world point under the cursor must not move")
	assert.InDelta(t, wyBefore, wy, 1e-6)

	zoomed := b.Viewport().Scale
	b.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(120, 80)},
		Scrolled:   fyne.Delta{DY: -40},
	})
	assert.Less(t, b.Viewport().Scale, zoomed)
}

func openEntry(t *testing.T, b *BoardWidget, win fyne.Window) *textEntry {
	t.Helper()
	b.Machine().SetTool(tool.Text)
	b.Machine().PointerDown(30, 40)
	require.Equal(t, tool.EditingText, b.Machine().State())

	pop, ok := win.Canvas().Overlays().Top().(*widget.PopUp)
	require.True(t, ok, "entry surface should be up")
	entry, ok := pop.Content.(*textEntry)
	require.True(t, ok)
	return entry
}

func TestTextToolEntryAtClick(t *testing.T) {
	test.NewApp()
	b := newTestBoard()
	win := test.NewWindow(b)
	defer win.Close()
	b.SetWindow(win)

	entry := openEntry(t, b, win)
	entry.SetText("note")
	entry.OnSubmitted("note")

	assert.Equal(t, tool.Idle, b.Machine().State())
	require.Equal(t, 1, b.Shapes().Len())
	txt := b.Shapes().All()[0].(*shape.Text)
	assert.Equal(t, "note", txt.Text)
	assert.Nil(t, win.Canvas().Overlays().Top())
}

func TestTextToolEscapeCancels(t *testing.T) {
	test.NewApp()
	b := newTestBoard()
	win := test.NewWindow(b)
	defer win.Close()
	b.SetWindow(win)

	entry := openEntry(t, b, win)
	entry.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})

	assert.Equal(t, tool.Idle, b.Machine().State())
	assert.Equal(t, 0, b.Shapes().Len())
	assert.Nil(t, win.Canvas().Overlays().Top())
}
