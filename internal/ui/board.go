package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"sketchroom/internal/render"
	"sketchroom/internal/shape"
	"sketchroom/internal/tool"
	"sketchroom/internal/view"
)

// BoardWidget is the drawable surface: it feeds pointer input to the
// tool machine and rasterizes frames through the render engine. It owns
// no toolbars, scrollbars or window chrome.
type BoardWidget struct {
	widget.BaseWidget

	viewport *view.Viewport
	shapes   *shape.Collection
	machine  *tool.Machine
	engine   *render.Engine

	raster *canvas.Raster
	status *widget.Label
	win    fyne.Window

	lastDragX, lastDragY float64
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(v *view.Viewport, shapes *shape.Collection, m *tool.Machine, e *render.Engine) *BoardWidget {
	b := &BoardWidget{
		viewport: v,
		shapes:   shapes,
		machine:  m,
		engine:   e,
		status:   widget.NewLabel("Ready"),
	}
	b.raster = canvas.NewRaster(b.frame)
	m.OnChanged = b.Refresh
	m.OnTextEdit = b.openTextEntry
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Machine() *tool.Machine    { return b.machine }
func (b *BoardWidget) Viewport() *view.Viewport  { return b.viewport }
func (b *BoardWidget) Shapes() *shape.Collection { return b.shapes }
func (b *BoardWidget) Engine() *render.Engine    { return b.engine }
func (b *BoardWidget) StatusBar() *widget.Label  { return b.status }
func (b *BoardWidget) SetWindow(win fyne.Window) { b.win = win }

// SetStatus updates the status bar. Safe to call before the app exists;
// the text shows once the window is built.
func (b *BoardWidget) SetStatus(text string) {
	if fyne.CurrentApp() == nil {
		b.status.Text = text
		return
	}
	fyne.Do(func() { b.status.SetText(text) })
}

// frame renders one full-redraw frame at the raster's pixel size.
func (b *BoardWidget) frame(w, h int) image.Image {
	b.engine.Resize(w, h)
	return b.engine.Frame(b.shapes.All(), b.machine.Draft(), b.viewport)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.lastDragX, b.lastDragY = float64(e.Position.X), float64(e.Position.Y)
	b.machine.PointerDown(b.lastDragX, b.lastDragY)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.machine.PointerUp(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.lastDragX, b.lastDragY = float64(e.Position.X), float64(e.Position.Y)
	b.machine.PointerMove(b.lastDragX, b.lastDragY)
}

// DragEnd fires without a position; the last drag point stands in.
func (b *BoardWidget) DragEnd() {
	b.machine.PointerUp(b.lastDragX, b.lastDragY)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

// Scrolled zooms about the cursor, wheel up in, wheel down out.
// Panning is the pan tool's job.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	factor := 1.1
	if e.Scrolled.DY < 0 {
		factor = 0.9
	}
	b.viewport.ZoomAt(float64(e.Position.X), float64(e.Position.Y), factor)
	b.Refresh()
}

func (b *BoardWidget) ZoomIn() {
	cx, cy := b.center()
	b.viewport.ZoomIn(cx, cy)
	b.Refresh()
}

func (b *BoardWidget) ZoomOut() {
	cx, cy := b.center()
	b.viewport.ZoomOut(cx, cy)
	b.Refresh()
}

func (b *BoardWidget) ResetView() {
	b.viewport.Reset()
	b.Refresh()
}

func (b *BoardWidget) center() (float64, float64) {
	size := b.Size()
	return float64(size.Width) / 2, float64(size.Height) / 2
}

// openTextEntry pops the inline entry surface up at the click position.
// Enter commits, Escape cancels.
func (b *BoardWidget) openTextEntry(sx, sy float64) {
	if b.win == nil {
		b.machine.CancelText()
		return
	}
	entry := newTextEntry()
	pop := widget.NewModalPopUp(entry, b.win.Canvas())
	entry.OnSubmitted = func(text string) {
		pop.Hide()
		b.machine.CommitText(text)
		b.Refresh()
	}
	entry.onCancel = func() {
		pop.Hide()
		b.machine.CancelText()
	}
	pop.ShowAtPosition(fyne.NewPos(float32(sx), float32(sy)))
	pop.Resize(fyne.NewSize(180, entry.MinSize().Height))
	b.win.Canvas().Focus(entry)
}

// textEntry is the text tool's entry surface: a plain entry that also
// reports Escape.
type textEntry struct {
	widget.Entry
	onCancel func()
}

func newTextEntry() *textEntry {
	e := &textEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *textEntry) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape {
		if e.onCancel != nil {
			e.onCancel()
		}
		return
	}
	e.Entry.TypedKey(ev)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{board: b}
}

type boardRenderer struct {
	board *BoardWidget
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.board.raster.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Refresh() {
	r.board.raster.Refresh()
}

func (r *boardRenderer) Destroy() {}
