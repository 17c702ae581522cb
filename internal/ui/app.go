package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
)

// BuildWindow creates the application and assembles the window around an
// already-wired board widget. Callers wire their transport callbacks
// between BuildWindow and ShowAndRun: the callbacks go through fyne.Do,
// which needs the app to exist.
func BuildWindow(title string, board *BoardWidget) fyne.Window {
	a := app.New()
	win := a.NewWindow(title)
	win.Resize(fyne.NewSize(1024, 768))
	board.SetWindow(win)

	toolbar := NewToolbar(board)
	content := container.NewBorder(toolbar, board.StatusBar(), nil, nil, board)

	win.SetContent(content)
	return win
}
