package ui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"sketchroom/internal/export"
	"sketchroom/internal/tool"
)

// The tool order mirrors the web client's left sidebar.
var toolNames = []string{
	"selection", "pan", "pencil", "rect", "ellipse",
	"line", "arrow", "diamond", "text", "eraser",
}

var toolByName = map[string]tool.Tool{
	"selection": tool.Selection,
	"pan":       tool.Pan,
	"pencil":    tool.Pencil,
	"rect":      tool.Rect,
	"ellipse":   tool.Ellipse,
	"line":      tool.Line,
	"arrow":     tool.Arrow,
	"diamond":   tool.Diamond,
	"text":      tool.Text,
	"eraser":    tool.Eraser,
}

// --- Custom widget for color swatches ---

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(c color.Color, hex string, tapped func(hex string)) *colorSwatch {
	s := &colorSwatch{Color: c, Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// --- The main toolbar ---

func NewToolbar(board *BoardWidget) fyne.CanvasObject {
	toolSelect := widget.NewSelect(toolNames, func(name string) {
		board.Machine().SetTool(toolByName[name])
	})
	toolSelect.SetSelected("pencil")

	onColorTapped := func(hex string) {
		board.Machine().SetColor(hex)
	}
	colorBox := container.NewHBox(
		newColorSwatch(color.White, "#ffffff", onColorTapped),
		newColorSwatch(color.NRGBA{R: 255, A: 255}, "#ff0000", onColorTapped),
		newColorSwatch(color.NRGBA{G: 255, A: 255}, "#00ff00", onColorTapped),
		newColorSwatch(color.NRGBA{B: 255, A: 255}, "#0000ff", onColorTapped),
		newColorSwatch(color.NRGBA{R: 255, G: 255, A: 255}, "#ffff00", onColorTapped),
	)

	strokeSlider := widget.NewSlider(1, 10)
	strokeSlider.SetValue(2)
	strokeSlider.OnChanged = func(val float64) {
		board.Machine().SetLineWidth(val)
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), strokeSlider)

	zoomLabel := widget.NewLabel("100%")
	updateZoom := func() {
		zoomLabel.SetText(fmt.Sprintf("%.0f%%", board.Viewport().Scale*100))
	}
	zoomIn := widget.NewButton("+", func() { board.ZoomIn(); updateZoom() })
	zoomOut := widget.NewButton("-", func() { board.ZoomOut(); updateZoom() })
	zoomReset := widget.NewButton("1:1", func() { board.ResetView(); updateZoom() })

	exportBtn := widget.NewButton("Export", func() { showExportDialog(board) })

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		toolSelect,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		widget.NewSeparator(),
		zoomOut, zoomLabel, zoomIn, zoomReset,
		widget.NewSeparator(),
		exportBtn,
		layout.NewSpacer(),
	)
}

func showExportDialog(board *BoardWidget) {
	if board.win == nil {
		return
	}
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		shapes := board.Shapes().All()
		switch ext := writer.URI().Extension(); ext {
		case ".pdf":
			if err := export.WritePDF(writer.URI().Path(), shapes); err != nil {
				log.Printf("[ui] pdf export: %v", err)
				board.SetStatus("Export failed")
				return
			}
		default:
			w, h := board.Engine().Size()
			if err := export.WritePNG(writer, shapes, board.Viewport(), board.Engine().Background(), w, h); err != nil {
				log.Printf("[ui] png export: %v", err)
				board.SetStatus("Export failed")
				return
			}
		}
		board.SetStatus(fmt.Sprintf("Exported %d shapes", len(shapes)))
	}, board.win)
}
