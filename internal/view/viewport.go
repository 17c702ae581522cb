// Package view maps between screen pixels and the pan/zoom-independent
// world space shapes are stored in.
package view

import "math"

const (
	MinScale = 0.1
	MaxScale = 5.0
)

// Viewport is per-client state, never persisted or shared.
type Viewport struct {
	PanX  float64
	PanY  float64
	Scale float64

	pinchDist float64
}

func New() *Viewport {
	return &Viewport{Scale: 1}
}

// ToWorld converts a screen point to world coordinates. Pan applies
// before scale, so plain pixel pans need no scale correction.
func (v *Viewport) ToWorld(sx, sy float64) (float64, float64) {
	return (sx - v.PanX) / v.Scale, (sy - v.PanY) / v.Scale
}

// ToScreen is the inverse of ToWorld.
func (v *Viewport) ToScreen(wx, wy float64) (float64, float64) {
	return wx*v.Scale + v.PanX, wy*v.Scale + v.PanY
}

// Pan shifts the viewport by a screen-pixel delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomAt multiplies the scale by factor, clamped to [MinScale, MaxScale],
// keeping the world point under the screen pivot fixed: worldBefore is
// sampled under the old scale, worldAfter under the new scale but old
// pan, and the pan absorbs the difference.
func (v *Viewport) ZoomAt(pivotX, pivotY, factor float64) {
	wxBefore, wyBefore := v.ToWorld(pivotX, pivotY)

	v.Scale *= factor
	v.Scale = math.Min(math.Max(v.Scale, MinScale), MaxScale)

	wxAfter, wyAfter := v.ToWorld(pivotX, pivotY)
	v.PanX += (wxAfter - wxBefore) * v.Scale
	v.PanY += (wyAfter - wyBefore) * v.Scale
}

// ZoomIn and ZoomOut zoom about an explicit center, for keyboard and
// button zoom where there is no cursor pivot.
func (v *Viewport) ZoomIn(centerX, centerY float64)  { v.ZoomAt(centerX, centerY, 1.1) }
func (v *Viewport) ZoomOut(centerX, centerY float64) { v.ZoomAt(centerX, centerY, 0.9) }

// PinchStart records the initial distance between two touch points.
func (v *Viewport) PinchStart(x1, y1, x2, y2 float64) {
	v.pinchDist = math.Hypot(x2-x1, y2-y1)
}

// PinchMove zooms by the ratio of consecutive pinch distances, pivoting
// on the touch midpoint.
func (v *Viewport) PinchMove(x1, y1, x2, y2 float64) {
	dist := math.Hypot(x2-x1, y2-y1)
	if v.pinchDist <= 0 || dist <= 0 {
		v.pinchDist = dist
		return
	}
	midX := (x1 + x2) / 2
	midY := (y1 + y2) / 2
	v.ZoomAt(midX, midY, dist/v.pinchDist)
	v.pinchDist = dist
}

// PinchEnd clears the pinch tracking state.
func (v *Viewport) PinchEnd() {
	v.pinchDist = 0
}

// Reset returns to the identity view.
func (v *Viewport) Reset() {
	v.PanX = 0
	v.PanY = 0
	v.Scale = 1
}
