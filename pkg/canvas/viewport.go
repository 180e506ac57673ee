package canvas

import (
	"math"

	"github.com/ha1tch/attackplan/pkg/plan"
)

// Zoom limits.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Viewport is the pan/zoom transform between canvas and screen space:
// screen = canvas*Zoom + (X, Y).
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Identity returns the untransformed viewport.
func Identity() Viewport {
	return Viewport{Zoom: 1}
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ScreenToCanvas maps a pointer position to canvas space.
func (v Viewport) ScreenToCanvas(p plan.Point) plan.Point {
	z := v.zoom()
	return plan.Point{X: (p.X - v.X) / z, Y: (p.Y - v.Y) / z}
}

// CanvasToScreen maps a canvas point to screen space.
func (v Viewport) CanvasToScreen(p plan.Point) plan.Point {
	z := v.zoom()
	return plan.Point{X: p.X*z + v.X, Y: p.Y*z + v.Y}
}

// RectToScreen maps a canvas rectangle to screen space.
func (v Viewport) RectToScreen(r Rect) Rect {
	p := v.CanvasToScreen(plan.Point{X: r.X, Y: r.Y})
	z := v.zoom()
	return Rect{X: p.X, Y: p.Y, W: r.W * z, H: r.H * z}
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// ZoomAt multiplies the zoom by factor, keeping the canvas point under
// the screen position at fixed.
func (v *Viewport) ZoomAt(at plan.Point, factor float64) {
	before := v.ScreenToCanvas(at)
	v.Zoom = clampZoom(v.zoom() * factor)
	v.X = at.X - before.X*v.Zoom
	v.Y = at.Y - before.Y*v.Zoom
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Fit centres nodes in a w×h screen area with padding on each side. An
// empty collection resets to the identity transform.
func (v *Viewport) Fit(nodes []plan.Node, w, h, padding float64) {
	if len(nodes) == 0 {
		*v = Identity()
		return
	}
	b := NodeRect(nodes[0])
	for _, n := range nodes[1:] {
		b = b.Union(NodeRect(n))
	}
	availW := math.Max(w-2*padding, 1)
	availH := math.Max(h-2*padding, 1)
	z := 1.0
	if b.W > 0 && b.H > 0 {
		z = math.Min(availW/b.W, availH/b.H)
	}
	v.Zoom = clampZoom(z)
	c := b.Center()
	v.X = w/2 - c.X*v.Zoom
	v.Y = h/2 - c.Y*v.Zoom
}
