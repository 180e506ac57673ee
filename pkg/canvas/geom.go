package canvas

import (
	"math"

	"github.com/ha1tch/attackplan/pkg/plan"
)

// Screen units per character cell. Frames are laid out in screen units;
// a terminal painter divides by these to get cells.
const (
	CellWidth  = 10
	CellHeight = 20
)

// Hit-test tolerances in screen units.
const (
	HandleRadius  = 12
	EdgeTolerance = 10
	edgeStub      = 20 // canvas units an edge leaves its anchor before turning
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p plan.Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() plan.Point {
	return plan.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Union returns the smallest rectangle holding r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.W, o.X+o.W)
	y1 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// NodeRect returns the canvas-space bounds of n.
func NodeRect(n plan.Node) Rect {
	s := n.Bounds()
	return Rect{X: n.Position.X, Y: n.Position.Y, W: s.Width, H: s.Height}
}

// AnchorPoint returns where anchor a sits on r.
func AnchorPoint(r Rect, a plan.Anchor) plan.Point {
	switch a {
	case plan.AnchorTop:
		return plan.Point{X: r.X + r.W/2, Y: r.Y}
	case plan.AnchorBottom:
		return plan.Point{X: r.X + r.W/2, Y: r.Y + r.H}
	case plan.AnchorLeft:
		return plan.Point{X: r.X, Y: r.Y + r.H/2}
	default:
		return plan.Point{X: r.X + r.W, Y: r.Y + r.H/2}
	}
}

func anchorDir(a plan.Anchor) plan.Point {
	switch a {
	case plan.AnchorTop:
		return plan.Point{Y: -1}
	case plan.AnchorBottom:
		return plan.Point{Y: 1}
	case plan.AnchorLeft:
		return plan.Point{X: -1}
	default:
		return plan.Point{X: 1}
	}
}

func vertical(a plan.Anchor) bool {
	return a == plan.AnchorTop || a == plan.AnchorBottom
}

// Route returns an orthogonal polyline from anchor sa of src to anchor ta
// of dst, in canvas space.
func Route(src Rect, sa plan.Anchor, dst Rect, ta plan.Anchor) []plan.Point {
	p0 := AnchorPoint(src, sa)
	p3 := AnchorPoint(dst, ta)
	d0, d3 := anchorDir(sa), anchorDir(ta)
	p1 := plan.Point{X: p0.X + d0.X*edgeStub, Y: p0.Y + d0.Y*edgeStub}
	p2 := plan.Point{X: p3.X + d3.X*edgeStub, Y: p3.Y + d3.Y*edgeStub}

	pts := []plan.Point{p0, p1}
	if vertical(sa) {
		midY := (p1.Y + p2.Y) / 2
		pts = append(pts, plan.Point{X: p1.X, Y: midY}, plan.Point{X: p2.X, Y: midY})
	} else {
		midX := (p1.X + p2.X) / 2
		pts = append(pts, plan.Point{X: midX, Y: p1.Y}, plan.Point{X: midX, Y: p2.Y})
	}
	return append(pts, p2, p3)
}

func dist(a, b plan.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// segmentDist returns the distance from p to the segment ab.
func segmentDist(p, a, b plan.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return dist(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return dist(p, plan.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

func polylineDist(p plan.Point, pts []plan.Point) float64 {
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, segmentDist(p, pts[i-1], pts[i]))
	}
	return best
}
