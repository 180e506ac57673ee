package canvas

import (
	"math"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// GridStep is the grid spacing in canvas units.
const GridStep = 20

// AnchorFrame is a connection handle in screen space.
type AnchorFrame struct {
	Anchor plan.Anchor
	Point  plan.Point
	Muted  bool
}

// Button is a clickable toolbar entry in screen space.
type Button struct {
	Action render.Action
	Label  string
	Rect   Rect
}

// NodeFrame is one node laid out on screen.
type NodeFrame struct {
	ID       string
	Rect     Rect
	View     render.View
	Selected bool
	Hovered  bool
	Focused  bool
	Anchors  []AnchorFrame
	Toolbar  []Button
	Resize   *Rect // resize handle, nil when not resizable
}

// EdgeFrame is one edge as a screen-space polyline.
type EdgeFrame struct {
	ID       string
	Source   string
	Target   string
	Points   []plan.Point
	Selected bool
}

// MinimapEntry is one node on the minimap, in canvas space.
type MinimapEntry struct {
	ID    string
	Rect  Rect
	Color colorful.Color
}

// Control is a viewport control button.
type Control string

const (
	ControlZoomIn  Control = "zoom-in"
	ControlZoomOut Control = "zoom-out"
	ControlFit     Control = "fit"
)

// ControlButton is a control placed on screen.
type ControlButton struct {
	Control Control
	Label   string
	Rect    Rect
}

// Grid describes the background grid in screen space.
type Grid struct {
	Step   float64
	Origin plan.Point
}

// Frame is everything a painter needs to draw the canvas once.
type Frame struct {
	State    State
	Viewport Viewport
	Width    float64
	Height   float64

	Grid     Grid
	Nodes    []NodeFrame
	Edges    []EdgeFrame
	Minimap  []MinimapEntry
	World    Rect // canvas bounds of all nodes, for scaling the minimap
	Controls []ControlButton
	Menu     *ContextMenu
	Preview  []plan.Point // connection being dragged, nil otherwise
}

// Frame lays out the current graph.
func (c *Controller) Frame() Frame {
	c.sync()
	f := Frame{
		State:    c.state,
		Viewport: c.viewport,
		Width:    c.width,
		Height:   c.height,
		Nodes:    c.layout(),
		Edges:    c.edgeFrames(),
		Controls: c.controls(),
	}

	step := GridStep * c.viewport.zoom()
	f.Grid = Grid{
		Step:   step,
		Origin: plan.Point{X: math.Mod(c.viewport.X, step), Y: math.Mod(c.viewport.Y, step)},
	}

	for i, n := range c.src.Nodes() {
		r := NodeRect(n)
		if i == 0 {
			f.World = r
		} else {
			f.World = f.World.Union(r)
		}
		f.Minimap = append(f.Minimap, MinimapEntry{ID: n.ID(), Rect: r, Color: render.MinimapColor(n)})
	}

	if c.menu.Visible {
		m := c.menu
		f.Menu = &m
	}
	if c.state == Connecting {
		if n, ok := c.node(c.connFrom.Source); ok {
			from := AnchorPoint(c.viewport.RectToScreen(NodeRect(n)), c.connFrom.SourceAnchor)
			f.Preview = []plan.Point{from, c.connTo}
		}
	}
	return f
}

func (c *Controller) layout() []NodeFrame {
	nodes := c.src.Nodes()
	out := make([]NodeFrame, 0, len(nodes))
	for _, n := range nodes {
		id := n.ID()
		r := c.viewport.RectToScreen(NodeRect(n))
		ctx := render.Context{
			Selected: c.sel.HasNode(id),
			Hovered:  c.sel.Hover() == id,
			Columns:  int(r.W/CellWidth) - 2,
		}
		if ed, ok := c.editors[id]; ok {
			ctx.Editor = ed
		}
		v := c.registry.Render(n, ctx)

		nf := NodeFrame{
			ID:       id,
			Rect:     r,
			View:     v,
			Selected: ctx.Selected,
			Hovered:  ctx.Hovered,
			Focused:  c.focus == id,
		}
		for _, a := range v.Anchors {
			nf.Anchors = append(nf.Anchors, AnchorFrame{Anchor: a, Point: AnchorPoint(r, a), Muted: v.AnchorsMuted})
		}
		if v.Toolbar != nil {
			nf.Toolbar = toolbarButtons(r, v.Toolbar)
		}
		if v.Resizable {
			h := Rect{X: r.X + r.W - CellWidth, Y: r.Y + r.H - CellHeight, W: CellWidth, H: CellHeight}
			nf.Resize = &h
		}
		out = append(out, nf)
	}
	return out
}

// ActionLabel returns the button caption of a toolbar action.
func ActionLabel(a render.Action, tb *render.Toolbar) string {
	switch a {
	case render.ActionEdit:
		return "Edit"
	case render.ActionSave:
		return "Save"
	case render.ActionCancel:
		return "Cancel"
	case render.ActionBold:
		return "B"
	case render.ActionItalic:
		return "I"
	case render.ActionBullet:
		return "•"
	case render.ActionFontSize:
		return "Aa " + string(tb.FontSize)
	case render.ActionFontWeight:
		return string(tb.FontWeight)
	case render.ActionDelete:
		return "✕"
	}
	return string(a)
}

// toolbarButtons lays the toolbar out in the row above the node.
func toolbarButtons(r Rect, tb *render.Toolbar) []Button {
	x := r.X
	y := r.Y - CellHeight
	out := make([]Button, 0, len(tb.Actions))
	for _, a := range tb.Actions {
		label := ActionLabel(a, tb)
		w := float64(runewidth.StringWidth(label)+2) * CellWidth
		out = append(out, Button{Action: a, Label: label, Rect: Rect{X: x, Y: y, W: w, H: CellHeight}})
		x += w
	}
	return out
}

func (c *Controller) edgeFrames() []EdgeFrame {
	rects := make(map[string]Rect)
	for _, n := range c.src.Nodes() {
		rects[n.ID()] = NodeRect(n)
	}
	edges := c.src.Edges()
	out := make([]EdgeFrame, 0, len(edges))
	for _, e := range edges {
		sr, ok1 := rects[e.Source]
		tr, ok2 := rects[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		pts := Route(sr, e.SourceAnchor, tr, e.TargetAnchor)
		for i, p := range pts {
			pts[i] = c.viewport.CanvasToScreen(p)
		}
		out = append(out, EdgeFrame{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Points:   pts,
			Selected: c.sel.HasEdge(e.ID),
		})
	}
	return out
}

// controls places the zoom buttons at the bottom-left corner. They are
// omitted until the screen size is known.
func (c *Controller) controls() []ControlButton {
	if c.height <= 0 {
		return nil
	}
	specs := []struct {
		ctl   Control
		label string
	}{
		{ControlZoomIn, "+"},
		{ControlZoomOut, "-"},
		{ControlFit, "⤢"},
	}
	out := make([]ControlButton, 0, len(specs))
	for i, s := range specs {
		out = append(out, ControlButton{
			Control: s.ctl,
			Label:   s.label,
			Rect: Rect{
				X: CellWidth + float64(i*4)*CellWidth,
				Y: c.height - 2*CellHeight,
				W: 3 * CellWidth,
				H: CellHeight,
			},
		})
	}
	return out
}

// RunControl applies a viewport control.
func (c *Controller) RunControl(ctl Control) {
	center := plan.Point{X: c.width / 2, Y: c.height / 2}
	switch ctl {
	case ControlZoomIn:
		c.viewport.ZoomAt(center, zoomStep)
	case ControlZoomOut:
		c.viewport.ZoomAt(center, 1/zoomStep)
	case ControlFit:
		c.viewport.Fit(c.src.Nodes(), c.width, c.height, 2*CellHeight)
	}
}

const zoomStep = 1.25
