package canvas

import (
	"math"
	"sort"

	"github.com/ha1tch/attackplan/pkg/input"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
)

// PointerEvent is a mouse or touch event in screen space.
type PointerEvent struct {
	Screen plan.Point
	Button input.Button
	Shift  bool

	defaultPrevented bool
}

// PreventDefault suppresses the host's own handling, such as a native
// context menu.
func (e *PointerEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *PointerEvent) DefaultPrevented() bool { return e.defaultPrevented }

// DropEffect is the feedback a drop target declares during drag-over.
type DropEffect string

const (
	DropNone DropEffect = "none"
	DropMove DropEffect = "move"
	DropCopy DropEffect = "copy"
)

// DragEvent is an external drag (from a palette) over the canvas. Data
// holds an encoded plan.Descriptor.
type DragEvent struct {
	Screen plan.Point
	Data   []byte
	Effect DropEffect

	defaultPrevented bool
}

// PreventDefault marks the canvas as a valid drop target.
func (e *DragEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *DragEvent) DefaultPrevented() bool { return e.defaultPrevented }

type hitKind int

const (
	hitNone hitKind = iota
	hitControl
	hitToolbar
	hitResize
	hitAnchor
	hitNode
	hitEdge
)

type hit struct {
	kind    hitKind
	id      string
	anchor  plan.Anchor
	action  render.Action
	control Control
}

// hitTest finds what lies under a screen point. Controls and toolbars sit
// above nodes; later nodes paint over earlier ones.
func (c *Controller) hitTest(p plan.Point) hit {
	for _, b := range c.controls() {
		if b.Rect.Contains(p) {
			return hit{kind: hitControl, control: b.Control}
		}
	}
	frames := c.layout()
	for i := len(frames) - 1; i >= 0; i-- {
		nf := frames[i]
		// The band just above the node belongs to its top anchor.
		for _, b := range nf.Toolbar {
			if b.Rect.Contains(p) && p.Y < nf.Rect.Y-HandleRadius {
				return hit{kind: hitToolbar, id: nf.ID, action: b.Action}
			}
		}
		if nf.Resize != nil && nf.Resize.Contains(p) {
			return hit{kind: hitResize, id: nf.ID}
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		for _, a := range frames[i].Anchors {
			if dist(p, a.Point) <= HandleRadius {
				return hit{kind: hitAnchor, id: frames[i].ID, anchor: a.Anchor}
			}
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Rect.Contains(p) {
			return hit{kind: hitNode, id: frames[i].ID}
		}
	}
	for _, e := range c.edgeFrames() {
		if polylineDist(p, e.Points) <= EdgeTolerance {
			return hit{kind: hitEdge, id: e.ID}
		}
	}
	return hit{}
}

// NodeAt returns the id of the topmost node under a screen point.
func (c *Controller) NodeAt(p plan.Point) (string, bool) {
	frames := c.layout()
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Rect.Contains(p) {
			return frames[i].ID, true
		}
	}
	return "", false
}

// PointerDown starts a gesture: select, drag, connect, resize or pan.
// While the context menu is open the press goes to the menu, and a press
// outside it only closes it.
func (c *Controller) PointerDown(ev *PointerEvent) {
	c.sync()
	p := ev.Screen

	if c.menu.Visible {
		i, inside := c.menu.HitTest(p)
		if !inside {
			c.closeMenu()
			return
		}
		if i >= 0 && ev.Button == input.ButtonPrimary {
			c.ChooseMenuItem(c.menu.Items[i].ID)
		}
		return
	}

	switch ev.Button {
	case input.ButtonSecondary:
		c.ContextMenu(ev)
		return
	case input.ButtonMiddle:
		c.beginGesture(p, Panning)
		return
	}

	h := c.hitTest(p)
	switch h.kind {
	case hitControl:
		c.RunControl(h.control)

	case hitToolbar:
		c.TextAction(h.id, h.action)

	case hitResize:
		n, _ := c.node(h.id)
		c.beginGesture(p, Resizing)
		c.target = h.id
		c.resizeFrom = n.Bounds()

	case hitAnchor:
		c.beginGesture(p, Connecting)
		c.connFrom = plan.Connection{Source: h.id, SourceAnchor: h.anchor}
		c.connTo = p

	case hitNode:
		wasSelected := c.sel.HasNode(h.id)
		switch {
		case ev.Shift:
			c.sel.ToggleNode(h.id)
		case !wasSelected:
			c.sel.SelectNode(h.id)
		}
		if c.focus != h.id {
			c.focus = ""
		}
		if ed, ok := c.editors[h.id]; ok && ed.Editing() {
			c.focus = h.id
		}
		c.beginGesture(p, Dragging)
		c.target = h.id
		c.dragIDs = c.sel.Nodes()
		for _, id := range c.dragIDs {
			if n, ok := c.node(id); ok {
				c.origins[id] = n.Position
			}
		}

	case hitEdge:
		if ev.Shift {
			c.sel.ToggleEdge(h.id)
		} else {
			c.sel.SelectEdge(h.id)
		}
		c.focus = ""

	default:
		if !ev.Shift {
			c.sel.Clear()
		}
		c.focus = ""
		c.beginGesture(p, Panning)
	}
}

func (c *Controller) beginGesture(p plan.Point, s State) {
	c.state = s
	c.press = p
	c.last = p
	c.moved = false
	c.target = ""
	c.dragIDs = nil
	clear(c.origins)
}

// PointerMove advances the current gesture, or updates hover when idle.
func (c *Controller) PointerMove(ev *PointerEvent) {
	p := ev.Screen
	defer func() { c.last = p }()

	z := c.viewport.zoom()
	delta := plan.Point{X: (p.X - c.press.X) / z, Y: (p.Y - c.press.Y) / z}

	switch c.state {
	case Dragging:
		if p == c.press && !c.moved {
			return
		}
		c.moved = true
		changes := make([]plan.NodeChange, 0, len(c.dragIDs))
		for _, id := range c.dragIDs {
			if o, ok := c.origins[id]; ok {
				changes = append(changes, plan.MoveNode(id, o.Add(delta)))
			}
		}
		c.emitNodes(changes...)

	case Resizing:
		c.moved = true
		s := plan.ClampSize(plan.Size{
			Width:  c.resizeFrom.Width + delta.X,
			Height: c.resizeFrom.Height + delta.Y,
		})
		c.emitNodes(plan.ResizeNode(c.target, s))

	case Connecting:
		c.moved = true
		c.connTo = p

	case Panning:
		c.moved = true
		c.viewport.Pan(p.X-c.last.X, p.Y-c.last.Y)

	default:
		c.Hover(p)
	}
}

// Hover records the node under the pointer.
func (c *Controller) Hover(p plan.Point) {
	id, _ := c.NodeAt(p)
	c.sel.SetHover(id)
}

// PointerUp ends the current gesture. A connection released over an
// anchor or node completes; anywhere else it is dropped silently.
func (c *Controller) PointerUp(ev *PointerEvent) {
	p := ev.Screen
	switch c.state {
	case Dragging:
		if !c.moved {
			c.click(c.target, ev.Shift)
		}
	case Connecting:
		c.finishConnect(p)
	}
	c.state = Idle
	if c.menu.Visible {
		c.state = ContextMenuOpen
	}
	c.target = ""
	c.dragIDs = nil
	clear(c.origins)
	c.sync()
}

func (c *Controller) click(id string, shift bool) {
	n, ok := c.node(id)
	if !ok {
		return
	}
	if c.opts.OnNodeClick != nil {
		c.opts.OnNodeClick(n)
	}
	if !shift {
		c.sel.SelectNode(id)
	}
	// A click on the content of a text node opens it.
	if n.Kind() == plan.KindText && !shift {
		if ed := c.Editor(id); ed != nil && !ed.Editing() {
			ed.Begin()
		}
		c.focus = id
	}
}

func (c *Controller) finishConnect(p plan.Point) {
	h := c.hitTest(p)
	conn := c.connFrom
	switch h.kind {
	case hitAnchor:
		conn.Target, conn.TargetAnchor = h.id, h.anchor
	case hitNode:
		a, ok := c.nearestAnchor(h.id, p)
		if !ok {
			return
		}
		conn.Target, conn.TargetAnchor = h.id, a
	default:
		c.logger.Debug("connection aborted", "source", conn.Source)
		return
	}
	c.Connect(conn)
}

func (c *Controller) nearestAnchor(id string, p plan.Point) (plan.Anchor, bool) {
	for _, nf := range c.layout() {
		if nf.ID != id || len(nf.Anchors) == 0 {
			continue
		}
		sort.SliceStable(nf.Anchors, func(i, j int) bool {
			return dist(p, nf.Anchors[i].Point) < dist(p, nf.Anchors[j].Point)
		})
		return nf.Anchors[0].Anchor, true
	}
	return "", false
}

// ContextMenu opens the menu at the event position, suppressing the
// host's native menu.
func (c *Controller) ContextMenu(ev *PointerEvent) {
	ev.PreventDefault()
	c.menu.Open(ev.Screen, c.viewport.ScreenToCanvas(ev.Screen))
	c.state = ContextMenuOpen
	c.logger.Debug("context menu", "x", c.menu.Canvas.X, "y", c.menu.Canvas.Y)
}

// DragOver accepts an external drag so that Drop fires.
func (c *Controller) DragOver(ev *DragEvent) {
	ev.PreventDefault()
	ev.Effect = DropMove
}

// Drop inserts the node described by the drag payload at the drop
// position. Undecodable payloads are ignored.
func (c *Controller) Drop(ev *DragEvent) bool {
	ev.PreventDefault()
	d, err := plan.DecodeDescriptor(ev.Data)
	if err != nil {
		c.logger.Warn("drop: bad payload", "err", err)
		return false
	}
	at := c.viewport.ScreenToCanvas(ev.Screen)
	if c.opts.OnDrop != nil {
		c.opts.OnDrop(DropEvent{Descriptor: d, Screen: ev.Screen, Canvas: at})
		return true
	}
	n, err := plan.NewNode(d.Kind, at, d.Data)
	if err != nil {
		c.logger.Warn("drop: cannot create node", "err", err)
		return false
	}
	c.logger.Debug("drop", "node", n.ID(), "kind", n.Kind(), "x", at.X, "y", at.Y)
	c.emitNodes(plan.AddNode(n))
	c.sel.SelectNode(n.ID())
	return true
}

// Wheel zooms around the pointer; steps > 0 zoom in.
func (c *Controller) Wheel(at plan.Point, steps float64) {
	c.viewport.ZoomAt(at, math.Pow(zoomStep, steps))
}
