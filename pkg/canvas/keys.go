package canvas

import (
	"github.com/ha1tch/attackplan/pkg/input"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
	"github.com/ha1tch/attackplan/pkg/textedit"
)

// KeyDown handles a key press and reports whether it was consumed. Keys go
// to the focused text editor first; while it is editing, Delete and
// Backspace edit the draft and never delete graph elements.
func (c *Controller) KeyDown(k input.Key) bool {
	c.sync()
	if ed, ok := c.editors[c.focus]; ok && ed.Editing() {
		switch ed.HandleKey(k) {
		case textedit.Ignored:
			return false
		case textedit.Committed, textedit.Canceled:
			c.focus = ""
		}
		return true
	}

	if c.menu.Visible && k.Code == input.KeyEscape {
		c.closeMenu()
		return true
	}

	switch k.Code {
	case input.KeyDelete, input.KeyBackspace:
		return c.DeleteSelection()

	case input.KeyEscape:
		if c.state == Connecting {
			c.state = Idle
			return true
		}
		if !c.sel.Empty() {
			c.sel.Clear()
			return true
		}

	case input.KeyEnter:
		ids := c.sel.Nodes()
		if len(ids) != 1 {
			return false
		}
		if n, ok := c.node(ids[0]); ok && n.Kind() == plan.KindText {
			c.TextAction(ids[0], render.ActionEdit)
			return true
		}

	case input.KeyLeft:
		return c.nudge(-1, 0, k.Shift)
	case input.KeyRight:
		return c.nudge(1, 0, k.Shift)
	case input.KeyUp:
		return c.nudge(0, -1, k.Shift)
	case input.KeyDown:
		return c.nudge(0, 1, k.Shift)

	case input.KeyRune:
		switch {
		case k.Is('a'):
			c.SelectAll()
			return true
		case k.Command():
			return false
		case k.Rune == '+' || k.Rune == '=':
			c.RunControl(ControlZoomIn)
			return true
		case k.Rune == '-':
			c.RunControl(ControlZoomOut)
			return true
		case k.Rune == '0':
			c.RunControl(ControlFit)
			return true
		}
	}
	return false
}

// nudge moves the selected nodes by one cell, or five with shift.
func (c *Controller) nudge(dx, dy float64, big bool) bool {
	ids := c.sel.Nodes()
	if len(ids) == 0 {
		return false
	}
	step := 1.0
	if big {
		step = 5
	}
	z := c.viewport.zoom()
	d := plan.Point{X: dx * step * CellWidth / z, Y: dy * step * CellHeight / z}
	changes := make([]plan.NodeChange, 0, len(ids))
	for _, id := range ids {
		if n, ok := c.node(id); ok {
			changes = append(changes, plan.MoveNode(id, n.Position.Add(d)))
		}
	}
	c.emitNodes(changes...)
	return len(changes) > 0
}
