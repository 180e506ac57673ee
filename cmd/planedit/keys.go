package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/attackplan/pkg/canvas"
	"github.com/ha1tch/attackplan/pkg/input"
	"github.com/ha1tch/attackplan/pkg/plan"
)

var namedKeys = map[tcell.Key]input.KeyCode{
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyEscape:     input.KeyEscape,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyLeft:       input.KeyLeft,
	tcell.KeyRight:      input.KeyRight,
	tcell.KeyUp:         input.KeyUp,
	tcell.KeyDown:       input.KeyDown,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
}

// translateKey converts a terminal key event for the canvas. Enter, Tab
// and Backspace share codes with Ctrl+M, Ctrl+I and Ctrl+H, so named keys
// are matched first.
func translateKey(ev *tcell.EventKey) input.Key {
	mod := ev.Modifiers()
	k := input.Key{
		Meta:  mod&tcell.ModMeta != 0,
		Alt:   mod&tcell.ModAlt != 0,
		Shift: mod&tcell.ModShift != 0,
		Ctrl:  mod&tcell.ModCtrl != 0,
	}
	if code, ok := namedKeys[ev.Key()]; ok {
		k.Code = code
		return k
	}
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		k.Code = input.KeyRune
		k.Rune = 'a' + rune(ev.Key()-tcell.KeyCtrlA)
		k.Ctrl = true
		return k
	}
	k.Code = input.KeyRune
	k.Rune = ev.Rune()
	return k
}

// cellToScreen maps a terminal cell to the screen point at its centre.
func cellToScreen(cx, cy int) plan.Point {
	return plan.Point{
		X: (float64(cx) + 0.5) * canvas.CellWidth,
		Y: (float64(cy) + 0.5) * canvas.CellHeight,
	}
}

// screenToCell maps a screen point to the cell holding it.
func screenToCell(p plan.Point) (int, int) {
	return floorDiv(p.X, canvas.CellWidth), floorDiv(p.Y, canvas.CellHeight)
}

func floorDiv(v, d float64) int {
	q := v / d
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

// mouseTracker turns tcell's button-state reports into press, move and
// release transitions.
type mouseTracker struct {
	buttons tcell.ButtonMask
	x, y    int
}

type mouseAction int

const (
	mouseMove mouseAction = iota
	mousePress
	mouseRelease
	mouseWheel
)

type mouseEvent struct {
	action mouseAction
	button input.Button
	wheel  float64 // +1 zooms in, -1 out
	x, y   int
	shift  bool
}

// update reports the transitions between the previous report and ev. At
// most one button changes per report in practice; a press takes priority.
func (m *mouseTracker) update(ev *tcell.EventMouse) []mouseEvent {
	x, y := ev.Position()
	shift := ev.Modifiers()&tcell.ModShift != 0
	btn := ev.Buttons()
	defer func() { m.buttons, m.x, m.y = btn&buttonMask, x, y }()

	switch {
	case btn&tcell.WheelUp != 0:
		return []mouseEvent{{action: mouseWheel, wheel: 1, x: x, y: y}}
	case btn&tcell.WheelDown != 0:
		return []mouseEvent{{action: mouseWheel, wheel: -1, x: x, y: y}}
	}

	var out []mouseEvent
	for _, b := range []struct {
		mask tcell.ButtonMask
		btn  input.Button
	}{
		{tcell.ButtonPrimary, input.ButtonPrimary},
		{tcell.ButtonSecondary, input.ButtonSecondary},
		{tcell.ButtonMiddle, input.ButtonMiddle},
	} {
		was := m.buttons&b.mask != 0
		is := btn&b.mask != 0
		switch {
		case is && !was:
			out = append(out, mouseEvent{action: mousePress, button: b.btn, x: x, y: y, shift: shift})
		case was && !is:
			out = append(out, mouseEvent{action: mouseRelease, button: b.btn, x: x, y: y, shift: shift})
		}
	}
	if len(out) == 0 && (x != m.x || y != m.y) {
		out = append(out, mouseEvent{action: mouseMove, x: x, y: y, shift: shift})
	}
	return out
}

// held reports whether any button is down.
func (m *mouseTracker) held() bool { return m.buttons != 0 }

const buttonMask = tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle
