package canvas

import (
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/mattn/go-runewidth"
)

// Menu item ids.
const (
	MenuAddTextBox = "add-text-box"
	MenuStickyNote = "sticky-note"
)

// MenuItem is one entry of the context menu.
type MenuItem struct {
	ID       string
	Label    string
	Disabled bool
}

// DefaultMenuItems are the entries offered on right-click.
var DefaultMenuItems = []MenuItem{
	{ID: MenuAddTextBox, Label: "Add Text Box"},
	{ID: MenuStickyNote, Label: "Sticky Note — coming soon", Disabled: true},
}

// ContextMenu is the transient right-click overlay. Canvas holds the
// canvas point captured when it was opened.
type ContextMenu struct {
	Visible bool
	Screen  plan.Point
	Canvas  plan.Point
	Items   []MenuItem
}

// Open shows the menu at a screen position.
func (m *ContextMenu) Open(screen, canvas plan.Point) {
	m.Visible = true
	m.Screen = screen
	m.Canvas = canvas
	if m.Items == nil {
		m.Items = DefaultMenuItems
	}
}

// Close hides the menu.
func (m *ContextMenu) Close() {
	m.Visible = false
}

// Bounds returns the screen rectangle of the panel: one row per item plus
// a border.
func (m *ContextMenu) Bounds() Rect {
	width := 0
	for _, it := range m.Items {
		if w := runewidth.StringWidth(it.Label); w > width {
			width = w
		}
	}
	return Rect{
		X: m.Screen.X,
		Y: m.Screen.Y,
		W: float64(width+4) * CellWidth,
		H: float64(len(m.Items)+2) * CellHeight,
	}
}

// ItemRect returns the screen rectangle of item i.
func (m *ContextMenu) ItemRect(i int) Rect {
	b := m.Bounds()
	return Rect{
		X: b.X + CellWidth,
		Y: b.Y + float64(i+1)*CellHeight,
		W: b.W - 2*CellWidth,
		H: CellHeight,
	}
}

// HitTest returns the index of the item under a screen point, or -1.
// The second result reports whether the point is inside the panel at all.
func (m *ContextMenu) HitTest(p plan.Point) (int, bool) {
	if !m.Visible || !m.Bounds().Contains(p) {
		return -1, false
	}
	for i := range m.Items {
		r := m.ItemRect(i)
		// Half-open rows so adjacent items do not overlap.
		if p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H {
			return i, true
		}
	}
	return -1, true
}
