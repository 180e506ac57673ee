package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/attackplan/pkg/canvas"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleMenuOff    = tcell.StyleDefault.Foreground(tcell.ColorGray).Italic(true)
	styleEdge       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleEdgeSel    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEdgeDrag   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleGrid       = tcell.StyleDefault.Foreground(tcell.NewRGBColor(51, 65, 85))
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSidebarDim = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
	styleCursor     = tcell.StyleDefault.Background(tcell.ColorDarkGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleToolbar    = tcell.StyleDefault.Background(tcell.NewRGBColor(30, 41, 59)).Foreground(tcell.ColorWhite)
	styleDragging   = tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
)

// paletteTop is the first sidebar line holding palette rows.
const paletteTop = 2

// Minimap size in cells, border included.
const (
	minimapWidth  = 24
	minimapHeight = 8
)

var helpLines = []string{
	"Canvas",
	"  Left-drag node        move (all selected nodes)",
	"  Shift+click           add to / remove from selection",
	"  Drag from a ● anchor  connect to another node",
	"  Drag empty space      pan; middle-drag pans anywhere",
	"  Wheel, + / - / 0      zoom in, out, fit",
	"  Right-click, m        context menu",
	"  t                     add text box at cursor",
	"  Arrows                nudge selection (Shift: x5) or move cursor",
	"  Del / Backspace       delete selection",
	"  Ctrl+A                select all",
	"  Enter / click         edit text box",
	"  g / n                 toggle grid / minimap",
	"  L                     arrange (layered, phase columns or grid)",
	"",
	"Text editing",
	"  Ctrl+S                save",
	"  Esc                   cancel",
	"  Ctrl+B / Ctrl+T       bold / italic",
	"  Ctrl+L                bullet",
	"",
	"Palette",
	"  Drag an entry onto the canvas, or Tab to focus it",
	"  and press Enter to drop at the cursor",
	"  Ctrl+P                show / hide",
	"",
	"Global",
	"  Ctrl+S save  Ctrl+Z undo  Ctrl+Y redo",
	"  Ctrl+C copy  Ctrl+V paste  Esc menu",
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	ed.screen.HideCursor()
	w, h := ed.screen.Size()

	ed.canvasWidth = w
	if ed.paletteVisible {
		ed.canvasWidth = w - ed.paletteWidth
	}
	ed.canvasHeight = h - 2
	ed.ctrl.SetSize(float64(ed.canvasWidth)*canvas.CellWidth, float64(ed.canvasHeight)*canvas.CellHeight)

	ed.drawCanvas(ed.ctrl.Frame())
	if ed.paletteVisible {
		ed.drawPalette(h)
	}

	switch ed.mode {
	case ModeMenu:
		ed.drawMenuOverlay(w, h)
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeFilePicker:
		ed.drawFilePicker(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

// setCell draws inside the canvas area only.
func (ed *Editor) setCell(x, y int, r rune, style tcell.Style) {
	if ed.inCanvas(x, y) {
		ed.screen.SetContent(x, y, r, nil, style)
	}
}

// canvasString draws s clipped to the canvas area and to maxX.
func (ed *Editor) canvasString(x, y, maxX int, s string, style tcell.Style) int {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if x+rw-1 > maxX {
			break
		}
		ed.setCell(x, y, r, style)
		x += rw
	}
	return x
}

func rectCells(r canvas.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = screenToCell(plan.Point{X: r.X, Y: r.Y})
	x1, y1 = screenToCell(plan.Point{X: r.X + r.W - 1, Y: r.Y + r.H - 1})
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

func (ed *Editor) drawCanvas(f canvas.Frame) {
	if ed.config.Grid {
		ed.drawGrid(f)
	}

	// Draw edges FIRST (so nodes render on top)
	for _, e := range f.Edges {
		style := styleEdge
		if e.Selected {
			style = styleEdgeSel
		}
		ed.drawPolyline(e.Points, style)
	}

	// Draw nodes, then arrow heads over their borders
	for _, nf := range f.Nodes {
		ed.drawNode(nf)
	}
	for _, e := range f.Edges {
		style := styleEdge
		if e.Selected {
			style = styleEdgeSel
		}
		ed.drawArrowHead(e.Points, style)
	}
	if len(f.Preview) == 2 {
		ed.drawPolyline(f.Preview, styleEdgeDrag)
	}
	if ed.config.Minimap && len(f.Minimap) > 0 {
		ed.drawMinimap(f)
	}
	for _, b := range f.Controls {
		x, y := screenToCell(plan.Point{X: b.Rect.X, Y: b.Rect.Y})
		ed.canvasString(x, y, ed.canvasWidth-1, "["+b.Label+"]", styleToolbar)
	}
	if f.Menu != nil {
		ed.drawContextMenu(f.Menu)
	}

	if ed.paletteDrag >= 0 && ed.inCanvas(ed.dragX, ed.dragY) {
		label := "+ " + ed.palette.entries[ed.paletteDrag].Label
		ed.canvasString(ed.dragX, ed.dragY, ed.canvasWidth-1, label, styleDragging)
	}

	// Draw cursor
	if ed.mode == ModeCanvas && !ed.ctrl.Editing() && !ed.mouse.held() {
		mainc, combc, style, _ := ed.screen.GetContent(ed.cursorX, ed.cursorY)
		_, bg, _ := style.Decompose()
		if bg == tcell.ColorDefault {
			style = style.Background(tcell.ColorDarkGray)
		} else {
			style = styleCursor
		}
		if ed.inCanvas(ed.cursorX, ed.cursorY) {
			ed.screen.SetContent(ed.cursorX, ed.cursorY, mainc, combc, style)
		}
	}
}

// gridStep returns a grid spacing in screen units of at least two cell
// heights, so the dots never crowd the nodes.
func gridStep(step float64) float64 {
	for step > 0 && step < 2*canvas.CellHeight {
		step *= 2
	}
	return step
}

func (ed *Editor) drawGrid(f canvas.Frame) {
	step := gridStep(f.Grid.Step)
	if step <= 0 {
		return
	}
	ox := math.Mod(f.Viewport.X, step)
	oy := math.Mod(f.Viewport.Y, step)
	if ox < 0 {
		ox += step
	}
	if oy < 0 {
		oy += step
	}
	for sy := oy; sy < f.Height; sy += step {
		for sx := ox; sx < f.Width; sx += step {
			x, y := screenToCell(plan.Point{X: sx, Y: sy})
			ed.setCell(x, y, '·', styleGrid)
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// cornerGlyph picks the box-drawing corner joining a segment travelling
// (dx1,dy1) to one travelling (dx2,dy2).
func cornerGlyph(dx1, dy1, dx2, dy2 int) rune {
	switch {
	case dx1 > 0 && dy2 > 0, dy1 < 0 && dx2 < 0:
		return '┐'
	case dx1 > 0 && dy2 < 0, dy1 > 0 && dx2 < 0:
		return '┘'
	case dx1 < 0 && dy2 > 0, dy1 < 0 && dx2 > 0:
		return '┌'
	case dx1 < 0 && dy2 < 0, dy1 > 0 && dx2 > 0:
		return '└'
	}
	return 0
}

func (ed *Editor) drawPolyline(pts []plan.Point, style tcell.Style) {
	cells := make([][2]int, len(pts))
	for i, p := range pts {
		cells[i][0], cells[i][1] = screenToCell(p)
	}
	for i := 1; i < len(cells); i++ {
		ed.drawSegment(cells[i-1], cells[i], style)
	}
	// Corners, skipping zero-length segments.
	for i := 1; i < len(cells)-1; i++ {
		a, b, c := cells[i-1], cells[i], cells[i+1]
		dx1, dy1 := sign(b[0]-a[0]), sign(b[1]-a[1])
		dx2, dy2 := sign(c[0]-b[0]), sign(c[1]-b[1])
		if g := cornerGlyph(dx1, dy1, dx2, dy2); g != 0 {
			ed.setCell(b[0], b[1], g, style)
		}
	}
}

func (ed *Editor) drawSegment(a, b [2]int, style tcell.Style) {
	x0, y0, x1, y1 := a[0], a[1], b[0], b[1]
	switch {
	case y0 == y1:
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			ed.setCell(x, y0, '─', style)
		}
	case x0 == x1:
		for y := min(y0, y1); y <= max(y0, y1); y++ {
			ed.setCell(x0, y, '│', style)
		}
	default:
		// Bresenham for the straight connection preview
		dx, dy := abs(x1-x0), -abs(y1-y0)
		sx, sy := sign(x1-x0), sign(y1-y0)
		e := dx + dy
		for {
			ed.setCell(x0, y0, '·', style)
			if x0 == x1 && y0 == y1 {
				return
			}
			if e2 := 2 * e; e2 >= dy {
				e += dy
				x0 += sx
			} else {
				e += dx
				y0 += sy
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawArrowHead marks the cell just outside the target anchor.
func (ed *Editor) drawArrowHead(pts []plan.Point, style tcell.Style) {
	if len(pts) < 2 {
		return
	}
	ex, ey := screenToCell(pts[len(pts)-1])
	for i := len(pts) - 2; i >= 0; i-- {
		px, py := screenToCell(pts[i])
		dx, dy := sign(ex-px), sign(ey-py)
		if dx == 0 && dy == 0 {
			continue
		}
		glyph := '▶'
		switch {
		case dy > 0:
			glyph = '▼'
		case dy < 0:
			glyph = '▲'
		case dx < 0:
			glyph = '◀'
		}
		ed.setCell(ex-dx, ey-dy, glyph, style)
		return
	}
}

func (ed *Editor) drawNode(nf canvas.NodeFrame) {
	v := nf.View
	x0, y0, x1, y1 := rectCells(nf.Rect)
	accent := tcellColor(v.Accent)
	border := tcell.StyleDefault.Foreground(accent)
	text := styleDefault
	if nf.Selected {
		border = border.Bold(true)
	}

	if v.Kind == plan.KindPhase {
		fill := tcell.StyleDefault.Background(accent).Foreground(tcell.ColorBlack)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				ed.setCell(x, y, ' ', fill)
			}
		}
		if nf.Selected || nf.Hovered {
			ed.drawFrame(x0, y0, x1, y1, fill.Bold(true), nf.Selected)
		}
		border, text = fill, fill
	} else {
		ed.drawFrame(x0, y0, x1, y1, border, nf.Selected)
	}

	maxX := x1 - 1
	row := y0 + 1
	line := func(s string, style tcell.Style) {
		if row < y1 {
			ed.canvasString(x0+1, row, maxX, s, style)
			row++
		}
	}

	title := strings.TrimSpace(v.Icon + " " + v.Title)
	titleStyle := text.Bold(true)
	if v.Placeholder {
		titleStyle = text.Italic(true).Dim(true)
	}

	switch v.Kind {
	case plan.KindPhase:
		row = y0 + (y1-y0)/2
		if len(v.Badges) > 0 {
			title += "  " + strings.Join(v.Badges, " ")
		}
		if v.Subtitle != "" && row > y0+1 {
			row--
		}
		line(centre(title, maxX-x0), titleStyle)
		if v.Subtitle != "" {
			line(centre(v.Subtitle, maxX-x0), text)
		}

	case plan.KindTechnique:
		line(title, titleStyle.Foreground(accent))
		if v.Subtitle != "" {
			line(v.Subtitle, text.Dim(true))
		}
		if len(v.Badges) > 0 {
			line(strings.Join(v.Badges, " "), border)
		}
		ed.drawBody(x0, &row, maxX, y1, v.Body, text)

	default:
		if v.Placeholder {
			line(title, titleStyle)
			break
		}
		if v.FontWeight == plan.WeightBold || v.FontWeight == plan.WeightSemibold {
			text = text.Bold(true)
		}
		if v.Editing {
			for i, l := range v.Body {
				if i == v.CaretLine && row < y1 {
					cx := x0 + 1 + runewidth.StringWidth(string([]rune(l.Text())[:min(v.CaretCol, len([]rune(l.Text())))]))
					if cx <= maxX && ed.inCanvas(cx, row) {
						ed.screen.ShowCursor(cx, row)
					}
				}
				line(l.Text(), text)
			}
		} else {
			ed.drawBody(x0, &row, maxX, y1, render.Wrap(v.Body, maxX-x0), text)
		}
	}

	for _, a := range nf.Anchors {
		x, y := screenToCell(a.Point)
		if a.Muted {
			ed.setCell(x, y, '○', tcell.StyleDefault.Foreground(tcellColor(render.Muted(v.Accent))))
		} else {
			ed.setCell(x, y, '●', border)
		}
	}
	for _, b := range nf.Toolbar {
		x, y := screenToCell(plan.Point{X: b.Rect.X, Y: b.Rect.Y})
		ed.canvasString(x, y, ed.canvasWidth-1, " "+b.Label+" ", styleToolbar)
	}
	if nf.Resize != nil {
		x, y := screenToCell(plan.Point{X: nf.Resize.X, Y: nf.Resize.Y})
		ed.setCell(x, y, '◢', border)
	}
}

// drawBody draws styled markdown lines from *row until the bottom border.
func (ed *Editor) drawBody(x0 int, row *int, maxX, y1 int, lines []render.Line, base tcell.Style) {
	for _, l := range lines {
		if *row >= y1 {
			return
		}
		x := x0 + 1 + 2*l.Indent
		if l.Bullet {
			x = ed.canvasString(x, *row, maxX, "• ", base)
		}
		for _, s := range l.Spans {
			style := base
			if s.Bold || l.Heading > 0 {
				style = style.Bold(true)
			}
			if s.Italic {
				style = style.Italic(true)
			}
			if s.Code {
				style = style.Reverse(true)
			}
			if l.Heading == 1 {
				style = style.Underline(true)
			}
			x = ed.canvasString(x, *row, maxX, s.Text, style)
		}
		*row++
	}
}

func centre(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", (width-w)/2) + s
}

// drawFrame draws a node border, doubled when selected.
func (ed *Editor) drawFrame(x0, y0, x1, y1 int, style tcell.Style, double bool) {
	h, v, tl, tr, bl, br := '─', '│', '╭', '╮', '╰', '╯'
	if double {
		h, v, tl, tr, bl, br = '═', '║', '╔', '╗', '╚', '╝'
	}
	for x := x0 + 1; x < x1; x++ {
		ed.setCell(x, y0, h, style)
		ed.setCell(x, y1, h, style)
	}
	for y := y0 + 1; y < y1; y++ {
		ed.setCell(x0, y, v, style)
		ed.setCell(x1, y, v, style)
	}
	ed.setCell(x0, y0, tl, style)
	ed.setCell(x1, y0, tr, style)
	ed.setCell(x0, y1, bl, style)
	ed.setCell(x1, y1, br, style)
}

func (ed *Editor) drawMinimap(f canvas.Frame) {
	bx := ed.canvasWidth - minimapWidth - 1
	by := 1
	if bx < 0 || f.World.W <= 0 || f.World.H <= 0 {
		return
	}
	ed.drawBox(bx, by, minimapWidth, minimapHeight, styleDefault)

	innerW := float64(minimapWidth - 2)
	innerH := float64(minimapHeight - 2)
	scale := math.Min(innerW/f.World.W, innerH/f.World.H)
	toCell := func(p plan.Point) (int, int) {
		x := bx + 1 + int((p.X-f.World.X)*scale)
		y := by + 1 + int((p.Y-f.World.Y)*scale)
		return min(max(x, bx+1), bx+minimapWidth-2), min(max(y, by+1), by+minimapHeight-2)
	}

	for _, m := range f.Minimap {
		x0, y0 := toCell(plan.Point{X: m.Rect.X, Y: m.Rect.Y})
		x1, y1 := toCell(plan.Point{X: m.Rect.X + m.Rect.W, Y: m.Rect.Y + m.Rect.H})
		style := tcell.StyleDefault.Foreground(tcellColor(m.Color))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				ed.setCell(x, y, '▪', style)
			}
		}
	}

	// Visible area
	vp := f.Viewport
	x0, y0 := toCell(vp.ScreenToCanvas(plan.Point{}))
	x1, y1 := toCell(vp.ScreenToCanvas(plan.Point{X: f.Width, Y: f.Height}))
	ed.setCell(x0, y0, '┌', styleBorder)
	ed.setCell(x1, y0, '┐', styleBorder)
	ed.setCell(x0, y1, '└', styleBorder)
	ed.setCell(x1, y1, '┘', styleBorder)
}

func (ed *Editor) drawContextMenu(m *canvas.ContextMenu) {
	x0, y0, x1, y1 := rectCells(m.Bounds())
	ed.drawBox(x0, y0, x1-x0+1, y1-y0+1, styleDefault)
	for i, it := range m.Items {
		rx, ry, rx1, _ := rectCells(m.ItemRect(i))
		style := styleMenu
		if it.Disabled {
			style = styleMenuOff
		}
		ed.canvasString(rx, ry, rx1, fmt.Sprintf(" %-*s", rx1-rx, it.Label), style)
	}
}

func (ed *Editor) drawPalette(h int) {
	x := ed.canvasWidth
	for y := 0; y < h-2; y++ {
		ed.screen.SetContent(x, y, '│', nil, styleBorder)
	}
	x += 2
	width := ed.paletteWidth - 3

	title := "Palette"
	if ed.palette.path != "" {
		title += ": " + filepath.Base(ed.palette.path)
	}
	ed.drawString(x, 0, truncate(title, width), styleSidebarH)

	height := h - 2 - paletteTop
	ed.palette.follow(height)
	rows := ed.palette.rows()
	for i := 0; i < height && i+ed.palette.scroll < len(rows); i++ {
		r := rows[i+ed.palette.scroll]
		y := paletteTop + i
		if r.entry < 0 {
			ed.drawString(x, y, r.heading+":", styleSidebarH)
			continue
		}
		e := ed.palette.entries[r.entry]
		icon := "◆"
		if d, ok := e.Descriptor.Data.(*plan.PhaseData); ok {
			icon = render.Icon(d.IconName)
		}
		style := styleSidebar
		if r.entry == ed.palette.selected && (ed.mode == ModePalette || ed.paletteDrag == r.entry) {
			style = styleMenuSel
		}
		label := fmt.Sprintf(" %s %s", icon, e.Label)
		ed.drawString(x, y, fmt.Sprintf("%-*s", width, truncate(label, width)), style)
		if e.Detail != "" && runewidth.StringWidth(label)+len(e.Detail)+1 < width {
			ed.drawString(x+width-len(e.Detail), y, e.Detail, styleSidebarDim.Background(bgOf(style)))
		}
	}
}

func bgOf(s tcell.Style) tcell.Color {
	_, bg, _ := s.Decompose()
	return bg
}

func (ed *Editor) drawMenuOverlay(w, h int) {
	// Menu dimensions
	menuWidth := 40
	menuHeight := len(ed.menuItems) + 4

	// Centre on screen
	startX := max((w-menuWidth)/2, 0)
	startY := max((h-menuHeight)/2, 0)

	ed.drawTitledBox(startX, startY, menuWidth, menuHeight, "planedit")

	// Menu items
	for i, item := range ed.menuItems {
		style := styleMenu
		if i == ed.menuSelected {
			style = styleMenuSel
		}
		// Pad item to fill the box
		ed.drawString(startX+1, startY+2+i, fmt.Sprintf(" %-*s", menuWidth-3, item), style)
	}
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.drawBox(x, y, w, h, styleDefault)

	// Title if provided
	if title != "" {
		titleX := x + (w-runewidth.StringWidth(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		end := ed.drawString(titleX+1, y, title, styleSidebarH)
		ed.screen.SetContent(end, y, ' ', nil, styleBorder)
	}
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := min(72, w-4)
	boxH := min(len(helpLines)+4, h-4)
	boxX := (w - boxW) / 2
	boxY := max((h-boxH)/2-1, 0)
	ed.drawTitledBox(boxX, boxY, boxW, boxH, "Help")

	visible := boxH - 4
	for i := 0; i < visible && i+ed.helpScrollOffset < len(helpLines); i++ {
		l := helpLines[i+ed.helpScrollOffset]
		style := styleMenu
		if !strings.HasPrefix(l, " ") {
			style = styleSidebarH
		}
		ed.drawString(boxX+2, boxY+2+i, truncate(l, boxW-4), style)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if ed.filename != "" {
		if len(ed.filename) > 30 {
			fileInfo = filepath.Base(ed.filename)
		} else {
			fileInfo = ed.filename
		}
	}
	if ed.modified {
		fileInfo += " *"
	}
	// Node counts by kind, edges and zoom
	counts := ed.graph.CountByKind()
	fileInfo += fmt.Sprintf("  %d/%d/%d  %d edges  %d%%",
		counts[plan.KindPhase], counts[plan.KindTechnique], counts[plan.KindText],
		len(ed.graph.Edges()), int(math.Round(ed.ctrl.Viewport().Zoom*100)))
	ed.drawString(1, y, fileInfo, styleStatus)

	// Mode
	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	// Message
	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if shouldFlashForType(ed.messageType) {
			elapsed := time.Now().UnixMilli() - ed.messageFlashStart.Load()
			if shouldBeInverted(elapsed) {
				style = style.Reverse(true)
			}
		}
		ed.drawString(w-runewidth.StringWidth(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

// shouldBeInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it appeared: two 125ms pulses.
func shouldBeInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func shouldFlashForType(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box
	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)

	// Draw prompt and input
	end := ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(end, boxY+1, ed.inputBuffer+"_", styleInput)
}

func (ed *Editor) drawFilePicker(w, h int) {
	// Two-column file picker: directories on left, files on right
	totalW := min(80, w-4)
	dirW := totalW / 3
	fileW := totalW - dirW - 1

	// Calculate height based on content
	maxItems := max(len(ed.dirList), len(ed.fileList))
	boxH := min(maxItems+6, h-4)
	if boxH < 10 {
		boxH = 10
	}

	boxX := (w - totalW) / 2
	boxY := 2

	// Draw main box
	ed.drawBox(boxX, boxY, totalW, boxH, styleDefault)

	// Draw current directory path at top
	pathDisplay := ed.currentDir
	if len(pathDisplay) > totalW-4 {
		pathDisplay = "..." + pathDisplay[len(pathDisplay)-(totalW-7):]
	}
	ed.drawString(boxX+2, boxY+1, pathDisplay, styleSidebarH)

	// Draw column headers
	dirStyle, fileStyle := styleSidebarH, styleSidebarH
	if ed.filePickerFocus == 0 {
		dirStyle = styleMenuSel
	} else {
		fileStyle = styleMenuSel
	}
	ed.drawString(boxX+2, boxY+3, "Directories", dirStyle)
	ed.drawString(boxX+dirW+2, boxY+3, "Plans", fileStyle)

	// Draw vertical separator
	for y := boxY + 3; y < boxY+boxH-1; y++ {
		ed.drawString(boxX+dirW, y, "│", styleDefault)
	}

	// Draw directories
	visibleItems := boxH - 6
	for i, d := range ed.dirList {
		if i >= visibleItems {
			break
		}
		style := styleMenu
		if ed.filePickerFocus == 0 && i == ed.dirSelected {
			style = styleMenuSel
		}
		// Use simple ASCII prefix for directories
		display := "[/] " + d
		if d == ".." {
			display = "[^] .."
		}
		// Truncate to fit column width (leaving space for padding)
		maxLen := dirW - 3
		ed.drawString(boxX+1, boxY+5+i, fmt.Sprintf(" %-*s", maxLen, truncate(display, maxLen)), style)
	}

	// Draw plan files
	if len(ed.fileList) == 0 {
		ed.drawString(boxX+dirW+2, boxY+5, "(no plans)", styleDefault)
	} else {
		for i, f := range ed.fileList {
			if i >= visibleItems {
				break
			}
			style := styleMenu
			if ed.filePickerFocus == 1 && i == ed.fileSelected {
				style = styleMenuSel
			}
			ed.drawString(boxX+dirW+1, boxY+5+i, fmt.Sprintf(" %-*s", fileW-3, truncate(f, fileW-3)), style)
		}
	}

	// Draw help at bottom
	help := "←/→ or Tab: switch | ↑/↓: navigate | Enter: select | Esc: cancel"
	if len(help) > totalW-4 {
		help = "Tab:switch ↑↓:nav Enter:sel Esc:quit"
	}
	ed.drawString(boxX+2, boxY+boxH-1, help, styleDefault)
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// drawString draws s from x and returns the column after it.
func (ed *Editor) drawString(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeMenu:
		return "MENU"
	case ModeCanvas:
		if ed.ctrl.Editing() {
			return "EDIT TEXT"
		}
		if s := ed.ctrl.State(); s != canvas.Idle {
			return strings.ToUpper(s.String())
		}
		return ""
	case ModeInput:
		return "INPUT"
	case ModeFilePicker:
		return "FILE SELECT"
	case ModeHelp:
		return "HELP"
	case ModePalette:
		return "PALETTE"
	default:
		return ""
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeMenu:
		return "↑↓:Select  Enter:Confirm  Esc:Canvas"
	case ModeCanvas:
		if ed.ctrl.Editing() {
			return "Type text  Ctrl+S:Save  Esc:Cancel  Ctrl+B:Bold  Ctrl+T:Italic  Ctrl+L:Bullet"
		}
		if ed.ctrl.Menu().Visible {
			return "Enter:Choose  Esc:Close"
		}
		return "Drag:Move  Anchor-drag:Connect  t:Text  m:Menu  Del:Delete  Tab:Palette  ?:Help  Esc:Menu"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeFilePicker:
		return "↑↓:Select  Enter:Open  Esc:Cancel"
	case ModeHelp:
		return "↑↓:Scroll  Esc:Close"
	case ModePalette:
		return "↑↓:Select  Enter:Drop at cursor  Tab/Esc:Canvas  Ctrl+P:Hide"
	default:
		return "Ctrl+S:Save"
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxLen, "…")
}
