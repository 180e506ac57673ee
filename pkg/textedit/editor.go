// Package textedit implements the in-place editor embedded in text nodes:
// a Viewing/Editing state machine over a markdown draft with a caret,
// a selection and formatting helpers.
package textedit

import (
	"strings"

	"github.com/ha1tch/attackplan/pkg/input"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/rivo/uniseg"
)

// State is the editor mode.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Result reports what HandleKey did with a key.
type Result int

const (
	Ignored Result = iota
	Handled
	Committed
	Canceled
)

// Markdown markers inserted by the formatting helpers.
const (
	BoldMarker   = "**"
	ItalicMarker = "*"
	BulletMarker = "- "
)

// Editor holds the draft state of one text node. Positions are rune
// offsets into the draft.
type Editor struct {
	state     State
	committed plan.TextData

	buf    []rune
	caret  int
	anchor int

	size   plan.FontSize
	weight plan.FontWeight

	onCommit func(plan.TextData)
}

// New creates an editor in Viewing state for d. onCommit receives the new
// payload whenever an edit is committed; it may be nil.
func New(d plan.TextData, onCommit func(plan.TextData)) *Editor {
	d.Normalize()
	d.Editing = false
	return &Editor{
		committed: d,
		size:      d.FontSize,
		weight:    d.FontWeight,
		onCommit:  onCommit,
	}
}

// State returns the current mode.
func (e *Editor) State() State { return e.state }

// Editing reports whether the editor is in Editing state.
func (e *Editor) Editing() bool { return e.state == Editing }

// Committed returns the last committed payload.
func (e *Editor) Committed() plan.TextData { return e.committed }

// Sync refreshes the committed payload from the graph, for example after an
// undo. It has no effect while editing.
func (e *Editor) Sync(d plan.TextData) {
	if e.state == Editing {
		return
	}
	d.Normalize()
	d.Editing = false
	if d == e.committed {
		return
	}
	e.committed = d
	e.size = d.FontSize
	e.weight = d.FontWeight
}

// Text returns the draft while editing and the committed content otherwise.
func (e *Editor) Text() string {
	if e.state == Editing {
		return string(e.buf)
	}
	return e.committed.Content
}

// Caret returns the caret offset.
func (e *Editor) Caret() int { return e.caret }

// Selection returns the selected range [start, end). start == end when
// nothing is selected.
func (e *Editor) Selection() (int, int) {
	if e.anchor < e.caret {
		return e.anchor, e.caret
	}
	return e.caret, e.anchor
}

// HasSelection reports whether a non-empty range is selected.
func (e *Editor) HasSelection() bool { return e.anchor != e.caret }

// FontSize returns the previewed font size.
func (e *Editor) FontSize() plan.FontSize { return e.size }

// FontWeight returns the previewed font weight.
func (e *Editor) FontWeight() plan.FontWeight { return e.weight }

// Preview returns the payload as currently shown, draft included.
func (e *Editor) Preview() plan.TextData {
	return plan.TextData{
		Content:    e.Text(),
		FontSize:   e.size,
		FontWeight: e.weight,
		Editing:    e.state == Editing,
	}
}

// Begin enters Editing with the committed content loaded and fully
// selected. It is a no-op when already editing.
func (e *Editor) Begin() {
	if e.state == Editing {
		return
	}
	e.state = Editing
	e.buf = []rune(e.committed.Content)
	e.anchor = 0
	e.caret = len(e.buf)
}

// Commit writes the draft back through the commit callback and returns to
// Viewing. It reports whether a commit happened.
func (e *Editor) Commit() bool {
	if e.state != Editing {
		return false
	}
	e.committed = plan.TextData{
		Content:    string(e.buf),
		FontSize:   e.size,
		FontWeight: e.weight,
	}
	e.leave()
	if e.onCommit != nil {
		e.onCommit(e.committed)
	}
	return true
}

// Cancel discards the draft, including style changes, and returns to
// Viewing. Nothing is emitted.
func (e *Editor) Cancel() {
	e.size = e.committed.FontSize
	e.weight = e.committed.FontWeight
	if e.state != Editing {
		return
	}
	e.leave()
}

func (e *Editor) leave() {
	e.state = Viewing
	e.buf = nil
	e.caret = 0
	e.anchor = 0
}

// SetFontSize previews a new size. It is persisted on the next commit.
func (e *Editor) SetFontSize(s plan.FontSize) {
	if s.Valid() {
		e.size = s
	}
}

// SetFontWeight previews a new weight. It is persisted on the next commit.
func (e *Editor) SetFontWeight(w plan.FontWeight) {
	if w.Valid() {
		e.weight = w
	}
}

// CycleFontSize steps the size by delta, wrapping around.
func (e *Editor) CycleFontSize(delta int) {
	e.size = plan.FontSizes[cycle(indexOf(plan.FontSizes, e.size), delta, len(plan.FontSizes))]
}

// CycleFontWeight steps the weight by delta, wrapping around.
func (e *Editor) CycleFontWeight(delta int) {
	e.weight = plan.FontWeights[cycle(indexOf(plan.FontWeights, e.weight), delta, len(plan.FontWeights))]
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return 0
}

func cycle(i, delta, n int) int {
	return ((i+delta)%n + n) % n
}

// Select sets the selection to [start, end), clamped to the draft. The caret
// ends up at end.
func (e *Editor) Select(start, end int) {
	if e.state != Editing {
		return
	}
	e.anchor = clamp(start, 0, len(e.buf))
	e.caret = clamp(end, 0, len(e.buf))
}

// SelectAll selects the whole draft.
func (e *Editor) SelectAll() {
	e.Select(0, len(e.buf))
}

// SetCaret moves the caret and collapses the selection.
func (e *Editor) SetCaret(pos int) {
	if e.state != Editing {
		return
	}
	e.caret = clamp(pos, 0, len(e.buf))
	e.anchor = e.caret
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Insert replaces the selection with s and leaves the caret after it.
func (e *Editor) Insert(s string) {
	if e.state != Editing {
		return
	}
	start, end := e.Selection()
	ins := []rune(s)
	e.buf = splice(e.buf, start, end, ins)
	e.caret = start + len(ins)
	e.anchor = e.caret
}

func splice(buf []rune, start, end int, ins []rune) []rune {
	out := make([]rune, 0, len(buf)-(end-start)+len(ins))
	out = append(out, buf[:start]...)
	out = append(out, ins...)
	return append(out, buf[end:]...)
}

// Backspace deletes the selection, or the grapheme before the caret.
func (e *Editor) Backspace() {
	if e.state != Editing {
		return
	}
	if e.HasSelection() {
		e.Insert("")
		return
	}
	if e.caret == 0 {
		return
	}
	prev := e.prevBoundary(e.caret)
	e.buf = splice(e.buf, prev, e.caret, nil)
	e.caret = prev
	e.anchor = prev
}

// Delete deletes the selection, or the grapheme after the caret.
func (e *Editor) Delete() {
	if e.state != Editing {
		return
	}
	if e.HasSelection() {
		e.Insert("")
		return
	}
	if e.caret >= len(e.buf) {
		return
	}
	next := e.nextBoundary(e.caret)
	e.buf = splice(e.buf, e.caret, next, nil)
}

// boundaries returns the rune offsets at which grapheme clusters start,
// plus the end of the draft.
func (e *Editor) boundaries() []int {
	out := []int{0}
	pos := 0
	g := uniseg.NewGraphemes(string(e.buf))
	for g.Next() {
		pos += len(g.Runes())
		out = append(out, pos)
	}
	return out
}

func (e *Editor) prevBoundary(pos int) int {
	b := e.boundaries()
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < pos {
			return b[i]
		}
	}
	return 0
}

func (e *Editor) nextBoundary(pos int) int {
	for _, v := range e.boundaries() {
		if v > pos {
			return v
		}
	}
	return len(e.buf)
}

func (e *Editor) moveTo(pos int, extend bool) {
	e.caret = clamp(pos, 0, len(e.buf))
	if !extend {
		e.anchor = e.caret
	}
}

// MoveLeft moves the caret one grapheme left. Without extend, an existing
// selection collapses to its start.
func (e *Editor) MoveLeft(extend bool) {
	if !extend && e.HasSelection() {
		start, _ := e.Selection()
		e.moveTo(start, false)
		return
	}
	e.moveTo(e.prevBoundary(e.caret), extend)
}

// MoveRight moves the caret one grapheme right.
func (e *Editor) MoveRight(extend bool) {
	if !extend && e.HasSelection() {
		_, end := e.Selection()
		e.moveTo(end, false)
		return
	}
	e.moveTo(e.nextBoundary(e.caret), extend)
}

// lineStart returns the offset of the first rune of the line holding pos.
func (e *Editor) lineStart(pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if e.buf[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func (e *Editor) lineEnd(pos int) int {
	for i := pos; i < len(e.buf); i++ {
		if e.buf[i] == '\n' {
			return i
		}
	}
	return len(e.buf)
}

// Home moves to the start of the current line.
func (e *Editor) Home(extend bool) { e.moveTo(e.lineStart(e.caret), extend) }

// End moves to the end of the current line.
func (e *Editor) End(extend bool) { e.moveTo(e.lineEnd(e.caret), extend) }

// MoveUp moves to the same column on the previous line.
func (e *Editor) MoveUp(extend bool) {
	start := e.lineStart(e.caret)
	if start == 0 {
		e.moveTo(0, extend)
		return
	}
	col := e.caret - start
	prevStart := e.lineStart(start - 1)
	e.moveTo(min(prevStart+col, start-1), extend)
}

// MoveDown moves to the same column on the next line.
func (e *Editor) MoveDown(extend bool) {
	end := e.lineEnd(e.caret)
	if end == len(e.buf) {
		e.moveTo(end, extend)
		return
	}
	col := e.caret - e.lineStart(e.caret)
	next := end + 1
	e.moveTo(min(next+col, e.lineEnd(next)), extend)
}

// Bold wraps the selection in bold markers, or inserts an empty pair.
func (e *Editor) Bold() { e.wrap(BoldMarker) }

// Italic wraps the selection in italic markers, or inserts an empty pair.
func (e *Editor) Italic() { e.wrap(ItalicMarker) }

// wrap surrounds the selection with marker. The caret lands inside the
// closing marker so typing continues within the formatted run.
func (e *Editor) wrap(marker string) {
	if e.state != Editing {
		return
	}
	start, end := e.Selection()
	m := []rune(marker)
	selected := append([]rune(nil), e.buf[start:end]...)
	ins := make([]rune, 0, len(selected)+2*len(m))
	ins = append(ins, m...)
	ins = append(ins, selected...)
	ins = append(ins, m...)
	e.buf = splice(e.buf, start, end, ins)
	e.caret = start + len(m) + len(selected)
	e.anchor = e.caret
}

// Bullet inserts a list marker at the caret, starting a new line first when
// the caret is mid-line. The caret ends after the marker.
func (e *Editor) Bullet() {
	if e.state != Editing {
		return
	}
	start, _ := e.Selection()
	token := BulletMarker
	if start > 0 && e.buf[start-1] != '\n' {
		token = "\n" + BulletMarker
	}
	e.Insert(token)
}

// HandleKey applies a key press. In Viewing state no key is consumed.
func (e *Editor) HandleKey(k input.Key) Result {
	if e.state != Editing {
		return Ignored
	}
	switch k.Code {
	case input.KeyEscape:
		e.Cancel()
		return Canceled
	case input.KeyEnter:
		if k.Command() {
			e.Commit()
			return Committed
		}
		e.Insert("\n")
	case input.KeyBackspace:
		e.Backspace()
	case input.KeyDelete:
		e.Delete()
	case input.KeyTab:
		e.Insert("  ")
	case input.KeyLeft:
		e.MoveLeft(k.Shift)
	case input.KeyRight:
		e.MoveRight(k.Shift)
	case input.KeyUp:
		e.MoveUp(k.Shift)
	case input.KeyDown:
		e.MoveDown(k.Shift)
	case input.KeyHome:
		e.Home(k.Shift)
	case input.KeyEnd:
		e.End(k.Shift)
	case input.KeyRune:
		switch {
		case k.Is('a'):
			e.SelectAll()
		case k.Is('b'):
			e.Bold()
		case k.Is('i'):
			e.Italic()
		case k.Is('l'):
			e.Bullet()
		case k.Command():
			return Ignored
		default:
			e.Insert(string(k.Rune))
		}
	default:
		return Ignored
	}
	return Handled
}

// Lines splits the visible text into lines.
func (e *Editor) Lines() []string {
	return strings.Split(e.Text(), "\n")
}

// CaretLineCol returns the caret position as a zero-based line and rune
// column.
func (e *Editor) CaretLineCol() (int, int) {
	line, col := 0, 0
	for i := 0; i < e.caret && i < len(e.buf); i++ {
		if e.buf[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}
