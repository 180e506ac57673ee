// Package render turns plan nodes into device-independent views: styled
// text lines, a class name, an accent colour and the anchors a node exposes.
// Painters (the terminal editor, SVG and PNG export) draw views; renderers
// never fail, substituting placeholders for missing payloads.
package render

import (
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/textedit"
	"github.com/lucasb-eyer/go-colorful"
)

// Span is a run of text with uniform style.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// Line is one visual line of a view body.
type Line struct {
	Spans   []Span
	Heading int  // 1-6, 0 for body text
	Bullet  bool // first line of a list item
	Indent  int  // list nesting depth
}

// Plain returns a line holding a single unstyled span.
func Plain(s string) Line { return Line{Spans: []Span{{Text: s}}} }

// Text returns the concatenated text of the line's spans.
func (l Line) Text() string {
	var n int
	for _, s := range l.Spans {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range l.Spans {
		b = append(b, s.Text...)
	}
	return string(b)
}

// Action is a toolbar button of a text node.
type Action string

const (
	ActionEdit       Action = "edit"
	ActionSave       Action = "save"
	ActionCancel     Action = "cancel"
	ActionBold       Action = "bold"
	ActionItalic     Action = "italic"
	ActionBullet     Action = "bullet"
	ActionFontSize   Action = "font-size"
	ActionFontWeight Action = "font-weight"
	ActionDelete     Action = "delete"
)

// Toolbar describes the controls shown above a text node.
type Toolbar struct {
	Actions    []Action
	FontSize   plan.FontSize
	FontWeight plan.FontWeight
}

// View is the visual representation of one node.
type View struct {
	Kind        plan.Kind
	Class       string
	Icon        string
	Title       string
	Subtitle    string
	Badges      []string
	Body        []Line
	Accent      colorful.Color
	Placeholder bool

	Anchors      []plan.Anchor
	AnchorsMuted bool

	// Text nodes only.
	Toolbar    *Toolbar
	Resizable  bool
	Editing    bool
	CaretLine  int
	CaretCol   int
	FontSize   plan.FontSize
	FontWeight plan.FontWeight
}

// HasAnchor reports whether v exposes a.
func (v View) HasAnchor(a plan.Anchor) bool {
	for _, x := range v.Anchors {
		if x == a {
			return true
		}
	}
	return false
}

// Context is the ephemeral UI state a renderer may consult. It is never
// stored on the node.
type Context struct {
	Selected bool
	Hovered  bool
	Editor   *textedit.Editor // text nodes only, may be nil
	Columns  int              // available text width in cells, 0 = unbounded
}

// Renderer produces the view of a node.
type Renderer interface {
	Render(n plan.Node, ctx Context) View
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(n plan.Node, ctx Context) View

// Render calls f.
func (f RendererFunc) Render(n plan.Node, ctx Context) View { return f(n, ctx) }

// Registry maps node kinds to renderers.
type Registry map[plan.Kind]Renderer

// DefaultRegistry returns a registry with a renderer for every kind.
func DefaultRegistry() Registry {
	r := make(Registry, len(plan.Kinds))
	for _, k := range plan.Kinds {
		r[k] = ForKind(k)
	}
	return r
}

// ForKind returns the built-in renderer for k, or the fallback for an
// unknown kind.
func ForKind(k plan.Kind) Renderer {
	switch k {
	case plan.KindPhase:
		return RendererFunc(RenderPhase)
	case plan.KindTechnique:
		return RendererFunc(RenderTechnique)
	case plan.KindText:
		return RendererFunc(RenderText)
	}
	return RendererFunc(RenderFallback)
}

// Render draws n with the registered renderer. Unregistered kinds get the
// fallback view.
func (r Registry) Render(n plan.Node, ctx Context) View {
	if rr, ok := r[n.Kind()]; ok && rr != nil {
		return rr.Render(n, ctx)
	}
	return RenderFallback(n, ctx)
}

// RenderFallback is used for kinds with no renderer.
func RenderFallback(n plan.Node, _ Context) View {
	return View{
		Kind:        n.Kind(),
		Class:       ClassName("node", string(n.Kind())),
		Icon:        "?",
		Title:       "Unknown node",
		Accent:      FallbackColor,
		Placeholder: true,
	}
}
