package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/attackplan/pkg/plan"
)

// Placeholder titles for nodes whose payload is missing.
const (
	UnknownPhase     = "Unknown Phase"
	UnknownTechnique = "Unknown Technique"
	UnknownText      = "Unknown Text"
)

var verticalAnchors = []plan.Anchor{plan.AnchorTop, plan.AnchorBottom}

// RenderPhase draws a read-only phase marker.
func RenderPhase(n plan.Node, ctx Context) View {
	d, ok := n.AsPhase()
	if !ok {
		return View{
			Kind:        plan.KindPhase,
			Class:       "phase",
			Icon:        DefaultIcon,
			Title:       UnknownPhase,
			Accent:      FallbackColor,
			Placeholder: true,
			Anchors:     verticalAnchors,
		}
	}
	v := View{
		Kind:    plan.KindPhase,
		Class:   ClassName("phase", d.Name),
		Icon:    Icon(d.IconName),
		Title:   d.DisplayLabel(),
		Accent:  PhaseColor(d.Name),
		Anchors: verticalAnchors,
	}
	if d.OrderIndex > 0 {
		v.Badges = []string{fmt.Sprintf("#%d", d.OrderIndex)}
	}
	if d.Label != "" && d.Label != d.Name {
		v.Subtitle = d.Name
	}
	return v
}

// RenderTechnique draws a read-only technique reference.
func RenderTechnique(n plan.Node, ctx Context) View {
	d, ok := n.AsTechnique()
	if !ok {
		return View{
			Kind:        plan.KindTechnique,
			Class:       "technique",
			Icon:        DefaultIcon,
			Title:       UnknownTechnique,
			Accent:      FallbackColor,
			Placeholder: true,
			Anchors:     verticalAnchors,
		}
	}
	title := d.Title
	if title == "" {
		title = d.TechniqueID
	}
	v := View{
		Kind:     plan.KindTechnique,
		Class:    ClassName("technique", d.Phase),
		Icon:     "◆",
		Title:    title,
		Subtitle: d.Phase,
		Accent:   PhaseColor(d.Phase),
		Anchors:  verticalAnchors,
	}
	if d.MitreID != "" {
		v.Badges = append(v.Badges, d.MitreID)
	}
	for _, tag := range d.Tags {
		v.Badges = append(v.Badges, "#"+tag)
	}
	if d.Category != "" {
		v.Body = append(v.Body, Line{Spans: []Span{{Text: d.Category, Italic: true}}})
	}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		line := Plain(desc)
		if ctx.Columns > 0 {
			line = Plain(Truncate(desc, ctx.Columns))
		}
		v.Body = append(v.Body, line)
	}
	return v
}

// RenderText draws a text node in its viewing or editing state.
func RenderText(n plan.Node, ctx Context) View {
	d, ok := n.AsText()
	if !ok {
		return View{
			Kind:         plan.KindText,
			Class:        "text",
			Icon:         "¶",
			Title:        UnknownText,
			Accent:       TextAccent,
			Placeholder:  true,
			Anchors:      plan.Anchors,
			AnchorsMuted: !(ctx.Selected || ctx.Hovered),
		}
	}
	data := *d
	data.Normalize()
	editing := false
	if ed := ctx.Editor; ed != nil {
		data = ed.Preview()
		editing = ed.Editing()
	}

	v := View{
		Kind:         plan.KindText,
		Class:        "text-" + string(data.FontSize) + "-" + string(data.FontWeight),
		Icon:         "¶",
		Accent:       TextAccent,
		Anchors:      plan.Anchors,
		AnchorsMuted: !(ctx.Selected || ctx.Hovered || editing),
		Resizable:    ctx.Selected,
		Editing:      editing,
		FontSize:     data.FontSize,
		FontWeight:   data.FontWeight,
	}
	if editing {
		for _, l := range ctx.Editor.Lines() {
			v.Body = append(v.Body, Plain(l))
		}
		v.CaretLine, v.CaretCol = ctx.Editor.CaretLineCol()
	} else {
		v.Body = Markdown(data.Content)
	}
	if ctx.Selected || editing {
		v.Toolbar = textToolbar(editing, data)
	}
	return v
}

func textToolbar(editing bool, d plan.TextData) *Toolbar {
	tb := &Toolbar{FontSize: d.FontSize, FontWeight: d.FontWeight}
	if editing {
		tb.Actions = []Action{ActionSave, ActionCancel, ActionBold, ActionItalic, ActionBullet}
	} else {
		tb.Actions = []Action{ActionEdit}
	}
	tb.Actions = append(tb.Actions, ActionFontSize, ActionFontWeight, ActionDelete)
	return tb
}
