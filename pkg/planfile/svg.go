package planfile

import (
	"fmt"
	"html"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gitlab.com/golang-commonmark/markdown"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
)

// SVGOptions controls SVG export.
type SVGOptions struct {
	Width      int    // maximum width in pixels, 0 = natural size
	Title      string // diagram title
	FontSize   int    // base font size for node text
	TitleSize  int    // font size for title (0 = FontSize + 4)
	Padding    int    // padding around the plan
	Background string // page colour, "" for transparent
	Minimal    bool   // omit description lines on technique cards
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		FontSize:   13,
		Padding:    40,
		Background: render.Background.Hex(),
	}
}

var textMarkdown = markdown.New(
	markdown.HTML(false),
	markdown.Linkify(false),
	markdown.Typographer(false),
	markdown.XHTMLOutput(true),
)

var textFontPx = map[plan.FontSize]int{
	plan.FontSm:   12,
	plan.FontBase: 14,
	plan.FontLg:   17,
	plan.FontXl:   20,
}

var textWeight = map[plan.FontWeight]int{
	plan.WeightNormal:   400,
	plan.WeightMedium:   500,
	plan.WeightSemibold: 600,
	plan.WeightBold:     700,
}

// GenerateSVG renders a plan to a standalone SVG document. Text node
// content is rendered as HTML inside a foreignObject.
func GenerateSVG(g *plan.Graph, opts SVGOptions) string {
	if opts.FontSize == 0 {
		opts.FontSize = 13
	}
	if opts.TitleSize == 0 {
		opts.TitleSize = opts.FontSize + 4
	}
	if opts.Padding == 0 {
		opts.Padding = 40
	}
	top := 0.0
	if opts.Title != "" {
		top = float64(opts.TitleSize) * 2
	}
	s := layoutSheet(g, float64(opts.Padding), top, float64(opts.Width))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		s.width, s.height, s.width, s.height))
	sb.WriteString(`<defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">`)
	sb.WriteString(`<path d="M 0 0 L 10 5 L 0 10 z" fill="#94a3b8"/></marker></defs>` + "\n")
	sb.WriteString(fmt.Sprintf(`<style>text{font-family:Helvetica,Arial,sans-serif;font-size:%dpx}.title{font-size:%dpx;font-weight:bold}.muted{fill:#94a3b8}</style>`+"\n",
		opts.FontSize, opts.TitleSize))
	if opts.Background != "" {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", opts.Background))
	}
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text class="title" x="%.1f" y="%.1f" fill="#e2e8f0">%s</text>`+"\n",
			float64(opts.Padding), float64(opts.Padding)+float64(opts.TitleSize), html.EscapeString(opts.Title)))
	}

	for _, route := range s.edges {
		pts := make([]string, len(route))
		for i, p := range route {
			pts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
		}
		sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="#94a3b8" stroke-width="2" marker-end="url(#arrow)"/>`+"\n",
			strings.Join(pts, " ")))
	}

	for _, p := range s.nodes {
		sb.WriteString(fmt.Sprintf(`<g class="%s">`+"\n", svgClass(p.node)))
		switch p.node.Kind() {
		case plan.KindPhase:
			writeSVGPhase(&sb, p, s.scale)
		case plan.KindTechnique:
			writeSVGTechnique(&sb, p, s.scale, opts)
		case plan.KindText:
			writeSVGText(&sb, p, s.scale)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func svgClass(n plan.Node) string {
	switch n.Kind() {
	case plan.KindPhase:
		if d, ok := n.AsPhase(); ok {
			return render.ClassName("phase", d.Name)
		}
	case plan.KindTechnique:
		if d, ok := n.AsTechnique(); ok {
			return render.ClassName("technique", d.Phase)
		}
	}
	return string(n.Kind())
}

func svgRect(sb *strings.Builder, p placed, rx float64, fill, stroke string) {
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		p.rect.X, p.rect.Y, p.rect.W, p.rect.H, rx, fill, stroke))
}

func svgLine(sb *strings.Builder, x, y float64, class, text string) {
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="%s" fill="#e2e8f0">%s</text>`+"\n",
		x, y, class, html.EscapeString(text)))
}

func writeSVGPhase(sb *strings.Builder, p placed, scale float64) {
	d, ok := p.node.AsPhase()
	if !ok {
		svgRect(sb, p, 8*scale, render.FallbackColor.Hex(), render.FallbackColor.Hex())
		svgLine(sb, p.rect.X+12*scale, p.rect.Center().Y, "muted", render.UnknownPhase)
		return
	}
	c := render.MinimapColor(p.node)
	svgRect(sb, p, 8*scale, c.Hex(), darken(c).Hex())
	cy := p.rect.Center().Y + 5*scale
	svgLine(sb, p.rect.X+12*scale, cy, "icon", render.Icon(d.IconName))
	svgLine(sb, p.rect.X+36*scale, cy, "label", d.DisplayLabel())
}

func writeSVGTechnique(sb *strings.Builder, p placed, scale float64, opts SVGOptions) {
	d, ok := p.node.AsTechnique()
	if !ok {
		svgRect(sb, p, 6*scale, "#1e293b", render.FallbackColor.Hex())
		svgLine(sb, p.rect.X+12*scale, p.rect.Y+24*scale, "muted", render.UnknownTechnique)
		return
	}
	c := render.MinimapColor(p.node)
	svgRect(sb, p, 6*scale, "#1e293b", c.Hex())
	x := p.rect.X + 12*scale
	y := p.rect.Y + 22*scale
	step := float64(opts.FontSize+6) * scale
	if d.MitreID != "" {
		svgLine(sb, x, y, "muted", d.MitreID)
		y += step
	}
	svgLine(sb, x, y, "title", d.Title)
	if !opts.Minimal && d.Description != "" {
		y += step
		chars := int((p.rect.W - 24*scale) / (float64(opts.FontSize) * 0.6 * scale))
		svgLine(sb, x, y, "muted", render.Truncate(d.Description, chars))
	}
}

func writeSVGText(sb *strings.Builder, p placed, scale float64) {
	d, ok := p.node.AsText()
	svgRect(sb, p, 6*scale, "#1e1b4b", render.TextAccent.Hex())
	if !ok {
		svgLine(sb, p.rect.X+12*scale, p.rect.Y+24*scale, "muted", render.UnknownText)
		return
	}
	style := fmt.Sprintf("color:#e2e8f0;font-family:Helvetica,Arial,sans-serif;font-size:%.1fpx;font-weight:%d;padding:%.0fpx;margin:0",
		float64(textFontPx[d.FontSize])*scale, textWeight[d.FontWeight], 10*scale)
	sb.WriteString(fmt.Sprintf(`<foreignObject x="%.1f" y="%.1f" width="%.1f" height="%.1f">`+"\n",
		p.rect.X, p.rect.Y, p.rect.W, p.rect.H))
	sb.WriteString(fmt.Sprintf(`<div xmlns="http://www.w3.org/1999/xhtml" style="%s">`, style))
	sb.WriteString(textMarkdown.RenderToString([]byte(d.Content)))
	sb.WriteString("</div>\n</foreignObject>\n")
}

func darken(c colorful.Color) colorful.Color {
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, l*0.7).Clamped()
}
