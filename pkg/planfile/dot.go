package planfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
)

// GenerateDOT converts a plan to Graphviz DOT format. Phases are drawn as
// coloured boxes, techniques as rounded boxes and text nodes as notes.
// Node positions are passed as pin hints for neato.
func GenerateDOT(g *plan.Graph, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph Plan {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=\"%s\"", escapeDOT(nodeTitle(n)))}
		switch n.Kind() {
		case plan.KindPhase:
			c := render.MinimapColor(n)
			attrs = append(attrs, "shape=box", "style=filled",
				fmt.Sprintf("fillcolor=\"%s\"", c.Hex()), "fontcolor=\"white\"")
		case plan.KindTechnique:
			c := render.MinimapColor(n)
			attrs = append(attrs, "shape=box", "style=rounded",
				fmt.Sprintf("color=\"%s\"", c.Hex()))
		case plan.KindText:
			attrs = append(attrs, "shape=note",
				fmt.Sprintf("color=\"%s\"", render.TextAccent.Hex()))
		}
		// 72 points per inch, canvas units are treated as points.
		attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", n.Position.X/72, -n.Position.Y/72))
		sb.WriteString(fmt.Sprintf("    \"%s\" [%s];\n", escapeDOT(n.ID()), strings.Join(attrs, ", ")))
	}
	sb.WriteString("\n")

	edges := append([]plan.Edge(nil), g.Edges()...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [tailport=%s, headport=%s];\n",
			escapeDOT(e.Source), escapeDOT(e.Target), compass(e.SourceAnchor), compass(e.TargetAnchor)))
	}

	sb.WriteString("}\n")

	return sb.String()
}

func compass(a plan.Anchor) string {
	switch a {
	case plan.AnchorTop:
		return "n"
	case plan.AnchorBottom:
		return "s"
	case plan.AnchorLeft:
		return "w"
	case plan.AnchorRight:
		return "e"
	}
	return "c"
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
