package planfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ha1tch/attackplan/pkg/canvas"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
)

// Export formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// Formats lists the supported export formats.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT}

// FormatFromPath picks the export format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if f == ext {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Export writes g to w in the given format using default options.
func Export(g *plan.Graph, format string, w io.Writer, title string) error {
	switch format {
	case FormatSVG:
		opts := DefaultSVGOptions()
		opts.Title = title
		_, err := io.WriteString(w, GenerateSVG(g, opts))
		return err
	case FormatPNG:
		opts := DefaultPNGOptions()
		opts.Title = title
		return RenderPNG(g, w, opts)
	case FormatDOT:
		_, err := io.WriteString(w, GenerateDOT(g, title))
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// placed is a node positioned for export, in output coordinates.
type placed struct {
	node plan.Node
	rect canvas.Rect
}

// sheet is a graph laid out for a static export: node rects and edge
// polylines translated so the bounds start at (pad, pad+top) and scaled to
// fit the requested width when it is non-zero.
type sheet struct {
	nodes  []placed
	edges  [][]plan.Point
	width  float64
	height float64
	scale  float64
}

func layoutSheet(g *plan.Graph, pad, top, maxWidth float64) sheet {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return sheet{width: 2 * pad, height: 2*pad + top, scale: 1}
	}

	bounds := canvas.NodeRect(nodes[0])
	for _, n := range nodes[1:] {
		bounds = bounds.Union(canvas.NodeRect(n))
	}
	scale := 1.0
	if maxWidth > 0 && bounds.W+2*pad > maxWidth {
		scale = (maxWidth - 2*pad) / bounds.W
	}
	xf := func(p plan.Point) plan.Point {
		return plan.Point{
			X: (p.X-bounds.X)*scale + pad,
			Y: (p.Y-bounds.Y)*scale + pad + top,
		}
	}
	rf := func(r canvas.Rect) canvas.Rect {
		o := xf(plan.Point{X: r.X, Y: r.Y})
		return canvas.Rect{X: o.X, Y: o.Y, W: r.W * scale, H: r.H * scale}
	}

	s := sheet{
		width:  bounds.W*scale + 2*pad,
		height: bounds.H*scale + 2*pad + top,
		scale:  scale,
	}
	rects := make(map[string]canvas.Rect, len(nodes))
	for _, n := range nodes {
		r := canvas.NodeRect(n)
		rects[n.ID()] = r
		s.nodes = append(s.nodes, placed{node: n, rect: rf(r)})
	}
	for _, e := range g.Edges() {
		src, ok1 := rects[e.Source]
		dst, ok2 := rects[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		route := canvas.Route(src, e.SourceAnchor, dst, e.TargetAnchor)
		for i := range route {
			route[i] = xf(route[i])
		}
		s.edges = append(s.edges, route)
	}
	return s
}

// nodeTitle is the single-line caption of a node in DOT and PNG output.
func nodeTitle(n plan.Node) string {
	switch n.Kind() {
	case plan.KindPhase:
		if d, ok := n.AsPhase(); ok {
			return d.DisplayLabel()
		}
		return render.UnknownPhase
	case plan.KindTechnique:
		if d, ok := n.AsTechnique(); ok {
			if d.MitreID != "" {
				return d.MitreID + " " + d.Title
			}
			return d.Title
		}
		return render.UnknownTechnique
	case plan.KindText:
		if d, ok := n.AsText(); ok {
			for _, l := range render.Markdown(d.Content) {
				if t := strings.TrimSpace(l.Text()); t != "" {
					return t
				}
			}
			return ""
		}
		return render.UnknownText
	}
	return "Unknown node"
}
