// Package layout arranges plan nodes on the canvas.
//
// Three strategies are offered. Grid packs nodes in rows. Layered follows
// Sugiyama's method: layer assignment from the edge structure, barycentre
// crossing reduction, then coordinate assignment. Phases lays the kill
// chain out left to right with each phase's techniques stacked beneath it.
package layout

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ha1tch/attackplan/pkg/plan"
)

// Algorithm is a layout strategy.
type Algorithm int

const (
	Smart Algorithm = iota
	Grid
	Layered
	Phases
)

var algorithmNames = [...]string{"smart", "grid", "layered", "phases"}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Parse looks up an algorithm by name.
func Parse(name string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if strings.EqualFold(name, n) {
			return Algorithm(i), nil
		}
	}
	return Smart, fmt.Errorf("unknown layout %q (want one of %s)", name, strings.Join(algorithmNames[:], ", "))
}

// Spacing between nodes in canvas units.
const (
	GapX = 60
	GapY = 80
)

// Choose picks a strategy from the plan structure: layered when there are
// edges to follow, phase columns when phases are present, a grid otherwise.
func Choose(nodes []plan.Node, edges []plan.Edge) Algorithm {
	if len(nonLoops(edges)) > 0 {
		return Layered
	}
	for _, n := range nodes {
		if n.Kind() == plan.KindPhase {
			return Phases
		}
	}
	return Grid
}

// Arrange returns a position for every node, keyed by id. The arrangement
// starts at the top-left corner of the current bounding box, so the plan
// stays where it was on the canvas.
func Arrange(nodes []plan.Node, edges []plan.Edge, a Algorithm) (map[string]plan.Point, Algorithm) {
	if len(nodes) == 0 {
		return map[string]plan.Point{}, a
	}
	if a == Smart {
		a = Choose(nodes, edges)
	}

	var pos map[string]plan.Point
	switch a {
	case Layered:
		pos = layered(nodes, edges)
	case Phases:
		pos = phaseColumns(nodes)
	default:
		pos = grid(nodes)
	}

	origin := topLeft(nodes)
	for id, p := range pos {
		pos[id] = p.Add(origin)
	}
	return pos, a
}

// Changes turns arranged positions into move changes, in node order,
// skipping nodes that did not move.
func Changes(nodes []plan.Node, pos map[string]plan.Point) []plan.NodeChange {
	var out []plan.NodeChange
	for _, n := range nodes {
		p, ok := pos[n.ID()]
		if !ok || p == n.Position {
			continue
		}
		out = append(out, plan.MoveNode(n.ID(), p))
	}
	return out
}

func topLeft(nodes []plan.Node) plan.Point {
	p := plan.Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, n := range nodes {
		p.X = math.Min(p.X, n.Position.X)
		p.Y = math.Min(p.Y, n.Position.Y)
	}
	return p
}

// grid packs nodes row by row in a roughly square grid of equal cells.
func grid(nodes []plan.Node) map[string]plan.Point {
	pos := make(map[string]plan.Point, len(nodes))
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	if cols < 1 {
		cols = 1
	}

	var cellW, cellH float64
	for _, n := range nodes {
		s := n.Bounds()
		cellW = math.Max(cellW, s.Width)
		cellH = math.Max(cellH, s.Height)
	}
	cellW += GapX
	cellH += GapY

	for i, n := range nodes {
		pos[n.ID()] = plan.Point{
			X: float64(i%cols) * cellW,
			Y: float64(i/cols) * cellH,
		}
	}
	return pos
}

// phaseColumns puts phases in a row ordered by their order index, with the
// techniques of each phase stacked below it. Techniques without a phase on
// the canvas and text nodes share one extra column on the right.
func phaseColumns(nodes []plan.Node) map[string]plan.Point {
	type column struct {
		head  *plan.Node
		order int
		label string
		items []plan.Node
	}

	var cols []*column
	byName := make(map[string]*column)
	for i := range nodes {
		d, ok := nodes[i].AsPhase()
		if !ok {
			continue
		}
		c := &column{head: &nodes[i], order: d.OrderIndex, label: d.DisplayLabel()}
		cols = append(cols, c)
		for _, key := range []string{d.PhaseID, d.Name, d.Label} {
			if key != "" {
				if _, dup := byName[strings.ToLower(key)]; !dup {
					byName[strings.ToLower(key)] = c
				}
			}
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].order != cols[j].order {
			return cols[i].order < cols[j].order
		}
		return cols[i].label < cols[j].label
	})

	rest := &column{}
	for _, n := range nodes {
		switch n.Kind() {
		case plan.KindPhase:
			continue
		case plan.KindTechnique:
			d, _ := n.AsTechnique()
			if d != nil {
				if c, ok := byName[strings.ToLower(d.Phase)]; ok {
					c.items = append(c.items, n)
					continue
				}
			}
		}
		rest.items = append(rest.items, n)
	}
	if len(rest.items) > 0 {
		cols = append(cols, rest)
	}

	pos := make(map[string]plan.Point, len(nodes))
	x := 0.0
	for _, c := range cols {
		stack := c.items
		if c.head != nil {
			stack = append([]plan.Node{*c.head}, stack...)
		}
		width, y := 0.0, 0.0
		for _, n := range stack {
			s := n.Bounds()
			pos[n.ID()] = plan.Point{X: x, Y: y}
			y += s.Height + GapY/2
			width = math.Max(width, s.Width)
		}
		x += width + GapX
	}
	return pos
}

// graph is the edge structure used by the layered layout. Parallel edges
// and self-loops are dropped.
type graph struct {
	nodes    []string
	order    map[string]int
	forward  map[string][]string
	backward map[string][]string
}

func nonLoops(edges []plan.Edge) []plan.Edge {
	var out []plan.Edge
	for _, e := range edges {
		if e.Source != e.Target {
			out = append(out, e)
		}
	}
	return out
}

func buildGraph(nodes []plan.Node, edges []plan.Edge) *graph {
	g := &graph{
		order:    make(map[string]int, len(nodes)),
		forward:  make(map[string][]string),
		backward: make(map[string][]string),
	}
	for i, n := range nodes {
		g.nodes = append(g.nodes, n.ID())
		g.order[n.ID()] = i
	}

	seen := make(map[[2]string]bool)
	for _, e := range nonLoops(edges) {
		if _, ok := g.order[e.Source]; !ok {
			continue
		}
		if _, ok := g.order[e.Target]; !ok {
			continue
		}
		key := [2]string{e.Source, e.Target}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.forward[e.Source] = append(g.forward[e.Source], e.Target)
		g.backward[e.Target] = append(g.backward[e.Target], e.Source)
	}
	return g
}

// assignLayers runs a breadth-first search from every node without
// incoming edges. Nodes only reachable through a cycle seed a search of
// their own, in node order.
func assignLayers(g *graph) [][]string {
	layerOf := make(map[string]int)
	maxLayer := 0

	bfs := func(root string) {
		layerOf[root] = 0
		queue := []string{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.forward[cur] {
				if _, visited := layerOf[next]; visited {
					continue
				}
				layerOf[next] = layerOf[cur] + 1
				maxLayer = max(maxLayer, layerOf[next])
				queue = append(queue, next)
			}
		}
	}

	for _, id := range g.nodes {
		if len(g.backward[id]) == 0 {
			if _, ok := layerOf[id]; !ok {
				bfs(id)
			}
		}
	}
	for _, id := range g.nodes {
		if _, ok := layerOf[id]; !ok {
			bfs(id)
		}
	}

	layers := make([][]string, maxLayer+1)
	for _, id := range g.nodes {
		l := layerOf[id]
		layers[l] = append(layers[l], id)
	}
	return layers
}

// reduceCrossings reorders each layer by the barycentre of its neighbours
// in the previous layer (forward sweep), then in the next (backward sweep).
func reduceCrossings(layers [][]string, g *graph) {
	if len(layers) <= 1 {
		return
	}
	pos := make(map[string]float64)
	for _, layer := range layers {
		for i, id := range layer {
			pos[id] = float64(i)
		}
	}

	sortLayer := func(layer []string, neighbours map[string][]string) {
		bary := make(map[string]float64, len(layer))
		for _, id := range layer {
			sum, count := 0.0, 0
			for _, nb := range neighbours[id] {
				if p, ok := pos[nb]; ok {
					sum += p
					count++
				}
			}
			if count > 0 {
				bary[id] = sum / float64(count)
			} else {
				bary[id] = pos[id]
			}
		}
		sort.SliceStable(layer, func(i, j int) bool {
			bi, bj := bary[layer[i]], bary[layer[j]]
			if bi != bj {
				return bi < bj
			}
			return g.order[layer[i]] < g.order[layer[j]]
		})
		for i, id := range layer {
			pos[id] = float64(i)
		}
	}

	for l := 1; l < len(layers); l++ {
		sortLayer(layers[l], g.backward)
	}
	for l := len(layers) - 2; l >= 0; l-- {
		sortLayer(layers[l], g.forward)
	}
}

// countCrossings counts edge crossings between two adjacent layers.
func countCrossings(upper, lower []string, g *graph) int {
	at := make(map[string]int, len(lower))
	for i, id := range lower {
		at[id] = i
	}
	type seg struct{ a, b int }
	var segs []seg
	for i, id := range upper {
		for _, next := range g.forward[id] {
			if j, ok := at[next]; ok {
				segs = append(segs, seg{i, j})
			}
		}
	}
	n := 0
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if (segs[i].a-segs[j].a)*(segs[i].b-segs[j].b) < 0 {
				n++
			}
		}
	}
	return n
}

// Crossings reports the number of edge crossings between adjacent layers
// of the layered arrangement, as a quality measure.
func Crossings(nodes []plan.Node, edges []plan.Edge) int {
	g := buildGraph(nodes, edges)
	layers := assignLayers(g)
	for i := 0; i < 4; i++ {
		reduceCrossings(layers, g)
	}
	total := 0
	for l := 0; l+1 < len(layers); l++ {
		total += countCrossings(layers[l], layers[l+1], g)
	}
	return total
}

// layered places layers top to bottom, each row centred on the widest.
func layered(nodes []plan.Node, edges []plan.Edge) map[string]plan.Point {
	g := buildGraph(nodes, edges)
	layers := assignLayers(g)
	for i := 0; i < 4; i++ {
		reduceCrossings(layers, g)
	}

	size := make(map[string]plan.Size, len(nodes))
	for _, n := range nodes {
		size[n.ID()] = n.Bounds()
	}

	rowWidth := make([]float64, len(layers))
	widest := 0.0
	for l, layer := range layers {
		for i, id := range layer {
			if i > 0 {
				rowWidth[l] += GapX
			}
			rowWidth[l] += size[id].Width
		}
		widest = math.Max(widest, rowWidth[l])
	}

	pos := make(map[string]plan.Point, len(nodes))
	y := 0.0
	for l, layer := range layers {
		x := (widest - rowWidth[l]) / 2
		rowHeight := 0.0
		for _, id := range layer {
			pos[id] = plan.Point{X: x, Y: y}
			x += size[id].Width + GapX
			rowHeight = math.Max(rowHeight, size[id].Height)
		}
		y += rowHeight + GapY
	}
	return pos
}
