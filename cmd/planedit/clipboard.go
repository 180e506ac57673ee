package main

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/ha1tch/attackplan/pkg/canvas"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/planfile"
)

// pasteOffset shifts pasted nodes so they do not cover their originals.
const pasteOffset = 40

// fragment captures the nodes ids and the edges running between them.
func fragment(g *plan.Graph, ids []string) *planfile.Document {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	doc := &planfile.Document{Viewport: canvas.Identity()}
	for _, n := range g.Nodes() {
		if set[n.ID()] {
			doc.Nodes = append(doc.Nodes, n.Clone())
		}
	}
	for _, e := range g.Edges() {
		if set[e.Source] && set[e.Target] {
			doc.Edges = append(doc.Edges, e)
		}
	}
	return doc
}

// rebase gives the fragment's nodes and edges fresh ids and moves the
// nodes by offset, so it can be pasted any number of times.
func rebase(doc *planfile.Document, offset plan.Point) ([]plan.Node, []plan.Edge) {
	ids := make(map[string]string, len(doc.Nodes))
	nodes := make([]plan.Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		c := n.Clone()
		fresh, err := plan.RestoreNode(plan.NewID(), c.Kind(), c.Position.Add(offset), c.Size, c.Data)
		if err != nil {
			continue
		}
		ids[n.ID()] = fresh.ID()
		nodes = append(nodes, fresh)
	}
	edges := make([]plan.Edge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		src, ok1 := ids[e.Source]
		dst, ok2 := ids[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		edges = append(edges, plan.NewEdge(plan.Connection{
			Source:       src,
			SourceAnchor: e.SourceAnchor,
			Target:       dst,
			TargetAnchor: e.TargetAnchor,
		}))
	}
	return nodes, edges
}

func (ed *Editor) copyToClipboard() {
	ids := ed.ctrl.Selection().Nodes()
	if len(ids) == 0 {
		ed.showMessage("Nothing selected", MsgInfo)
		return
	}
	data, err := planfile.ToJSON(fragment(ed.graph, ids), false)
	if err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		ed.showMessage("Clipboard unavailable: "+err.Error(), MsgError)
		return
	}
	ed.showMessage(fmt.Sprintf("Copied %d nodes", len(ids)), MsgSuccess)
}

func (ed *Editor) pasteFromClipboard() {
	text, err := clipboard.ReadAll()
	if err != nil {
		ed.showMessage("Clipboard unavailable: "+err.Error(), MsgError)
		return
	}
	doc, err := planfile.ParseJSON([]byte(text), ed.logger)
	if err != nil || len(doc.Nodes) == 0 {
		ed.showMessage("Clipboard does not hold plan nodes", MsgWarning)
		return
	}
	nodes, edges := rebase(doc, plan.Point{X: pasteOffset, Y: pasteOffset})

	ed.history.save(ed.graph)
	nc := make([]plan.NodeChange, 0, len(nodes))
	for _, n := range nodes {
		nc = append(nc, plan.AddNode(n))
	}
	ec := make([]plan.EdgeChange, 0, len(edges))
	for _, e := range edges {
		ec = append(ec, plan.AddEdge(e))
	}
	ed.graph.ApplyNodeChanges(nc)
	ed.graph.ApplyEdgeChanges(ec)
	ed.modified = true

	sel := ed.ctrl.Selection()
	sel.Clear()
	for _, n := range nodes {
		sel.AddNode(n.ID())
	}
	ed.showMessage(fmt.Sprintf("Pasted %d nodes", len(nodes)), MsgSuccess)
}
