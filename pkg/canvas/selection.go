package canvas

import "sort"

// Selection is the ephemeral set of selected node and edge ids plus the
// hovered node. It is never part of the graph.
type Selection struct {
	nodes map[string]bool
	edges map[string]bool
	hover string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{nodes: map[string]bool{}, edges: map[string]bool{}}
}

// Clear deselects everything.
func (s *Selection) Clear() {
	clear(s.nodes)
	clear(s.edges)
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool {
	return len(s.nodes) == 0 && len(s.edges) == 0
}

// SelectNode replaces the selection with a single node.
func (s *Selection) SelectNode(id string) {
	s.Clear()
	s.nodes[id] = true
}

// SelectEdge replaces the selection with a single edge.
func (s *Selection) SelectEdge(id string) {
	s.Clear()
	s.edges[id] = true
}

// ToggleNode adds or removes a node, keeping the rest.
func (s *Selection) ToggleNode(id string) {
	if s.nodes[id] {
		delete(s.nodes, id)
		return
	}
	s.nodes[id] = true
}

// ToggleEdge adds or removes an edge, keeping the rest.
func (s *Selection) ToggleEdge(id string) {
	if s.edges[id] {
		delete(s.edges, id)
		return
	}
	s.edges[id] = true
}

// AddNode adds a node to the selection.
func (s *Selection) AddNode(id string) { s.nodes[id] = true }

// AddEdge adds an edge to the selection.
func (s *Selection) AddEdge(id string) { s.edges[id] = true }

// HasNode reports whether a node is selected.
func (s *Selection) HasNode(id string) bool { return s.nodes[id] }

// HasEdge reports whether an edge is selected.
func (s *Selection) HasEdge(id string) bool { return s.edges[id] }

// Nodes returns the selected node ids, sorted.
func (s *Selection) Nodes() []string { return sortedKeys(s.nodes) }

// Edges returns the selected edge ids, sorted.
func (s *Selection) Edges() []string { return sortedKeys(s.edges) }

// Forget drops ids that no longer exist.
func (s *Selection) Forget(nodeExists, edgeExists func(string) bool) {
	for id := range s.nodes {
		if !nodeExists(id) {
			delete(s.nodes, id)
		}
	}
	for id := range s.edges {
		if !edgeExists(id) {
			delete(s.edges, id)
		}
	}
	if s.hover != "" && !nodeExists(s.hover) {
		s.hover = ""
	}
}

// Hover returns the hovered node id, or "".
func (s *Selection) Hover() string { return s.hover }

// SetHover records the node under the pointer.
func (s *Selection) SetHover(id string) { s.hover = id }

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
