package plan

// ChangeType identifies what a change descriptor does.
type ChangeType string

const (
	ChangeAdd        ChangeType = "add"
	ChangeRemove     ChangeType = "remove"
	ChangePosition   ChangeType = "position"
	ChangeDimensions ChangeType = "dimensions"
	ChangeData       ChangeType = "data"
)

// NodeChange describes one structural change to the node collection. Which
// fields are read depends on Type.
type NodeChange struct {
	Type     ChangeType
	ID       string
	Node     *Node   // add
	Position Point   // position
	Size     Size    // dimensions
	Data     Payload // data
}

// EdgeChange describes one structural change to the edge collection.
type EdgeChange struct {
	Type ChangeType
	ID   string
	Edge *Edge // add
}

// AddNode returns an add change for n.
func AddNode(n Node) NodeChange {
	return NodeChange{Type: ChangeAdd, ID: n.ID(), Node: &n}
}

// RemoveNode returns a remove change for id.
func RemoveNode(id string) NodeChange {
	return NodeChange{Type: ChangeRemove, ID: id}
}

// MoveNode returns a position change.
func MoveNode(id string, p Point) NodeChange {
	return NodeChange{Type: ChangePosition, ID: id, Position: p}
}

// ResizeNode returns a dimensions change.
func ResizeNode(id string, s Size) NodeChange {
	return NodeChange{Type: ChangeDimensions, ID: id, Size: s}
}

// UpdateNodeData returns a data change replacing the payload of id.
func UpdateNodeData(id string, d Payload) NodeChange {
	return NodeChange{Type: ChangeData, ID: id, Data: d}
}

// AddEdge returns an add change for e.
func AddEdge(e Edge) EdgeChange {
	return EdgeChange{Type: ChangeAdd, ID: e.ID, Edge: &e}
}

// RemoveEdge returns a remove change for id.
func RemoveEdge(id string) EdgeChange {
	return EdgeChange{Type: ChangeRemove, ID: id}
}

// ApplyNodeChanges applies a batch to nodes and returns the new collection.
// The input slice is not modified. Changes that reference missing nodes, or
// that would alter a node's kind, are skipped.
func ApplyNodeChanges(changes []NodeChange, nodes []Node) []Node {
	removed := make(map[string]bool)
	updates := make(map[string][]NodeChange)
	var added []Node
	for _, c := range changes {
		switch c.Type {
		case ChangeRemove:
			removed[c.ID] = true
		case ChangeAdd:
			if c.Node != nil {
				added = append(added, c.Node.Clone())
			}
		case ChangePosition, ChangeDimensions, ChangeData:
			updates[c.ID] = append(updates[c.ID], c)
		}
	}

	out := make([]Node, 0, len(nodes)+len(added))
	seen := make(map[string]bool, len(nodes)+len(added))
	for _, n := range nodes {
		if removed[n.id] {
			continue
		}
		for _, c := range updates[n.id] {
			n = applyNodeUpdate(n, c)
		}
		seen[n.id] = true
		out = append(out, n)
	}
	for _, n := range added {
		if seen[n.id] || removed[n.id] {
			continue
		}
		seen[n.id] = true
		out = append(out, n)
	}
	return out
}

func applyNodeUpdate(n Node, c NodeChange) Node {
	switch c.Type {
	case ChangePosition:
		n.Position = c.Position
	case ChangeDimensions:
		if n.kind != KindText {
			return n
		}
		s := ClampSize(c.Size)
		n.Size = &s
	case ChangeData:
		if c.Data == nil || c.Data.Kind() != n.kind {
			return n
		}
		n.Data = c.Data.clone()
	}
	return n
}

// ApplyEdgeChanges applies a batch to edges and returns the new collection.
func ApplyEdgeChanges(changes []EdgeChange, edges []Edge) []Edge {
	removed := make(map[string]bool)
	var added []Edge
	for _, c := range changes {
		switch c.Type {
		case ChangeRemove:
			removed[c.ID] = true
		case ChangeAdd:
			if c.Edge != nil {
				added = append(added, *c.Edge)
			}
		}
	}

	out := make([]Edge, 0, len(edges)+len(added))
	seen := make(map[string]bool, len(edges)+len(added))
	for _, e := range edges {
		if removed[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	for _, e := range added {
		if seen[e.ID] || removed[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}
