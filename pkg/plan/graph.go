package plan

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// Graph is an id-addressed arena of nodes and edges. It is the store a host
// application hands to the canvas; all mutation goes through the two
// Apply methods.
type Graph struct {
	Name        string
	Description string

	nodes  []Node
	edges  []Edge
	logger *slog.Logger
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:  make([]Node, 0),
		edges:  make([]Edge, 0),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger used to report skipped or pruned elements.
func (g *Graph) SetLogger(l *slog.Logger) {
	if l != nil {
		g.logger = l
	}
}

// Nodes returns the node collection in paint order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edge collection.
func (g *Graph) Edges() []Edge { return g.edges }

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.nodes {
		if n.id == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// Replace swaps in whole collections, as when a document is loaded. Edges
// whose endpoints are missing are dropped.
func (g *Graph) Replace(nodes []Node, edges []Edge) {
	g.nodes = slices.Clone(nodes)
	g.edges = g.prune(slices.Clone(edges))
}

// ApplyNodeChanges applies one batch to the node collection. Edges left
// without an endpoint are removed in the same step so no caller ever
// observes a dangling edge.
func (g *Graph) ApplyNodeChanges(changes []NodeChange) {
	if len(changes) == 0 {
		return
	}
	g.nodes = ApplyNodeChanges(changes, g.nodes)
	g.edges = g.prune(g.edges)
	g.logger.Debug("applied node changes", "changes", len(changes), "nodes", len(g.nodes))
}

// ApplyEdgeChanges applies one batch to the edge collection. Added edges
// whose endpoints do not exist are skipped.
func (g *Graph) ApplyEdgeChanges(changes []EdgeChange) {
	if len(changes) == 0 {
		return
	}
	valid := changes[:0:0]
	for _, c := range changes {
		if c.Type == ChangeAdd && c.Edge != nil {
			if !g.HasNode(c.Edge.Source) || !g.HasNode(c.Edge.Target) {
				g.logger.Warn("skipping edge with missing endpoint",
					"edge", c.Edge.ID, "source", c.Edge.Source, "target", c.Edge.Target)
				continue
			}
		}
		valid = append(valid, c)
	}
	g.edges = ApplyEdgeChanges(valid, g.edges)
	g.logger.Debug("applied edge changes", "changes", len(valid), "edges", len(g.edges))
}

func (g *Graph) prune(edges []Edge) []Edge {
	ids := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		ids[n.id] = true
	}
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if !ids[e.Source] || !ids[e.Target] {
			g.logger.Warn("pruning dangling edge", "edge", e.ID)
			continue
		}
		out = append(out, e)
	}
	return out
}

// Clone returns a deep copy of g for undo snapshots.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Name:        g.Name,
		Description: g.Description,
		nodes:       make([]Node, len(g.nodes)),
		edges:       make([]Edge, len(g.edges)),
		logger:      g.logger,
	}
	for i, n := range g.nodes {
		c.nodes[i] = n.Clone()
	}
	copy(c.edges, g.edges)
	return c
}

// CountByKind returns how many nodes of each kind the graph holds.
func (g *Graph) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, n := range g.nodes {
		counts[n.kind]++
	}
	return counts
}

// Validate checks the graph is well-formed: unique ids, edges referencing
// present nodes with known anchors.
func (g *Graph) Validate() error {
	return Validate(g.nodes, g.edges)
}

// Validate checks raw collections, as read from storage before dangling
// edges are pruned.
func Validate(nodes []Node, edges []Edge) error {
	var errs []error
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if ids[n.id] {
			errs = append(errs, fmt.Errorf("node %s: %w", n.id, ErrDuplicateID))
		}
		ids[n.id] = true
	}
	edgeIDs := make(map[string]bool, len(edges))
	for _, e := range edges {
		if edgeIDs[e.ID] {
			errs = append(errs, fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateID))
		}
		edgeIDs[e.ID] = true
		if !ids[e.Source] {
			errs = append(errs, fmt.Errorf("edge %s: source %q: %w", e.ID, e.Source, ErrDanglingEdge))
		}
		if !ids[e.Target] {
			errs = append(errs, fmt.Errorf("edge %s: target %q: %w", e.ID, e.Target, ErrDanglingEdge))
		}
		if !e.SourceAnchor.Valid() || !e.TargetAnchor.Valid() {
			errs = append(errs, fmt.Errorf("edge %s: invalid anchor %q -> %q", e.ID, e.SourceAnchor, e.TargetAnchor))
		}
	}
	return errors.Join(errs...)
}
