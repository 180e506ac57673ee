// Package plan provides the attack-plan graph types: nodes, edges, their
// payload variants and the change batches that mutate them.
package plan

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind discriminates node variants.
type Kind string

const (
	KindPhase     Kind = "phase"
	KindTechnique Kind = "technique"
	KindText      Kind = "text"
)

// Kinds lists every node kind in display order.
var Kinds = []Kind{KindPhase, KindTechnique, KindText}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPhase, KindTechnique, KindText:
		return true
	}
	return false
}

// Anchor is a connection point on a node border.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

// Anchors lists all four anchors.
var Anchors = []Anchor{AnchorTop, AnchorBottom, AnchorLeft, AnchorRight}

// Valid reports whether a is a known anchor.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorTop, AnchorBottom, AnchorLeft, AnchorRight:
		return true
	}
	return false
}

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Size is a width/height pair in canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Text node size limits.
const (
	MinTextWidth  = 200
	MinTextHeight = 100

	DefaultTextWidth  = 250
	DefaultTextHeight = 150
)

// ClampSize raises s to the text node floor.
func ClampSize(s Size) Size {
	if s.Width < MinTextWidth {
		s.Width = MinTextWidth
	}
	if s.Height < MinTextHeight {
		s.Height = MinTextHeight
	}
	return s
}

var (
	ErrUnknownKind  = errors.New("unknown node kind")
	ErrNodeNotFound = errors.New("node not found")
	ErrDanglingEdge = errors.New("edge references missing node")
	ErrDuplicateID  = errors.New("duplicate id")
	ErrKindMismatch = errors.New("payload does not match node kind")
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// Node is a positioned element on the canvas. The id and kind are fixed at
// creation; a node cannot change variant.
type Node struct {
	id   string
	kind Kind

	Position Point
	Size     *Size // Text nodes only
	Data     Payload
}

// NewNode creates a node of the given kind with a fresh id. Text nodes get
// the default size.
func NewNode(kind Kind, pos Point, data Payload) (Node, error) {
	if !kind.Valid() {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if data != nil && data.Kind() != kind {
		return Node{}, fmt.Errorf("%w: %s node with %s payload", ErrKindMismatch, kind, data.Kind())
	}
	n := Node{id: NewID(), kind: kind, Position: pos, Data: data}
	if kind == KindText {
		n.Size = &Size{Width: DefaultTextWidth, Height: DefaultTextHeight}
	}
	return n, nil
}

// RestoreNode rebuilds a node with a known id, as read from storage. A nil
// payload is kept so renderers can show a placeholder.
func RestoreNode(id string, kind Kind, pos Point, size *Size, data Payload) (Node, error) {
	if !kind.Valid() {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if id == "" {
		id = NewID()
	}
	if data != nil && data.Kind() != kind {
		data = nil
	}
	n := Node{id: id, kind: kind, Position: pos, Data: data}
	if kind == KindText {
		s := Size{Width: DefaultTextWidth, Height: DefaultTextHeight}
		if size != nil {
			s = ClampSize(*size)
		}
		n.Size = &s
	}
	return n, nil
}

// NewPhaseNode creates a phase marker.
func NewPhaseNode(pos Point, d PhaseData) Node {
	n, _ := NewNode(KindPhase, pos, &d)
	return n
}

// NewTechniqueNode creates a technique reference.
func NewTechniqueNode(pos Point, d TechniqueData) Node {
	n, _ := NewNode(KindTechnique, pos, &d)
	return n
}

// NewTextNode creates a text box with default content and style.
func NewTextNode(pos Point) Node {
	d := DefaultTextData()
	n, _ := NewNode(KindText, pos, &d)
	return n
}

// ID returns the node id.
func (n Node) ID() string { return n.id }

// Kind returns the node kind.
func (n Node) Kind() Kind { return n.kind }

// AsPhase narrows n to its phase payload.
func (n Node) AsPhase() (*PhaseData, bool) {
	if n.kind != KindPhase {
		return nil, false
	}
	d, ok := n.Data.(*PhaseData)
	return d, ok && d != nil
}

// AsTechnique narrows n to its technique payload.
func (n Node) AsTechnique() (*TechniqueData, bool) {
	if n.kind != KindTechnique {
		return nil, false
	}
	d, ok := n.Data.(*TechniqueData)
	return d, ok && d != nil
}

// AsText narrows n to its text payload.
func (n Node) AsText() (*TextData, bool) {
	if n.kind != KindText {
		return nil, false
	}
	d, ok := n.Data.(*TextData)
	return d, ok && d != nil
}

// Bounds returns the node's size in canvas units. Phase and technique nodes
// have fixed dimensions.
func (n Node) Bounds() Size {
	switch n.kind {
	case KindText:
		if n.Size != nil {
			return *n.Size
		}
		return Size{Width: DefaultTextWidth, Height: DefaultTextHeight}
	case KindTechnique:
		return Size{Width: 260, Height: 100}
	default:
		return Size{Width: 200, Height: 60}
	}
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	c := n
	if n.Size != nil {
		s := *n.Size
		c.Size = &s
	}
	if n.Data != nil {
		c.Data = n.Data.clone()
	}
	return c
}

// Edge is a directed plan-flow dependency between two node anchors.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceAnchor Anchor `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetAnchor Anchor `json:"targetHandle"`
}

// Connection is an edge request before it has an id.
type Connection struct {
	Source       string
	SourceAnchor Anchor
	Target       string
	TargetAnchor Anchor
}

// NewEdge creates an edge for c with a fresh id.
func NewEdge(c Connection) Edge {
	return Edge{
		ID:           "edge-" + NewID(),
		Source:       c.Source,
		SourceAnchor: c.SourceAnchor,
		Target:       c.Target,
		TargetAnchor: c.TargetAnchor,
	}
}

// Touches reports whether e has an endpoint in ids.
func (e Edge) Touches(ids map[string]bool) bool {
	return ids[e.Source] || ids[e.Target]
}

// IncidentEdges returns the ids of edges with an endpoint in nodeIDs.
func IncidentEdges(edges []Edge, nodeIDs []string) []string {
	set := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		set[id] = true
	}
	var out []string
	for _, e := range edges {
		if e.Touches(set) {
			out = append(out, e.ID)
		}
	}
	return out
}
