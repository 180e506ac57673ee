// Package planfile reads and writes plan documents and palette catalogs,
// and exports plans to SVG, PNG and Graphviz DOT.
package planfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ha1tch/attackplan/pkg/canvas"
	"github.com/ha1tch/attackplan/pkg/plan"
)

// Version is the document format written by ToJSON.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported plan version")
	ErrUnknownFormat      = errors.New("unknown export format")
)

// Document is a plan on disk: the graph plus the view it was saved with.
type Document struct {
	Name        string
	Description string
	Viewport    canvas.Viewport
	Nodes       []plan.Node
	Edges       []plan.Edge
}

// jsonDoc is the JSON representation of a Document.
type jsonDoc struct {
	Version     int              `json:"version"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Viewport    *canvas.Viewport `json:"viewport,omitempty"`
	Nodes       []jsonNode       `json:"nodes"`
	Edges       []plan.Edge      `json:"edges"`
}

type jsonNode struct {
	ID       string          `json:"id"`
	Type     plan.Kind       `json:"type"`
	Position plan.Point      `json:"position"`
	Size     *plan.Size      `json:"size,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseJSON parses a plan document. Nodes of unknown type are skipped and
// payloads that do not decode are dropped, leaving the node to render as a
// placeholder; both are reported to logger, which may be nil.
func ParseJSON(data []byte, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = discard
	}
	var j jsonDoc
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	if j.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, j.Version)
	}

	doc := &Document{
		Name:        j.Name,
		Description: j.Description,
		Viewport:    canvas.Identity(),
		Nodes:       make([]plan.Node, 0, len(j.Nodes)),
		Edges:       make([]plan.Edge, 0, len(j.Edges)),
	}
	if j.Viewport != nil && j.Viewport.Zoom > 0 {
		doc.Viewport = *j.Viewport
	}

	for _, jn := range j.Nodes {
		if !jn.Type.Valid() {
			logger.Warn("skipping node of unknown type", "id", jn.ID, "type", jn.Type)
			continue
		}
		payload, err := plan.DecodePayload(jn.Type, jn.Data)
		if err != nil {
			logger.Warn("dropping undecodable payload", "id", jn.ID, "err", err)
			payload = nil
		}
		n, err := plan.RestoreNode(jn.ID, jn.Type, jn.Position, jn.Size, payload)
		if err != nil {
			logger.Warn("skipping node", "id", jn.ID, "err", err)
			continue
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	doc.Edges = append(doc.Edges, j.Edges...)
	return doc, nil
}

// ToJSON converts a document to JSON.
func ToJSON(doc *Document, pretty bool) ([]byte, error) {
	vp := doc.Viewport
	j := jsonDoc{
		Version:     Version,
		Name:        doc.Name,
		Description: doc.Description,
		Viewport:    &vp,
		Nodes:       make([]jsonNode, 0, len(doc.Nodes)),
		Edges:       doc.Edges,
	}
	if j.Edges == nil {
		j.Edges = []plan.Edge{}
	}

	for _, n := range doc.Nodes {
		jn := jsonNode{
			ID:       n.ID(),
			Type:     n.Kind(),
			Position: n.Position,
			Size:     n.Size,
		}
		if n.Data != nil {
			raw, err := json.Marshal(n.Data)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", n.ID(), err)
			}
			jn.Data = raw
		}
		j.Nodes = append(j.Nodes, jn)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

// Graph builds a graph store from the document. Dangling edges are
// pruned.
func (d *Document) Graph() *plan.Graph {
	g := plan.NewGraph()
	g.Name = d.Name
	g.Description = d.Description
	g.Replace(d.Nodes, d.Edges)
	return g
}

// FromGraph captures a graph and viewport as a document.
func FromGraph(g *plan.Graph, vp canvas.Viewport) *Document {
	c := g.Clone()
	return &Document{
		Name:        g.Name,
		Description: g.Description,
		Viewport:    vp,
		Nodes:       c.Nodes(),
		Edges:       c.Edges(),
	}
}

// ReadFile reads a plan document from path.
func ReadFile(path string, logger *slog.Logger) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseJSON(data, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile writes doc to path as indented JSON.
func WriteFile(path string, doc *Document) error {
	data, err := ToJSON(doc, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
