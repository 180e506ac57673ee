package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePhase() PhaseData {
	return PhaseData{PhaseID: "p1", Name: "Initial Access", IconName: "key", OrderIndex: 3}
}

func sampleTechnique() TechniqueData {
	return TechniqueData{
		TechniqueID: "t1", MitreID: "T1566", Title: "Phishing",
		Phase: "Initial Access", Category: "Social", Tags: []string{"email"},
	}
}

func TestNewNodeRejectsMismatchedPayload(t *testing.T) {
	_, err := NewNode(KindPhase, Point{}, &TextData{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKindMismatch))

	_, err = NewNode(Kind("sticky"), Point{}, nil)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestTypeGuards(t *testing.T) {
	p := NewPhaseNode(Point{X: 1, Y: 2}, samplePhase())
	tech := NewTechniqueNode(Point{}, sampleTechnique())
	text := NewTextNode(Point{})

	_, ok := p.AsPhase()
	assert.True(t, ok)
	_, ok = p.AsTechnique()
	assert.False(t, ok)
	_, ok = tech.AsTechnique()
	assert.True(t, ok)
	d, ok := text.AsText()
	require.True(t, ok)
	assert.Equal(t, DefaultTextContent, d.Content)
	assert.Equal(t, FontBase, d.FontSize)

	missing, err := RestoreNode("x", KindPhase, Point{}, nil, nil)
	require.NoError(t, err)
	_, ok = missing.AsPhase()
	assert.False(t, ok, "nil payload must not narrow")
}

func TestRestoreNodeClampsTextSize(t *testing.T) {
	n, err := RestoreNode("t", KindText, Point{}, &Size{Width: 10, Height: 5}, nil)
	require.NoError(t, err)
	require.NotNil(t, n.Size)
	assert.Equal(t, Size{Width: MinTextWidth, Height: MinTextHeight}, *n.Size)
}

func TestRestoreNodeDropsMismatchedPayload(t *testing.T) {
	n, err := RestoreNode("t", KindTechnique, Point{}, nil, &PhaseData{Name: "x"})
	require.NoError(t, err)
	assert.Nil(t, n.Data)
}

func TestDataChangeCannotMorphKind(t *testing.T) {
	p := NewPhaseNode(Point{}, samplePhase())
	out := ApplyNodeChanges([]NodeChange{UpdateNodeData(p.ID(), &TextData{Content: "x"})}, []Node{p})
	require.Len(t, out, 1)
	assert.Equal(t, KindPhase, out[0].Kind())
	_, ok := out[0].AsPhase()
	assert.True(t, ok)
}

func TestDimensionsChangeClamped(t *testing.T) {
	text := NewTextNode(Point{})
	sizes := []Size{{Width: 0, Height: 0}, {Width: -50, Height: 500}, {Width: 199, Height: 99}, {Width: 300, Height: 120}}
	nodes := []Node{text}
	for _, s := range sizes {
		nodes = ApplyNodeChanges([]NodeChange{ResizeNode(text.ID(), s)}, nodes)
		got := nodes[0].Size
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, got.Width, float64(MinTextWidth))
		assert.GreaterOrEqual(t, got.Height, float64(MinTextHeight))
	}
}

func TestDimensionsIgnoredForFixedNodes(t *testing.T) {
	p := NewPhaseNode(Point{}, samplePhase())
	out := ApplyNodeChanges([]NodeChange{ResizeNode(p.ID(), Size{Width: 500, Height: 500})}, []Node{p})
	assert.Nil(t, out[0].Size)
}

func TestApplyNodeChangesDoesNotMutateInput(t *testing.T) {
	a := NewTextNode(Point{X: 1})
	b := NewTextNode(Point{X: 2})
	in := []Node{a, b}
	out := ApplyNodeChanges([]NodeChange{RemoveNode(a.ID()), MoveNode(b.ID(), Point{X: 9})}, in)
	require.Len(t, out, 1)
	assert.Equal(t, 9.0, out[0].Position.X)
	assert.Equal(t, 1.0, in[0].Position.X)
	assert.Equal(t, 2.0, in[1].Position.X)
}

func TestGraphCascadesDanglingEdges(t *testing.T) {
	g := NewGraph()
	p := NewPhaseNode(Point{}, samplePhase())
	tech := NewTechniqueNode(Point{}, sampleTechnique())
	g.ApplyNodeChanges([]NodeChange{AddNode(p), AddNode(tech)})
	g.ApplyEdgeChanges([]EdgeChange{
		AddEdge(NewEdge(Connection{Source: p.ID(), SourceAnchor: AnchorBottom, Target: tech.ID(), TargetAnchor: AnchorTop})),
		AddEdge(NewEdge(Connection{Source: tech.ID(), SourceAnchor: AnchorBottom, Target: tech.ID(), TargetAnchor: AnchorTop})),
	})
	require.Len(t, g.Edges(), 2, "self-loops are permitted")

	g.ApplyNodeChanges([]NodeChange{RemoveNode(tech.ID())})
	assert.Empty(t, g.Edges())
	assert.Len(t, g.Nodes(), 1)
	assert.NoError(t, g.Validate())
}

func TestGraphPruneLeavesEarlierEdgesIntact(t *testing.T) {
	g := NewGraph()
	a := NewPhaseNode(Point{}, samplePhase())
	b := NewTechniqueNode(Point{}, sampleTechnique())
	c := NewTextNode(Point{})
	g.ApplyNodeChanges([]NodeChange{AddNode(a), AddNode(b), AddNode(c)})
	g.ApplyEdgeChanges([]EdgeChange{
		AddEdge(NewEdge(Connection{Source: a.ID(), SourceAnchor: AnchorBottom, Target: b.ID(), TargetAnchor: AnchorTop})),
		AddEdge(NewEdge(Connection{Source: b.ID(), SourceAnchor: AnchorBottom, Target: c.ID(), TargetAnchor: AnchorTop})),
	})
	held := g.Edges()
	want := append([]Edge(nil), held...)

	g.ApplyNodeChanges([]NodeChange{RemoveNode(a.ID())})
	require.Len(t, g.Edges(), 1)
	assert.Equal(t, want, held, "slice returned before the batch is unchanged")
}

func TestGraphSkipsEdgeWithMissingEndpoint(t *testing.T) {
	g := NewGraph()
	p := NewPhaseNode(Point{}, samplePhase())
	g.ApplyNodeChanges([]NodeChange{AddNode(p)})
	g.ApplyEdgeChanges([]EdgeChange{AddEdge(NewEdge(Connection{Source: p.ID(), Target: "ghost"}))})
	assert.Empty(t, g.Edges())
}

func TestGraphAllowsParallelEdges(t *testing.T) {
	g := NewGraph()
	a := NewTextNode(Point{})
	b := NewTextNode(Point{})
	g.ApplyNodeChanges([]NodeChange{AddNode(a), AddNode(b)})
	c := Connection{Source: a.ID(), SourceAnchor: AnchorRight, Target: b.ID(), TargetAnchor: AnchorLeft}
	g.ApplyEdgeChanges([]EdgeChange{AddEdge(NewEdge(c))})
	g.ApplyEdgeChanges([]EdgeChange{AddEdge(NewEdge(c))})
	assert.Len(t, g.Edges(), 2)
}

func TestIncidentEdges(t *testing.T) {
	edges := []Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "c"},
		{ID: "e3", Source: "c", Target: "d"},
	}
	assert.ElementsMatch(t, []string{"e1", "e2"}, IncidentEdges(edges, []string{"b"}))
	assert.Empty(t, IncidentEdges(edges, []string{"z"}))
}

func TestGraphCloneIsDeep(t *testing.T) {
	g := NewGraph()
	text := NewTextNode(Point{})
	tech := NewTechniqueNode(Point{}, sampleTechnique())
	g.ApplyNodeChanges([]NodeChange{AddNode(text), AddNode(tech)})

	c := g.Clone()
	d, _ := g.nodes[0].AsText()
	d.Content = "changed"
	g.nodes[0].Size.Width = 999
	td, _ := g.nodes[1].AsTechnique()
	td.Tags[0] = "changed"

	cd, _ := c.nodes[0].AsText()
	assert.Equal(t, DefaultTextContent, cd.Content)
	assert.Equal(t, float64(DefaultTextWidth), c.nodes[0].Size.Width)
	ctd, _ := c.nodes[1].AsTechnique()
	assert.Equal(t, "email", ctd.Tags[0])
}

func TestValidateReportsDuplicates(t *testing.T) {
	g := NewGraph()
	a, _ := RestoreNode("same", KindText, Point{}, nil, nil)
	b, _ := RestoreNode("same", KindText, Point{}, nil, nil)
	g.nodes = []Node{a, b}
	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestDescriptorRoundTrip(t *testing.T) {
	data, err := EncodeDescriptor(Descriptor{Kind: KindTechnique, Data: &TechniqueData{MitreID: "T1059", Title: "Command and Scripting Interpreter"}})
	require.NoError(t, err)
	d, err := DecodeDescriptor(data)
	require.NoError(t, err)
	assert.Equal(t, KindTechnique, d.Kind)
	td, ok := d.Data.(*TechniqueData)
	require.True(t, ok)
	assert.Equal(t, "T1059", td.MitreID)

	_, err = DecodeDescriptor([]byte(`{"kind":"widget","data":{}}`))
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestDecodePayloadNormalizesText(t *testing.T) {
	p, err := DecodePayload(KindText, []byte(`{"content":"hi","fontSize":"huge","fontWeight":"bold"}`))
	require.NoError(t, err)
	d := p.(*TextData)
	assert.Equal(t, FontBase, d.FontSize)
	assert.Equal(t, WeightBold, d.FontWeight)

	p, err = DecodePayload(KindPhase, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}
