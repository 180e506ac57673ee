package canvas

import (
	"math/rand"
	"testing"

	"github.com/ha1tch/attackplan/pkg/input"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
	"github.com/ha1tch/attackplan/pkg/textedit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// store applies batches without pruning, so tests observe exactly what the
// controller emits.
type store struct {
	nodes   []plan.Node
	edges   []plan.Edge
	batches []string
}

func (s *store) Nodes() []plan.Node { return s.nodes }
func (s *store) Edges() []plan.Edge { return s.edges }

func (s *store) applyNodes(ch []plan.NodeChange) {
	s.nodes = plan.ApplyNodeChanges(ch, s.nodes)
	s.batches = append(s.batches, "nodes")
}

func (s *store) applyEdges(ch []plan.EdgeChange) {
	s.edges = plan.ApplyEdgeChanges(ch, s.edges)
	s.batches = append(s.batches, "edges")
}

func newController(s *store, opts Options) *Controller {
	if opts.OnNodesChange == nil {
		opts.OnNodesChange = s.applyNodes
	}
	if opts.OnEdgesChange == nil {
		opts.OnEdgesChange = s.applyEdges
	}
	return New(s, opts)
}

func press(x, y float64) *PointerEvent {
	return &PointerEvent{Screen: plan.Point{X: x, Y: y}, Button: input.ButtonPrimary}
}

func click(c *Controller, x, y float64) {
	c.PointerDown(press(x, y))
	c.PointerUp(press(x, y))
}

// phaseAndTechnique returns P1 at the origin and T1 below it, joined by an
// edge from P1's bottom to T1's top.
func phaseAndTechnique() (*store, plan.Node, plan.Node) {
	p1 := plan.NewPhaseNode(plan.Point{X: 0, Y: 0}, plan.PhaseData{Name: "Reconnaissance"})
	t1 := plan.NewTechniqueNode(plan.Point{X: 0, Y: 200}, plan.TechniqueData{Title: "Scan", Phase: "Reconnaissance"})
	e := plan.NewEdge(plan.Connection{
		Source: p1.ID(), SourceAnchor: plan.AnchorBottom,
		Target: t1.ID(), TargetAnchor: plan.AnchorTop,
	})
	return &store{nodes: []plan.Node{p1, t1}, edges: []plan.Edge{e}}, p1, t1
}

func textData(t *testing.T, s *store, id string) plan.TextData {
	t.Helper()
	for _, n := range s.nodes {
		if n.ID() == id {
			d, ok := n.AsText()
			require.True(t, ok)
			return *d
		}
	}
	t.Fatalf("node %s not found", id)
	return plan.TextData{}
}

func TestDeleteSelectedNodesCascadesEdges(t *testing.T) {
	s, p1, t1 := phaseAndTechnique()
	c := newController(s, Options{})
	c.Selection().AddNode(p1.ID())
	c.Selection().AddNode(t1.ID())

	assert.True(t, c.KeyDown(input.Press(input.KeyDelete)))
	assert.Empty(t, s.nodes)
	assert.Empty(t, s.edges)
	assert.Equal(t, []string{"edges", "nodes"}, s.batches, "one batch per collection")
	assert.True(t, c.Selection().Empty())
}

func TestBackspaceDeletesToo(t *testing.T) {
	s, p1, _ := phaseAndTechnique()
	c := newController(s, Options{})
	c.Selection().SelectNode(p1.ID())

	assert.True(t, c.KeyDown(input.Press(input.KeyBackspace)))
	assert.Len(t, s.nodes, 1)
	assert.Empty(t, s.edges, "incident edge removed with its node")
}

func TestDeleteNeverLeavesDanglingEdges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	anchors := plan.Anchors
	for round := 0; round < 200; round++ {
		s := &store{}
		n := 1 + rng.Intn(8)
		for i := 0; i < n; i++ {
			s.nodes = append(s.nodes, plan.NewTextNode(plan.Point{X: float64(i * 300)}))
		}
		for i := rng.Intn(15); i > 0; i-- {
			a := s.nodes[rng.Intn(n)].ID()
			b := s.nodes[rng.Intn(n)].ID()
			s.edges = append(s.edges, plan.NewEdge(plan.Connection{
				Source: a, SourceAnchor: anchors[rng.Intn(4)],
				Target: b, TargetAnchor: anchors[rng.Intn(4)],
			}))
		}
		c := newController(s, Options{})
		for _, nd := range s.nodes {
			if rng.Intn(2) == 0 {
				c.Selection().AddNode(nd.ID())
			}
		}
		for _, e := range s.edges {
			if rng.Intn(3) == 0 {
				c.Selection().AddEdge(e.ID)
			}
		}

		c.DeleteSelection()

		present := map[string]bool{}
		for _, nd := range s.nodes {
			present[nd.ID()] = true
		}
		for _, e := range s.edges {
			require.True(t, present[e.Source] && present[e.Target], "round %d: dangling edge %s", round, e.ID)
		}
	}
}

func TestDeleteWhileEditingIsNoop(t *testing.T) {
	text := plan.NewTextNode(plan.Point{X: 300})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})
	c.TextAction(text.ID(), render.ActionEdit)
	require.True(t, c.Editing())

	before := []plan.Node{s.nodes[0].Clone()}
	for _, k := range []input.KeyCode{input.KeyDelete, input.KeyBackspace} {
		assert.True(t, c.KeyDown(input.Press(k)), "editor consumes the key")
	}
	assert.Equal(t, before, s.nodes)
	assert.Empty(t, s.batches)
}

func TestContextMenuAddTextBox(t *testing.T) {
	s := &store{}
	c := newController(s, Options{})

	ev := &PointerEvent{Screen: plan.Point{X: 120, Y: 80}, Button: input.ButtonSecondary}
	c.PointerDown(ev)
	assert.True(t, ev.DefaultPrevented())
	m := c.Menu()
	require.True(t, m.Visible)
	assert.Equal(t, ContextMenuOpen, c.State())
	assert.Equal(t, plan.Point{X: 120, Y: 80}, m.Canvas)

	item := m.ItemRect(0).Center()
	click(c, item.X, item.Y)

	require.Len(t, s.nodes, 1)
	n := s.nodes[0]
	assert.Equal(t, plan.KindText, n.Kind())
	assert.Equal(t, plan.Point{X: 120, Y: 80}, n.Position)
	d := textData(t, s, n.ID())
	assert.Equal(t, plan.DefaultTextContent, d.Content)
	assert.Equal(t, plan.FontBase, d.FontSize)
	assert.False(t, c.Menu().Visible)
	assert.Equal(t, Idle, c.State())
}

func TestContextMenuUsesCanvasSpace(t *testing.T) {
	s := &store{}
	c := newController(s, Options{Viewport: Viewport{X: 20, Y: -40, Zoom: 2}})
	c.ContextMenu(&PointerEvent{Screen: plan.Point{X: 120, Y: 80}})
	c.ChooseMenuItem(MenuAddTextBox)
	require.Len(t, s.nodes, 1)
	assert.Equal(t, plan.Point{X: 50, Y: 60}, s.nodes[0].Position)
}

func TestContextMenuOutsideClickCloses(t *testing.T) {
	s, p1, _ := phaseAndTechnique()
	c := newController(s, Options{})
	c.Selection().SelectNode(p1.ID())
	c.ContextMenu(&PointerEvent{Screen: plan.Point{X: 400, Y: 400}})

	click(c, 100, 30) // over P1, outside the menu
	assert.False(t, c.Menu().Visible)
	assert.Len(t, s.nodes, 2)
	assert.Empty(t, s.batches)
	assert.Equal(t, []string{p1.ID()}, c.Selection().Nodes(), "backdrop click has no side effects")
}

func TestContextMenuDisabledItem(t *testing.T) {
	s := &store{}
	var added []plan.Point
	c := newController(s, Options{OnAddTextBox: func(p plan.Point) { added = append(added, p) }})
	c.ContextMenu(&PointerEvent{Screen: plan.Point{X: 10, Y: 10}})

	item := c.Menu().ItemRect(1).Center()
	click(c, item.X, item.Y)
	assert.True(t, c.Menu().Visible)
	assert.Empty(t, added)

	c.ChooseMenuItem(MenuAddTextBox)
	assert.Equal(t, []plan.Point{{X: 10, Y: 10}}, added, "OnAddTextBox replaces default insertion")
	assert.Empty(t, s.nodes)
}

func TestCommitBoldEdit(t *testing.T) {
	s, p1, _ := phaseAndTechnique()
	text := plan.NewTextNode(plan.Point{X: 400})
	s.nodes = append(s.nodes, text)
	phaseBefore := p1.Clone()
	c := newController(s, Options{})

	c.TextAction(text.ID(), render.ActionEdit)
	ed := c.Editor(text.ID())
	require.NotNil(t, ed)
	ed.Select(0, 5)
	assert.True(t, c.KeyDown(input.Key{Code: input.KeyRune, Rune: 'b', Ctrl: true}))
	c.TextAction(text.ID(), render.ActionFontSize)
	assert.True(t, c.KeyDown(input.Key{Code: input.KeyEnter, Ctrl: true}))

	d := textData(t, s, text.ID())
	assert.Equal(t, "**Enter** your text here...", d.Content)
	assert.Equal(t, plan.FontLg, d.FontSize)
	assert.Equal(t, plan.WeightNormal, d.FontWeight)
	assert.Equal(t, textedit.Viewing, ed.State())
	assert.Empty(t, c.Focused())
	assert.Equal(t, phaseBefore, s.nodes[0], "other nodes untouched")
	assert.Equal(t, []string{"nodes"}, s.batches)
}

func TestCancelEditRestoresContent(t *testing.T) {
	text := plan.NewTextNode(plan.Point{})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})

	c.TextAction(text.ID(), render.ActionEdit)
	for _, r := range "scratch" {
		c.KeyDown(input.Rune(r))
	}
	c.TextAction(text.ID(), render.ActionFontWeight)
	c.KeyDown(input.Press(input.KeyEscape))

	assert.Equal(t, plan.DefaultTextContent, textData(t, s, text.ID()).Content)
	assert.Empty(t, s.batches)
	assert.Equal(t, plan.WeightNormal, c.Editor(text.ID()).FontWeight())
	assert.False(t, c.Editing())
}

func TestResizeRespectsFloor(t *testing.T) {
	text := plan.NewTextNode(plan.Point{})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})
	c.Selection().SelectNode(text.ID())

	f := c.Frame()
	require.Len(t, f.Nodes, 1)
	require.NotNil(t, f.Nodes[0].Resize)
	h := f.Nodes[0].Resize.Center()

	c.PointerDown(press(h.X, h.Y))
	require.Equal(t, Resizing, c.State())
	c.PointerMove(press(h.X-500, h.Y-500))
	c.PointerUp(press(h.X-500, h.Y-500))
	assert.Equal(t, plan.Size{Width: plan.MinTextWidth, Height: plan.MinTextHeight}, *s.nodes[0].Size)

	f = c.Frame()
	h = f.Nodes[0].Resize.Center()
	c.PointerDown(press(h.X, h.Y))
	c.PointerMove(press(h.X+100, h.Y+40))
	c.PointerUp(press(h.X+100, h.Y+40))
	assert.Equal(t, plan.Size{Width: 300, Height: 140}, *s.nodes[0].Size)
}

func TestResizeHandleOnlyWhenSelected(t *testing.T) {
	text := plan.NewTextNode(plan.Point{})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})
	assert.Nil(t, c.Frame().Nodes[0].Resize)
}

func TestDragOverAndDrop(t *testing.T) {
	s := &store{}
	c := newController(s, Options{Viewport: Viewport{X: 100, Y: 0, Zoom: 2}})

	over := &DragEvent{Screen: plan.Point{X: 300, Y: 200}}
	c.DragOver(over)
	assert.True(t, over.DefaultPrevented())
	assert.Equal(t, DropMove, over.Effect)

	data, err := plan.EncodeDescriptor(plan.Descriptor{
		Kind: plan.KindTechnique,
		Data: &plan.TechniqueData{MitreID: "T1566", Title: "Phishing", Phase: "Initial Access"},
	})
	require.NoError(t, err)
	assert.True(t, c.Drop(&DragEvent{Screen: plan.Point{X: 300, Y: 200}, Data: data}))

	require.Len(t, s.nodes, 1)
	n := s.nodes[0]
	assert.Equal(t, plan.Point{X: 100, Y: 100}, n.Position)
	d, ok := n.AsTechnique()
	require.True(t, ok)
	assert.Equal(t, "Phishing", d.Title)
	assert.Equal(t, []string{n.ID()}, c.Selection().Nodes())
}

func TestDropBadPayload(t *testing.T) {
	s := &store{}
	c := newController(s, Options{})
	assert.False(t, c.Drop(&DragEvent{Data: []byte("{not json")}))
	assert.False(t, c.Drop(&DragEvent{Data: []byte(`{"kind":"sticky"}`)}))
	assert.Empty(t, s.nodes)
}

func TestDropOverride(t *testing.T) {
	s := &store{}
	var got []DropEvent
	c := newController(s, Options{OnDrop: func(e DropEvent) { got = append(got, e) }})
	data, _ := plan.EncodeDescriptor(plan.Descriptor{Kind: plan.KindPhase, Data: &plan.PhaseData{Name: "Impact"}})
	c.Drop(&DragEvent{Screen: plan.Point{X: 5, Y: 6}, Data: data})

	require.Len(t, got, 1)
	assert.Equal(t, plan.Point{X: 5, Y: 6}, got[0].Canvas)
	assert.Equal(t, plan.KindPhase, got[0].Descriptor.Kind)
	assert.Empty(t, s.nodes)
}

func TestConnectByDraggingBetweenAnchors(t *testing.T) {
	s, p1, t1 := phaseAndTechnique()
	s.edges = nil
	c := newController(s, Options{})

	c.PointerDown(press(100, 60)) // P1 bottom
	require.Equal(t, Connecting, c.State())
	c.PointerMove(press(120, 150))
	assert.Len(t, c.Frame().Preview, 2)
	c.PointerUp(press(130, 200)) // T1 top

	require.Len(t, s.edges, 1)
	e := s.edges[0]
	assert.Equal(t, p1.ID(), e.Source)
	assert.Equal(t, plan.AnchorBottom, e.SourceAnchor)
	assert.Equal(t, t1.ID(), e.Target)
	assert.Equal(t, plan.AnchorTop, e.TargetAnchor)
	assert.Equal(t, Idle, c.State())
}

func TestConnectReleaseOnNodeBodyPicksNearestAnchor(t *testing.T) {
	s, _, t1 := phaseAndTechnique()
	s.edges = nil
	c := newController(s, Options{})

	c.PointerDown(press(100, 60))
	c.PointerUp(press(20, 260)) // inside T1, closer to its bottom anchor
	require.Len(t, s.edges, 1)
	assert.Equal(t, t1.ID(), s.edges[0].Target)
	assert.Equal(t, plan.AnchorBottom, s.edges[0].TargetAnchor)
}

func TestConnectAbortedOverEmptySpace(t *testing.T) {
	s, _, _ := phaseAndTechnique()
	s.edges = nil
	c := newController(s, Options{})
	c.PointerDown(press(100, 60))
	c.PointerUp(press(900, 900))
	assert.Empty(t, s.edges)
	assert.Equal(t, Idle, c.State())
}

func TestConnectPermitsSelfLoopsAndParallelEdges(t *testing.T) {
	s, p1, t1 := phaseAndTechnique()
	c := newController(s, Options{})

	assert.True(t, c.Connect(plan.Connection{Source: p1.ID(), SourceAnchor: plan.AnchorBottom, Target: p1.ID(), TargetAnchor: plan.AnchorTop}))
	assert.True(t, c.Connect(plan.Connection{Source: p1.ID(), SourceAnchor: plan.AnchorBottom, Target: t1.ID(), TargetAnchor: plan.AnchorTop}))
	assert.Len(t, s.edges, 3)

	assert.False(t, c.Connect(plan.Connection{Source: p1.ID(), SourceAnchor: plan.AnchorBottom, Target: "missing", TargetAnchor: plan.AnchorTop}))
	assert.Len(t, s.edges, 3)
}

func TestOnConnectOverride(t *testing.T) {
	s, p1, t1 := phaseAndTechnique()
	var got []plan.Connection
	c := newController(s, Options{OnConnect: func(conn plan.Connection) { got = append(got, conn) }})
	c.Connect(plan.Connection{Source: t1.ID(), SourceAnchor: plan.AnchorTop, Target: p1.ID(), TargetAnchor: plan.AnchorBottom})
	assert.Len(t, got, 1)
	assert.Len(t, s.edges, 1)
}

func TestDragMovesSelectedNodes(t *testing.T) {
	s, p1, t1 := phaseAndTechnique()
	var clicked []string
	c := newController(s, Options{OnNodeClick: func(n plan.Node) { clicked = append(clicked, n.ID()) }})

	c.PointerDown(press(100, 30))
	assert.Equal(t, Dragging, c.State())
	c.PointerMove(press(150, 70))
	c.PointerUp(press(150, 70))

	assert.Equal(t, plan.Point{X: 50, Y: 40}, s.nodes[0].Position)
	assert.Equal(t, t1.Position, s.nodes[1].Position)
	assert.Empty(t, clicked, "a drag is not a click")
	assert.Equal(t, []string{p1.ID()}, c.Selection().Nodes())
}

func TestClickSelection(t *testing.T) {
	s, p1, t1 := phaseAndTechnique()
	var clicked []string
	c := newController(s, Options{OnNodeClick: func(n plan.Node) { clicked = append(clicked, n.ID()) }})

	click(c, 100, 30)
	assert.Equal(t, []string{p1.ID()}, c.Selection().Nodes())

	shift := press(130, 250)
	shift.Shift = true
	c.PointerDown(shift)
	c.PointerUp(shift)
	assert.ElementsMatch(t, []string{p1.ID(), t1.ID()}, c.Selection().Nodes())

	click(c, 130, 250)
	assert.Equal(t, []string{t1.ID()}, c.Selection().Nodes(), "plain click narrows the selection")

	click(c, 900, 900)
	assert.True(t, c.Selection().Empty())
	assert.Equal(t, []string{p1.ID(), t1.ID(), t1.ID()}, clicked)
}

func TestClickSelectsEdge(t *testing.T) {
	s, _, _ := phaseAndTechnique()
	c := newController(s, Options{})

	click(c, 100, 105)
	assert.Equal(t, []string{s.edges[0].ID}, c.Selection().Edges())

	c.KeyDown(input.Press(input.KeyDelete))
	assert.Empty(t, s.edges)
	assert.Len(t, s.nodes, 2)
}

func TestClickTextNodeStartsEditing(t *testing.T) {
	text := plan.NewTextNode(plan.Point{X: 300})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})

	click(c, 425, 75)
	assert.True(t, c.Selection().HasNode(text.ID()))
	assert.True(t, c.Editing(), "one click opens the editor")
	assert.Equal(t, text.ID(), c.Focused())

	click(c, 900, 900)
	assert.False(t, c.Editing(), "clicking away moves focus off the editor")
	assert.True(t, c.Editor(text.ID()).Editing(), "draft survives the blur")
}

func TestDragTextNodeDoesNotEdit(t *testing.T) {
	text := plan.NewTextNode(plan.Point{X: 300})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})

	c.PointerDown(press(425, 75))
	c.PointerMove(press(465, 95))
	c.PointerUp(press(465, 95))
	assert.False(t, c.Editing())
	assert.Equal(t, plan.Point{X: 340, Y: 20}, s.nodes[0].Position)
}

func TestTopAnchorWinsOverToolbar(t *testing.T) {
	text := plan.NewTextNode(plan.Point{X: 300, Y: 100})
	other := plan.NewPhaseNode(plan.Point{X: 300, Y: 500}, plan.PhaseData{Name: "Impact"})
	s := &store{nodes: []plan.Node{text, other}}
	c := newController(s, Options{})
	c.Selection().SelectNode(text.ID())

	f := c.Frame()
	require.NotEmpty(t, f.Nodes[0].Toolbar)
	var top plan.Point
	for _, a := range f.Nodes[0].Anchors {
		if a.Anchor == plan.AnchorTop {
			top = a.Point
		}
	}
	before := textData(t, s, text.ID())

	// Just above the node edge, inside the toolbar row.
	c.PointerDown(press(top.X, top.Y-HandleRadius/2))
	require.Equal(t, Connecting, c.State())
	c.PointerUp(press(400, 530))
	require.Len(t, s.edges, 1)
	assert.Equal(t, text.ID(), s.edges[0].Source)
	assert.Equal(t, plan.AnchorTop, s.edges[0].SourceAnchor)
	assert.Equal(t, before, textData(t, s, text.ID()), "toolbar not triggered")
}

func TestToolbarClick(t *testing.T) {
	text := plan.NewTextNode(plan.Point{X: 300, Y: 100})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})
	c.Selection().SelectNode(text.ID())

	f := c.Frame()
	require.NotEmpty(t, f.Nodes[0].Toolbar)
	edit := f.Nodes[0].Toolbar[0]
	require.Equal(t, render.ActionEdit, edit.Action)
	p := edit.Rect.Center()
	click(c, p.X, p.Y)
	assert.True(t, c.Editing())

	f = c.Frame()
	assert.True(t, f.Nodes[0].View.Editing)
	assert.True(t, f.Nodes[0].Focused)
}

func TestPerNodeDeleteIgnoresSelection(t *testing.T) {
	s, p1, t1 := phaseAndTechnique()
	text := plan.NewTextNode(plan.Point{X: 400})
	s.nodes = append(s.nodes, text)
	s.edges = append(s.edges, plan.NewEdge(plan.Connection{
		Source: text.ID(), SourceAnchor: plan.AnchorLeft,
		Target: t1.ID(), TargetAnchor: plan.AnchorRight,
	}))
	c := newController(s, Options{})
	c.Selection().AddNode(p1.ID())
	c.Selection().AddNode(t1.ID())

	c.TextAction(text.ID(), render.ActionDelete)
	assert.Len(t, s.nodes, 2)
	require.Len(t, s.edges, 1)
	assert.Equal(t, p1.ID(), s.edges[0].Source)
	assert.ElementsMatch(t, []string{p1.ID(), t1.ID()}, c.Selection().Nodes())
}

func TestSelectAllAndNudge(t *testing.T) {
	s, _, _ := phaseAndTechnique()
	c := newController(s, Options{})

	assert.True(t, c.KeyDown(input.Key{Code: input.KeyRune, Rune: 'a', Ctrl: true}))
	assert.Len(t, c.Selection().Nodes(), 2)
	assert.Len(t, c.Selection().Edges(), 1)

	c.KeyDown(input.Press(input.KeyRight))
	assert.Equal(t, plan.Point{X: CellWidth, Y: 0}, s.nodes[0].Position)
	assert.Equal(t, plan.Point{X: CellWidth, Y: 200}, s.nodes[1].Position)
	assert.Equal(t, []string{"nodes"}, s.batches, "one batch for the whole selection")
}

func TestEnterOpensSelectedTextNode(t *testing.T) {
	text := plan.NewTextNode(plan.Point{})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})
	c.Selection().SelectNode(text.ID())

	assert.True(t, c.KeyDown(input.Press(input.KeyEnter)))
	assert.True(t, c.Editing())
}

func TestInitCallback(t *testing.T) {
	var got *Controller
	c := New(&store{}, Options{OnInit: func(c *Controller) { got = c }})
	assert.Same(t, c, got)
}

func TestUnregisteredKindRendersFallback(t *testing.T) {
	s, _, _ := phaseAndTechnique()
	reg := render.Registry{plan.KindPhase: render.ForKind(plan.KindPhase)}
	c := newController(s, Options{Registry: reg})

	var f Frame
	require.NotPanics(t, func() { f = c.Frame() })
	require.Len(t, f.Nodes, 2)
	assert.False(t, f.Nodes[0].View.Placeholder)
	assert.True(t, f.Nodes[1].View.Placeholder)
}

func TestFrameMinimapAndEdges(t *testing.T) {
	s, _, _ := phaseAndTechnique()
	text := plan.NewTextNode(plan.Point{X: 400})
	s.nodes = append(s.nodes, text)
	c := newController(s, Options{})
	c.SetSize(800, 600)

	f := c.Frame()
	require.Len(t, f.Minimap, 3)
	assert.Equal(t, render.PhaseColor("Reconnaissance"), f.Minimap[0].Color)
	assert.Equal(t, render.TextAccent, f.Minimap[2].Color)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 650, H: 300}, f.World)

	require.Len(t, f.Edges, 1)
	pts := f.Edges[0].Points
	assert.Equal(t, plan.Point{X: 100, Y: 60}, pts[0])
	assert.Equal(t, plan.Point{X: 130, Y: 200}, pts[len(pts)-1])

	require.Len(t, f.Controls, 3)
	assert.Equal(t, float64(GridStep), f.Grid.Step)

	// Text anchors stay muted until hover.
	assert.True(t, f.Nodes[2].Anchors[0].Muted)
	c.PointerMove(press(500, 50))
	assert.False(t, c.Frame().Nodes[2].Anchors[0].Muted)
}

func TestZoomControls(t *testing.T) {
	s, _, _ := phaseAndTechnique()
	c := newController(s, Options{})
	c.SetSize(800, 600)

	c.KeyDown(input.Rune('+'))
	assert.InDelta(t, zoomStep, c.Viewport().Zoom, 1e-9)
	c.KeyDown(input.Rune('-'))
	assert.InDelta(t, 1, c.Viewport().Zoom, 1e-9)

	zoomIn := c.Frame().Controls[0]
	p := zoomIn.Rect.Center()
	click(c, p.X, p.Y)
	assert.InDelta(t, zoomStep, c.Viewport().Zoom, 1e-9)
}

func TestEditorSyncsAfterExternalChange(t *testing.T) {
	text := plan.NewTextNode(plan.Point{})
	s := &store{nodes: []plan.Node{text}}
	c := newController(s, Options{})
	ed := c.Editor(text.ID())

	s.applyNodes([]plan.NodeChange{plan.UpdateNodeData(text.ID(), &plan.TextData{Content: "restored", FontSize: plan.FontSm})})
	f := c.Frame()
	assert.Equal(t, "restored", ed.Text())
	assert.Equal(t, plan.FontSm, f.Nodes[0].View.FontSize)
}
