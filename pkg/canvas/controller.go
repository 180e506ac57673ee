// Package canvas mediates between a plan graph and the user. The Controller
// turns pointer, keyboard and drag-and-drop events into change batches
// delivered through callbacks, and produces Frames for a painter to draw.
// It never mutates the graph itself: the host owns the collections and
// applies the batches.
package canvas

import (
	"io"
	"log/slog"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
	"github.com/ha1tch/attackplan/pkg/textedit"
)

// Source supplies the current graph to the controller.
type Source interface {
	Nodes() []plan.Node
	Edges() []plan.Edge
}

// DropEvent is passed to Options.OnDrop once a drag payload has been
// decoded and its position mapped to canvas space.
type DropEvent struct {
	Descriptor plan.Descriptor
	Screen     plan.Point
	Canvas     plan.Point
}

// Options configures a Controller. Only OnNodesChange and OnEdgesChange
// are needed for a working canvas; the rest override or observe default
// behaviour.
type Options struct {
	Registry render.Registry

	OnNodesChange func([]plan.NodeChange)
	OnEdgesChange func([]plan.EdgeChange)

	// OnConnect replaces the default edge insertion.
	OnConnect func(plan.Connection)
	// OnNodeClick is called when a node is clicked without being dragged.
	OnNodeClick func(plan.Node)
	// OnInit is called once the controller is ready.
	OnInit func(*Controller)
	// OnDrop replaces the default node insertion for palette drops.
	OnDrop func(DropEvent)
	// OnAddTextBox replaces the default text node insertion from the
	// context menu. It receives the canvas point the menu was opened at.
	OnAddTextBox func(plan.Point)

	Viewport Viewport
	Logger   *slog.Logger
}

// State is the interaction state of the controller.
type State int

const (
	Idle State = iota
	ContextMenuOpen
	Dragging
	Connecting
	Resizing
	Panning
)

var stateNames = [...]string{"idle", "menu", "dragging", "connecting", "resizing", "panning"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Controller owns the ephemeral interaction state of one canvas.
type Controller struct {
	src      Source
	opts     Options
	logger   *slog.Logger
	registry render.Registry

	viewport      Viewport
	width, height float64

	sel     *Selection
	menu    ContextMenu
	editors map[string]*textedit.Editor
	focus   string // node whose editor receives keys
	state   State

	// Pointer gesture in progress.
	press      plan.Point
	last       plan.Point
	moved      bool
	target     string
	dragIDs    []string
	origins    map[string]plan.Point
	resizeFrom plan.Size
	connFrom   plan.Connection
	connTo     plan.Point
}

// New creates a controller over src.
func New(src Source, opts Options) *Controller {
	c := &Controller{
		src:      src,
		opts:     opts,
		logger:   opts.Logger,
		registry: opts.Registry,
		viewport: opts.Viewport,
		sel:      NewSelection(),
		editors:  make(map[string]*textedit.Editor),
		origins:  make(map[string]plan.Point),
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.registry == nil {
		c.registry = render.DefaultRegistry()
	}
	if c.viewport.Zoom <= 0 {
		c.viewport.Zoom = 1
	}
	if opts.OnInit != nil {
		opts.OnInit(c)
	}
	return c
}

// State returns the interaction state.
func (c *Controller) State() State { return c.state }

// Viewport returns the current transform.
func (c *Controller) Viewport() Viewport { return c.viewport }

// SetViewport replaces the transform.
func (c *Controller) SetViewport(v Viewport) {
	if v.Zoom <= 0 {
		v.Zoom = 1
	}
	v.Zoom = clampZoom(v.Zoom)
	c.viewport = v
}

// SetSize records the screen size of the canvas area.
func (c *Controller) SetSize(w, h float64) {
	c.width, c.height = w, h
}

// Selection returns the selection store.
func (c *Controller) Selection() *Selection { return c.sel }

// Menu returns a copy of the context menu state.
func (c *Controller) Menu() ContextMenu { return c.menu }

// Focused returns the id of the text node whose editor has keyboard focus,
// or "".
func (c *Controller) Focused() string { return c.focus }

// Editing reports whether a text editor currently has keyboard focus.
func (c *Controller) Editing() bool {
	ed, ok := c.editors[c.focus]
	return ok && ed.Editing()
}

// Editor returns the editor of a text node, creating it on first use. It
// returns nil for other kinds or a text node without payload.
func (c *Controller) Editor(id string) *textedit.Editor {
	if ed, ok := c.editors[id]; ok {
		return ed
	}
	n, ok := c.node(id)
	if !ok {
		return nil
	}
	d, ok := n.AsText()
	if !ok {
		return nil
	}
	ed := textedit.New(*d, func(td plan.TextData) {
		c.logger.Debug("text committed", "node", id, "size", td.FontSize, "weight", td.FontWeight)
		c.emitNodes(plan.UpdateNodeData(id, &td))
	})
	c.editors[id] = ed
	return ed
}

func (c *Controller) node(id string) (plan.Node, bool) {
	for _, n := range c.src.Nodes() {
		if n.ID() == id {
			return n, true
		}
	}
	return plan.Node{}, false
}

func (c *Controller) hasNode(id string) bool {
	_, ok := c.node(id)
	return ok
}

func (c *Controller) hasEdge(id string) bool {
	for _, e := range c.src.Edges() {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (c *Controller) emitNodes(changes ...plan.NodeChange) {
	if len(changes) == 0 || c.opts.OnNodesChange == nil {
		return
	}
	c.opts.OnNodesChange(changes)
}

func (c *Controller) emitEdges(changes ...plan.EdgeChange) {
	if len(changes) == 0 || c.opts.OnEdgesChange == nil {
		return
	}
	c.opts.OnEdgesChange(changes)
}

// sync drops ephemeral state for elements that no longer exist and
// refreshes idle editors from the graph.
func (c *Controller) sync() {
	c.sel.Forget(c.hasNode, c.hasEdge)
	for id, ed := range c.editors {
		n, ok := c.node(id)
		if !ok {
			delete(c.editors, id)
			continue
		}
		if d, ok := n.AsText(); ok {
			ed.Sync(*d)
		}
	}
	if _, ok := c.editors[c.focus]; !ok {
		c.focus = ""
	}
}

// Connect adds an edge between two anchors. Both endpoints must exist;
// self-loops and parallel edges are allowed.
func (c *Controller) Connect(conn plan.Connection) bool {
	if !c.hasNode(conn.Source) || !c.hasNode(conn.Target) {
		c.logger.Warn("connect: missing endpoint", "source", conn.Source, "target", conn.Target)
		return false
	}
	if !conn.SourceAnchor.Valid() || !conn.TargetAnchor.Valid() {
		c.logger.Warn("connect: invalid anchor", "source", conn.SourceAnchor, "target", conn.TargetAnchor)
		return false
	}
	if c.opts.OnConnect != nil {
		c.opts.OnConnect(conn)
		return true
	}
	c.emitEdges(plan.AddEdge(plan.NewEdge(conn)))
	return true
}

// DeleteSelection removes the selected nodes and edges together with every
// edge incident to a removed node. Edges go out as one batch, then nodes as
// one batch. It reports whether anything was removed.
func (c *Controller) DeleteSelection() bool {
	c.sync()
	return c.remove(c.sel.Nodes(), c.sel.Edges())
}

// DeleteNode removes one node and its incident edges regardless of the
// selection.
func (c *Controller) DeleteNode(id string) bool {
	if !c.hasNode(id) {
		return false
	}
	return c.remove([]string{id}, nil)
}

func (c *Controller) remove(nodeIDs, edgeIDs []string) bool {
	if len(nodeIDs) == 0 && len(edgeIDs) == 0 {
		return false
	}
	seen := make(map[string]bool)
	var edgeChanges []plan.EdgeChange
	ids := append(append([]string(nil), edgeIDs...), plan.IncidentEdges(c.src.Edges(), nodeIDs)...)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			edgeChanges = append(edgeChanges, plan.RemoveEdge(id))
		}
	}
	nodeChanges := make([]plan.NodeChange, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		nodeChanges = append(nodeChanges, plan.RemoveNode(id))
		delete(c.editors, id)
		if c.focus == id {
			c.focus = ""
		}
	}
	c.logger.Debug("delete", "nodes", len(nodeChanges), "edges", len(edgeChanges))
	c.emitEdges(edgeChanges...)
	c.emitNodes(nodeChanges...)
	c.sync()
	return true
}

// SelectAll selects every node and edge.
func (c *Controller) SelectAll() {
	c.sel.Clear()
	for _, n := range c.src.Nodes() {
		c.sel.AddNode(n.ID())
	}
	for _, e := range c.src.Edges() {
		c.sel.AddEdge(e.ID)
	}
}

// AddTextBox inserts a default text node at a canvas point.
func (c *Controller) AddTextBox(at plan.Point) {
	if c.opts.OnAddTextBox != nil {
		c.opts.OnAddTextBox(at)
		return
	}
	n := plan.NewTextNode(at)
	c.logger.Debug("add text box", "node", n.ID(), "x", at.X, "y", at.Y)
	c.emitNodes(plan.AddNode(n))
}

// ChooseMenuItem runs a context menu action and closes the menu. Disabled
// items are ignored and leave the menu open.
func (c *Controller) ChooseMenuItem(id string) {
	if !c.menu.Visible {
		return
	}
	at := c.menu.Canvas
	var item MenuItem
	for _, it := range c.menu.Items {
		if it.ID == id {
			item = it
		}
	}
	if item.Disabled {
		return
	}
	c.closeMenu()
	switch item.ID {
	case MenuAddTextBox:
		c.AddTextBox(at)
	}
}

func (c *Controller) closeMenu() {
	c.menu.Close()
	if c.state == ContextMenuOpen {
		c.state = Idle
	}
}

// TextAction runs a toolbar action on a text node.
func (c *Controller) TextAction(id string, a render.Action) {
	if a == render.ActionDelete {
		c.DeleteNode(id)
		return
	}
	ed := c.Editor(id)
	if ed == nil {
		return
	}
	switch a {
	case render.ActionEdit:
		ed.Begin()
		c.focus = id
		c.sel.SelectNode(id)
	case render.ActionSave:
		ed.Commit()
		c.blur(id)
	case render.ActionCancel:
		ed.Cancel()
		c.blur(id)
	case render.ActionBold:
		ed.Bold()
	case render.ActionItalic:
		ed.Italic()
	case render.ActionBullet:
		ed.Bullet()
	case render.ActionFontSize:
		ed.CycleFontSize(1)
	case render.ActionFontWeight:
		ed.CycleFontWeight(1)
	}
}

func (c *Controller) blur(id string) {
	if c.focus == id {
		c.focus = ""
	}
}
