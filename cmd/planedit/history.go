package main

import "github.com/ha1tch/attackplan/pkg/plan"

const maxUndoLevels = 50

// history keeps graph snapshots for undo and redo.
type history struct {
	undoStack []*plan.Graph
	redoStack []*plan.Graph
}

// save records g before a change and clears the redo stack.
func (h *history) save(g *plan.Graph) {
	h.undoStack = append(h.undoStack, g.Clone())
	if len(h.undoStack) > maxUndoLevels {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = nil
}

// undo restores the previous snapshot into g in place, so that anything
// holding g keeps seeing the live graph.
func (h *history) undo(g *plan.Graph) bool {
	if len(h.undoStack) == 0 {
		return false
	}
	// Save current state to redo stack
	h.redoStack = append(h.redoStack, g.Clone())

	// Pop from undo stack
	snap := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	// Restore
	restore(g, snap)
	return true
}

func (h *history) redo(g *plan.Graph) bool {
	if len(h.redoStack) == 0 {
		return false
	}
	// Save current state to undo stack (without clearing redo)
	h.undoStack = append(h.undoStack, g.Clone())

	// Pop from redo stack
	snap := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	// Restore
	restore(g, snap)
	return true
}

func (h *history) reset() {
	h.undoStack = nil
	h.redoStack = nil
}

func restore(g, snap *plan.Graph) {
	g.Name = snap.Name
	g.Description = snap.Description
	g.Replace(snap.Nodes(), snap.Edges())
}
