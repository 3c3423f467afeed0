package session

import "github.com/akashvibhute/simlane-web-sub000/internal/event"

// historyEntry pairs an applied operation with the entity snapshot taken
// just before it, which is what undo restores.
type historyEntry struct {
	op    event.Operation
	prior *Entity
}

// history holds the session-local undo and redo stacks. Remote operations
// enter the undo stack too: any member may revert any change made during
// the session. A new edit clears the redo stack.
type history struct {
	undo  []historyEntry
	redo  []historyEntry
	limit int
}

func newHistory(limit int) *history {
	return &history{limit: limit}
}

// record appends an applied operation to the undo stack and clears redo.
func (h *history) record(e historyEntry) {
	h.undo = append(h.undo, e)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

// popUndo removes and returns the most recent undoable entry.
func (h *history) popUndo() (historyEntry, bool) {
	if len(h.undo) == 0 {
		return historyEntry{}, false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return e, true
}

// popRedo removes and returns the most recent redoable entry.
func (h *history) popRedo() (historyEntry, bool) {
	if len(h.redo) == 0 {
		return historyEntry{}, false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return e, true
}

// pushRedo stores an undone entry for a later redo.
func (h *history) pushRedo(e historyEntry) {
	h.redo = append(h.redo, e)
}

// pushUndo re-appends an entry after a redo without clearing the redo stack.
func (h *history) pushUndo(e historyEntry) {
	h.undo = append(h.undo, e)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
}

// undoDepth returns the number of undoable operations.
func (h *history) undoDepth() int { return len(h.undo) }

// redoDepth returns the number of redoable operations.
func (h *history) redoDepth() int { return len(h.redo) }
