package session

import (
	"fmt"

	"github.com/bethropolis/tide-indent/internal/types"
)

const DefaultMaxHistory = 100

// ActionType indicates whether text was inserted or deleted.
type ActionType int

const (
	InsertAction ActionType = iota
	DeleteAction
)

// Change is a single reversible buffer edit.
type Change struct {
	Type  ActionType
	Text  []byte         // text inserted or deleted
	Start types.Position // where the change began
	End   types.Position // end of the inserted text, or of the deleted range
}

// step groups the changes made by one user action, e.g. a keystroke and
// the reindent it triggered, so they undo together.
type step struct {
	changes      []Change
	cursorBefore types.Position
	cursorAfter  types.Position
}

// history is the undo/redo stack of a Session.
type history struct {
	steps   []step
	current int // index of the next step to redo
	limit   int
	open    *step
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultMaxHistory
	}
	return &history{limit: limit}
}

func (h *history) begin(cursor types.Position) {
	h.open = &step{cursorBefore: cursor}
}

func (h *history) record(c Change) {
	if h.open != nil {
		h.open.changes = append(h.open.changes, c)
	}
}

// commit closes the open step, dropping it when nothing changed.
func (h *history) commit(cursor types.Position) {
	st := h.open
	h.open = nil
	if st == nil || len(st.changes) == 0 {
		return
	}
	st.cursorAfter = cursor
	if h.current < len(h.steps) {
		h.steps = h.steps[:h.current]
	}
	h.steps = append(h.steps, *st)
	if len(h.steps) > h.limit {
		h.steps = h.steps[len(h.steps)-h.limit:]
	}
	h.current = len(h.steps)
}

func (h *history) canUndo() bool { return h.current > 0 }
func (h *history) canRedo() bool { return h.current < len(h.steps) }

// Undo reverts the last step. It reports false when there is nothing to undo.
func (s *Session) Undo() (bool, error) {
	h := s.hist
	if !h.canUndo() {
		return false, nil
	}
	st := h.steps[h.current-1]
	for i := len(st.changes) - 1; i >= 0; i-- {
		c := st.changes[i]
		var err error
		switch c.Type {
		case InsertAction:
			err = s.rawDelete(c.Start, c.End)
		case DeleteAction:
			err = s.rawInsert(c.Start, c.Text)
		}
		if err != nil {
			return false, fmt.Errorf("undo failed: %w", err)
		}
	}
	h.current--
	s.cursor = st.cursorBefore
	s.log.Debug("undo", "step", h.current, "changes", len(st.changes))
	return true, nil
}

// Redo reapplies the last undone step.
func (s *Session) Redo() (bool, error) {
	h := s.hist
	if !h.canRedo() {
		return false, nil
	}
	st := h.steps[h.current]
	for _, c := range st.changes {
		var err error
		switch c.Type {
		case InsertAction:
			err = s.rawInsert(c.Start, c.Text)
		case DeleteAction:
			err = s.rawDelete(c.Start, c.End)
		}
		if err != nil {
			return false, fmt.Errorf("redo failed: %w", err)
		}
	}
	h.current++
	s.cursor = st.cursorAfter
	s.log.Debug("redo", "step", h.current, "changes", len(st.changes))
	return true, nil
}
