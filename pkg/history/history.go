// Package history records cell edits so they can be undone and redone.
//
// A [History] is a command log kept outside the engine: it stores the text a
// cell held before and after each edit and replays that text through
// SetContentsOfCell. The engine itself keeps no history.
//
//	h := history.New()
//	h.Edit(sheet, "A1", "=B1*2")
//	h.Undo(sheet) // A1 back to its previous contents
//	h.Redo(sheet) // A1 = B1*2 again
package history

import (
	"errors"

	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

var (
	// ErrNothingToUndo is returned by Undo when no edit is recorded.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when no undone edit is recorded.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Entry is one recorded edit. Before and After are string forms.
type Entry struct {
	Cell   string
	Before string
	After  string
}

// History is an undo/redo log.
//
// The zero value is an empty history ready to use.
// History is not safe for concurrent use.
type History struct {
	undo []Entry
	redo []Entry
}

// New returns an empty History.
func New() *History { return &History{} }

// Record pushes an edit onto the undo stack and discards every undone edit.
func (h *History) Record(cell, before, after string) {
	h.undo = append(h.undo, Entry{Cell: cell, Before: before, After: after})
	h.redo = h.redo[:0]
}

// CanUndo reports whether Undo has an edit to revert.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo has an edit to reapply.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of edits that can be undone.
func (h *History) Len() int { return len(h.undo) }

// Edit sets cell to text on sheet and records the edit if it succeeds.
// It returns what SetContentsOfCell returned.
func (h *History) Edit(sheet spreadsheet.Sheet, cell, text string) ([]string, error) {
	before, err := sheet.CellContents(cell)
	if err != nil {
		return nil, err
	}
	order, err := sheet.SetContentsOfCell(cell, text)
	if err != nil {
		return nil, err
	}
	after, _ := sheet.CellContents(cell)
	h.Record(order[0], before.String(), after.String())
	return order, nil
}

// Undo restores the cell changed by the most recent edit and moves the edit
// to the redo stack. It returns the recalculated cells.
//
// If the sheet rejects the restored text, the edit stays on the undo stack.
func (h *History) Undo(sheet spreadsheet.Sheet) ([]string, error) {
	if len(h.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	e := h.undo[len(h.undo)-1]
	order, err := sheet.SetContentsOfCell(e.Cell, e.Before)
	if err != nil {
		return nil, err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return order, nil
}

// Redo reapplies the most recently undone edit and moves it back to the undo
// stack. It returns the recalculated cells.
//
// If the sheet rejects the text, the edit stays on the redo stack.
func (h *History) Redo(sheet spreadsheet.Sheet) ([]string, error) {
	if len(h.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	e := h.redo[len(h.redo)-1]
	order, err := sheet.SetContentsOfCell(e.Cell, e.After)
	if err != nil {
		return nil, err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	return order, nil
}
